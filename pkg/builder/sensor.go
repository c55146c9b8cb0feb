package builder

import (
	"time"

	"github.com/autolab/resonance/pkg/internal/sensor"
	"github.com/autolab/resonance/pkg/internal/types"
)

// NewSensor creates a callback registry for component events.
func NewSensor[T any](options ...types.Option[types.Sensor[T]]) types.Sensor[T] {
	return sensor.NewSensor[T](options...)
}

// SensorWithLogger attaches loggers to the sensor.
func SensorWithLogger[T any](logger ...types.Logger) types.Option[types.Sensor[T]] {
	return sensor.WithLogger[T](logger...)
}

// SensorWithOnStartFunc registers callbacks for the OnStart event.
func SensorWithOnStartFunc[T any](callback ...func(types.ComponentMetadata)) types.Option[types.Sensor[T]] {
	return sensor.WithOnStartFunc[T](callback...)
}

// SensorWithOnStopFunc registers callbacks for the OnStop event.
func SensorWithOnStopFunc[T any](callback ...func(types.ComponentMetadata)) types.Option[types.Sensor[T]] {
	return sensor.WithOnStopFunc[T](callback...)
}

// SensorWithOnElementProcessedFunc registers callbacks for each processed element.
func SensorWithOnElementProcessedFunc[T any](callback ...func(types.ComponentMetadata, T)) types.Option[types.Sensor[T]] {
	return sensor.WithOnElementProcessedFunc[T](callback...)
}

// SensorWithOnErrorFunc registers callbacks for component errors.
func SensorWithOnErrorFunc[T any](callback ...func(types.ComponentMetadata, error)) types.Option[types.Sensor[T]] {
	return sensor.WithOnErrorFunc[T](callback...)
}

// SensorWithOnReconnectAttemptFunc registers callbacks fired before each reconnect attempt.
func SensorWithOnReconnectAttemptFunc[T any](callback ...func(types.ComponentMetadata, int, time.Duration)) types.Option[types.Sensor[T]] {
	return sensor.WithOnReconnectAttemptFunc[T](callback...)
}

// SensorWithOnConnectionLostFunc registers callbacks fired once when reconnection gives up.
func SensorWithOnConnectionLostFunc[T any](callback ...func(types.ComponentMetadata, int)) types.Option[types.Sensor[T]] {
	return sensor.WithOnConnectionLostFunc[T](callback...)
}

// SensorWithOnRecordingStateChangeFunc registers callbacks for the recording indicator.
func SensorWithOnRecordingStateChangeFunc[T any](callback ...func(types.ComponentMetadata, bool)) types.Option[types.Sensor[T]] {
	return sensor.WithOnRecordingStateChangeFunc[T](callback...)
}

// SensorWithOnAutoStopFunc registers callbacks fired when an out-of-range reading stops a recording.
func SensorWithOnAutoStopFunc[T any](callback ...func(types.ComponentMetadata, T)) types.Option[types.Sensor[T]] {
	return sensor.WithOnAutoStopFunc[T](callback...)
}

// SensorWithOnDrainFunc registers callbacks fired when a sample buffer is consumed.
func SensorWithOnDrainFunc[T any](callback ...func(types.ComponentMetadata, int)) types.Option[types.Sensor[T]] {
	return sensor.WithOnDrainFunc[T](callback...)
}

// SensorWithOnSensorErrorFunc registers callbacks for device error sentinels.
func SensorWithOnSensorErrorFunc[T any](callback ...func(types.ComponentMetadata, types.Reading)) types.Option[types.Sensor[T]] {
	return sensor.WithOnSensorErrorFunc[T](callback...)
}
