// Package sensor options configure callback registrations at construction.
package sensor

import (
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
)

// WithLogger attaches loggers to the sensor.
func WithLogger[T any](logger ...types.Logger) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.ConnectLogger(logger...) }
}

// WithComponentMetadata overrides the sensor's name and id.
func WithComponentMetadata[T any](name string, id string) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.SetComponentMetadata(name, id) }
}

// WithOnStartFunc registers callbacks for the OnStart event.
func WithOnStartFunc[T any](callback ...func(types.ComponentMetadata)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnStart(callback...) }
}

// WithOnStopFunc registers callbacks for the OnStop event.
func WithOnStopFunc[T any](callback ...func(types.ComponentMetadata)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnStop(callback...) }
}

// WithOnElementProcessedFunc registers callbacks for each processed element.
func WithOnElementProcessedFunc[T any](callback ...func(types.ComponentMetadata, T)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnElementProcessed(callback...) }
}

// WithOnErrorFunc registers callbacks for component errors.
func WithOnErrorFunc[T any](callback ...func(types.ComponentMetadata, error)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnError(callback...) }
}

// WithOnReconnectAttemptFunc registers callbacks fired before each reconnect attempt.
func WithOnReconnectAttemptFunc[T any](callback ...func(types.ComponentMetadata, int, time.Duration)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnReconnectAttempt(callback...) }
}

// WithOnConnectionLostFunc registers callbacks fired once when reconnection gives up.
func WithOnConnectionLostFunc[T any](callback ...func(types.ComponentMetadata, int)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnConnectionLost(callback...) }
}

// WithOnRecordingStateChangeFunc registers callbacks for the recording indicator.
func WithOnRecordingStateChangeFunc[T any](callback ...func(types.ComponentMetadata, bool)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnRecordingStateChange(callback...) }
}

// WithOnAutoStopFunc registers callbacks fired when an out-of-range reading stops a recording.
func WithOnAutoStopFunc[T any](callback ...func(types.ComponentMetadata, T)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnAutoStop(callback...) }
}

// WithOnDrainFunc registers callbacks fired when a sample buffer is consumed.
func WithOnDrainFunc[T any](callback ...func(types.ComponentMetadata, int)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnDrain(callback...) }
}

// WithOnSensorErrorFunc registers callbacks for device error sentinels.
func WithOnSensorErrorFunc[T any](callback ...func(types.ComponentMetadata, types.Reading)) types.Option[types.Sensor[T]] {
	return func(s types.Sensor[T]) { s.RegisterOnSensorError(callback...) }
}
