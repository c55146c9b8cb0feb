package rangefinder

import (
	"context"

	"github.com/autolab/resonance/pkg/internal/types"
)

// WithPortOpener sets the serial implementation.
func WithPortOpener(opener types.PortOpener) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetPortOpener(opener)
	}
}

// WithBaudRate sets the port speed.
func WithBaudRate(baud int) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetBaudRate(baud)
	}
}

// WithCalibrationOffset sets the millimeter offset subtracted from raw values.
func WithCalibrationOffset(mm float64) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetCalibrationOffset(mm)
	}
}

// WithAutoStopThreshold sets the out-of-range distance in millimeters.
func WithAutoStopThreshold(mm float64) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetAutoStopThreshold(mm)
	}
}

// WithStopControl installs the control path invoked on auto-stop.
func WithStopControl(stop func(context.Context) error) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetStopControl(stop)
	}
}

// WithLogger attaches loggers to the reader.
func WithLogger(logger ...types.Logger) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.ConnectLogger(logger...)
	}
}

// WithSensor attaches sensors observing sample flow and device state.
func WithSensor(sensor ...types.Sensor[types.DistanceSample]) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.ConnectSensor(sensor...)
	}
}

// WithComponentMetadata overrides the generated component name and id.
func WithComponentMetadata(name string, id string) types.Option[types.DistanceSensor] {
	return func(r types.DistanceSensor) {
		r.SetComponentMetadata(name, id)
	}
}
