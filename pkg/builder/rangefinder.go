package builder

import (
	"context"
	"time"

	"github.com/autolab/resonance/pkg/internal/rangefinder"
	"github.com/autolab/resonance/pkg/internal/simulator"
	"github.com/autolab/resonance/pkg/internal/types"
)

// NewDistanceSensor creates the rangefinder reader.
func NewDistanceSensor(ctx context.Context, options ...types.Option[types.DistanceSensor]) types.DistanceSensor {
	return rangefinder.NewSensorReader(ctx, options...)
}

// NewSerialPortOpener returns the hardware serial implementation.
func NewSerialPortOpener() types.PortOpener {
	return rangefinder.NewSerialPortOpener()
}

// NewSimulatedRangefinder returns a software device speaking the same protocol.
func NewSimulatedRangefinder(options ...simulator.Option) types.PortOpener {
	return simulator.NewSimulator(options...)
}

// SimulatorWithInterval sets the virtual device's sample period.
func SimulatorWithInterval(interval time.Duration) simulator.Option {
	return simulator.WithInterval(interval)
}

// SimulatorWithMotion sets the virtual reflector's start position and speed.
func SimulatorWithMotion(startMM, speedMMPerS float64) simulator.Option {
	return simulator.WithMotion(startMM, speedMMPerS)
}

// SimulatorWithNoiseSigma sets the virtual measurement noise in mm.
func SimulatorWithNoiseSigma(sigma float64) simulator.Option {
	return simulator.WithNoiseSigma(sigma)
}

// SimulatorWithErrorRate sets the probability of an echo-failure reading.
func SimulatorWithErrorRate(rate float64) simulator.Option {
	return simulator.WithErrorRate(rate)
}

// SimulatorWithSeed makes the virtual noise stream reproducible.
func SimulatorWithSeed(seed uint64) simulator.Option {
	return simulator.WithSeed(seed)
}

// DistanceSensorWithPortOpener sets the serial implementation.
func DistanceSensorWithPortOpener(opener types.PortOpener) types.Option[types.DistanceSensor] {
	return rangefinder.WithPortOpener(opener)
}

// DistanceSensorWithBaudRate sets the port speed.
func DistanceSensorWithBaudRate(baud int) types.Option[types.DistanceSensor] {
	return rangefinder.WithBaudRate(baud)
}

// DistanceSensorWithCalibrationOffset sets the offset subtracted from raw values.
func DistanceSensorWithCalibrationOffset(mm float64) types.Option[types.DistanceSensor] {
	return rangefinder.WithCalibrationOffset(mm)
}

// DistanceSensorWithAutoStopThreshold sets the out-of-range distance.
func DistanceSensorWithAutoStopThreshold(mm float64) types.Option[types.DistanceSensor] {
	return rangefinder.WithAutoStopThreshold(mm)
}

// DistanceSensorWithLogger attaches loggers to the reader.
func DistanceSensorWithLogger(logger ...types.Logger) types.Option[types.DistanceSensor] {
	return rangefinder.WithLogger(logger...)
}

// DistanceSensorWithSensor attaches sensors observing sample flow and device state.
func DistanceSensorWithSensor(sensor ...types.Sensor[types.DistanceSample]) types.Option[types.DistanceSensor] {
	return rangefinder.WithSensor(sensor...)
}
