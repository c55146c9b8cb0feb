package main

import (
	"context"
	"fmt"
	"time"

	"github.com/autolab/resonance/pkg/builder"
)

// Demonstrates the distance sensor running against the software device: no
// serial hardware, same protocol, reproducible noise.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("debug"))

	samples := builder.NewSensor(
		builder.SensorWithOnElementProcessedFunc[builder.DistanceSample](func(c builder.ComponentMetadata, s builder.DistanceSample) {
			fmt.Printf("%.3fs  %.1fmm\n", s.RelativeTime, s.DistanceMM)
		}),
		builder.SensorWithOnSensorErrorFunc[builder.DistanceSample](func(c builder.ComponentMetadata, r builder.Reading) {
			fmt.Println("echo failure")
		}),
		builder.SensorWithOnAutoStopFunc[builder.DistanceSample](func(c builder.ComponentMetadata, s builder.DistanceSample) {
			fmt.Printf("reflector out of range at %.1fmm\n", s.DistanceMM)
		}),
		builder.SensorWithOnDrainFunc[builder.DistanceSample](func(c builder.ComponentMetadata, count int) {
			fmt.Printf("drained %d samples\n", count)
		}),
	)

	rangefinder := builder.NewDistanceSensor(
		ctx,
		builder.DistanceSensorWithPortOpener(builder.NewSimulatedRangefinder(
			builder.SimulatorWithInterval(100*time.Millisecond),
			builder.SimulatorWithMotion(80, 60),
			builder.SimulatorWithNoiseSigma(0.8),
			builder.SimulatorWithSeed(42),
		)),
		builder.DistanceSensorWithCalibrationOffset(5),
		builder.DistanceSensorWithLogger(logger),
		builder.DistanceSensorWithSensor(samples),
	)

	if err := rangefinder.Connect(ctx); err != nil {
		fmt.Printf("connect failed: %v\n", err)
		return
	}
	defer rangefinder.Disconnect()

	rangefinder.SetStopControl(func(ctx context.Context) error {
		series := rangefinder.StopRecording()
		fmt.Printf("recording stopped with %d samples\n", series.Len())
		cancel()
		return nil
	})

	rangefinder.StartRecording()

	select {
	case <-ctx.Done():
	case <-time.After(15 * time.Second):
		series := rangefinder.StopRecording()
		fmt.Printf("recording stopped with %d samples\n", series.Len())
	}
}
