package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autolab/resonance/pkg/builder"
)

// Runs one full measurement session against a lab backend: connect, announce
// step parameters, record audio and distance for each step, complete the
// experiment and submit the student's values.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	endpoint := os.Getenv("LAB_ENDPOINT")
	if endpoint == "" {
		endpoint = "ws://localhost:8000/ws/experiment/"
	}

	logger := builder.NewLogger(builder.LoggerWithLevel("info"))

	channelSensor := builder.NewSensor(
		builder.SensorWithOnReconnectAttemptFunc[builder.Envelope](func(c builder.ComponentMetadata, attempt int, delay time.Duration) {
			fmt.Printf("reconnecting (attempt %d, next in %v)\n", attempt, delay)
		}),
		builder.SensorWithOnConnectionLostFunc[builder.Envelope](func(c builder.ComponentMetadata, attempts int) {
			fmt.Printf("connection lost after %d attempts; restart the session\n", attempts)
			cancel()
		}),
	)

	transport := builder.NewWebSocketTransport(
		ctx,
		builder.TransportWithURL(endpoint),
		builder.TransportWithConnectTimeout(5*time.Second),
		builder.TransportWithLogger(logger),
		builder.TransportWithSensor(channelSensor),
	)

	recorder := builder.NewAudioRecorder(
		builder.AudioRecorderWithCaptureDevice(builder.NewMicrophoneDevice(44100)),
		builder.AudioRecorderWithTransport(transport),
		builder.AudioRecorderWithLogger(logger),
	)

	rangefinder := builder.NewDistanceSensor(
		ctx,
		builder.DistanceSensorWithPortOpener(builder.NewSerialPortOpener()),
		builder.DistanceSensorWithBaudRate(9600),
		builder.DistanceSensorWithLogger(logger),
	)

	session := builder.NewSession()
	store := builder.NewArchiveStore("archives")

	controller := builder.NewController(builder.ControllerConfig{
		Transport: transport,
		Recorder:  recorder,
		Sensor:    rangefinder,
		Session:   session,
		Store:     store,
	}, builder.ControllerWithLogger(logger))

	if err := transport.Connect(ctx); err != nil {
		fmt.Printf("cannot reach the lab backend at %s: %v\n", endpoint, err)
		os.Exit(1)
	}
	defer transport.Close()

	if err := rangefinder.Connect(ctx); err != nil {
		fmt.Printf("no distance sensor attached (%v); recording without distances\n", err)
	} else {
		defer rangefinder.Disconnect()
	}

	router := builder.NewRouter(transport, controller, builder.RouterWithLogger(logger))
	go router.Run(ctx)

	steps := []struct {
		frequency   float64
		temperature float64
	}{
		{2000, 22.0},
		{3000, 22.0},
		{4000, 22.0},
	}

	for i, s := range steps {
		step := i + 1
		if err := controller.StartStep(ctx, step, s.frequency, s.temperature); err != nil {
			fmt.Printf("step %d rejected: %v\n", step, err)
			os.Exit(1)
		}
		if err := controller.StartRecording(ctx, step); err != nil {
			fmt.Printf("step %d recording failed: %v\n", step, err)
			os.Exit(1)
		}

		// Record until the reflector passes out of range (auto-stop) or for
		// at most twenty seconds.
		deadline := time.After(20 * time.Second)
		for recorder.IsRecording() {
			select {
			case <-deadline:
				if err := controller.StopRecording(ctx); err != nil {
					fmt.Printf("step %d stop failed: %v\n", step, err)
				}
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
		}

		// Wait for the server's minima before the next step.
		for {
			record, err := session.Step(step)
			if err == nil && record.Status == builder.StepProcessed {
				break
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
		}
		fmt.Printf("step %d processed\n", step)
	}

	if err := controller.CompleteExperiment(ctx, 22.0, 101325); err != nil {
		fmt.Printf("completion failed: %v\n", err)
		os.Exit(1)
	}
	for !session.Completed() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}

	// In the real UI the student computes these from the chart; here we just
	// echo the first step's system values.
	step, _ := session.Step(1)
	if err := controller.SubmitFinalResults(ctx, step.SystemSpeed, step.SystemGamma); err != nil {
		fmt.Printf("submission failed: %v\n", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-time.After(5 * time.Second):
	}

	if verdict := controller.LastVerification(); verdict != nil {
		fmt.Printf("verdict: valid=%v speedError=%.2f%%\n", verdict.IsValid, verdict.SpeedError*100)
	}
}
