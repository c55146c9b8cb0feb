package types

import (
	"context"
	"io"
)

// DistanceSample is one calibrated reading captured during a recording window.
// RelativeTime is measured against the first sample of the current segment, so
// segment-local time always starts at zero regardless of device clock drift.
type DistanceSample struct {
	DistanceMM   float64
	RelativeTime float64 // seconds
}

// Reading is the outcome of parsing one protocol line. A nil Distance with
// Error set is the device's defined error sentinel (raw value -1); such
// readings are surfaced but never buffered.
type Reading struct {
	Distance *float64
	Error    bool
}

// PortOpener abstracts serial port discovery and opening so the rangefinder
// can run against real hardware, the simulator, or a test fake.
type PortOpener interface {
	List() ([]string, error)
	Open(path string, baudRate int) (io.ReadWriteCloser, error)
}

// DistanceSensor reads the rangefinder's newline-delimited JSON stream and
// buffers calibrated samples while a recording window is open.
//
// State machine: disconnected -> Connect/ConnectToPort -> idle ->
// StartRecording -> recording -> StopRecording -> idle -> Disconnect ->
// disconnected. Any read error also lands in disconnected; the caller falls
// back to simulated mode rather than failing the session.
type DistanceSensor interface {
	ConnectLogger(...Logger)
	ConnectSensor(...Sensor[DistanceSample])
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})

	// Connect opens the first available device and starts the read loop.
	Connect(ctx context.Context) error

	// ConnectToPort opens a previously authorized device by path match
	// instead of picking the first available one.
	ConnectToPort(ctx context.Context, path string) error

	Disconnect() error
	IsConnected() bool

	// StartRecording resets the sample buffer and segment-start timestamp.
	StartRecording()

	// StopRecording returns and clears the buffer. Drain semantics: a second
	// call without an intervening StartRecording returns an empty series.
	StopRecording() DistanceSeries

	IsRecordingSamples() bool

	// SetCalibrationOffset sets the millimeter offset subtracted from raw
	// values before use.
	SetCalibrationOffset(mm float64)

	SetPortOpener(opener PortOpener)
	SetBaudRate(baud int)

	// SetAutoStopThreshold sets the calibrated distance beyond which an active
	// recording is stopped through the installed stop control.
	SetAutoStopThreshold(mm float64)

	// SetStopControl installs the control path invoked on auto-stop. It must
	// be the same path a user-initiated stop takes so UI and state updates
	// stay symmetric.
	SetStopControl(func(context.Context) error)
}
