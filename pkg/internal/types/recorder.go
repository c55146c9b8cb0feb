package types

import "context"

// RecordingStatus is the recorder's externally visible state, mirrored to the
// UI indicator on every transition.
type RecordingStatus int

const (
	RecordingIdle RecordingStatus = iota
	RecordingActive
	RecordingStopping
)

// String returns the indicator label for the status.
func (s RecordingStatus) String() string {
	switch s {
	case RecordingActive:
		return "recording"
	case RecordingStopping:
		return "stopping"
	default:
		return "idle"
	}
}

// CaptureDevice abstracts the microphone so the recorder can run against real
// hardware or a test fake. Open begins delivering raw PCM chunks to onSamples
// until Close.
type CaptureDevice interface {
	Open(onSamples func(pcm []byte)) error
	Close() error
	SampleRate() int
	Channels() int
	BitDepth() int
}

// AudioRecorder accumulates one complete recording per step and emits it as a
// single complete_audio frame on stop.
type AudioRecorder interface {
	ConnectLogger(...Logger)
	ConnectSensor(...Sensor[StepParams])
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})

	SetCaptureDevice(device CaptureDevice)
	SetTransport(transport Transport)
	SetPreviewBuckets(buckets int)

	// Start begins capture for the given step. It fails without touching the
	// device when the transport is not connected, and leaves the recorder in a
	// clean idle state when the device cannot be opened.
	Start(ctx context.Context, params StepParams) error

	// Stop halts capture, releases the device, and sends the combined payload.
	// aux carries the distance series drained for the same window; nil means
	// no sensor was attached.
	Stop(ctx context.Context, aux *DistanceSeries) error

	IsRecording() bool
	Status() RecordingStatus

	// Preview returns the downsampled amplitude envelope of the last completed
	// recording, for chart rendering.
	Preview() []float64
}
