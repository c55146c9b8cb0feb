package recorder

import "github.com/autolab/resonance/pkg/internal/types"

// WithCaptureDevice sets the microphone implementation.
func WithCaptureDevice(device types.CaptureDevice) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.SetCaptureDevice(device)
	}
}

// WithTransport sets the channel the complete_audio frame is sent on. Start
// refuses to record while this transport is disconnected.
func WithTransport(transport types.Transport) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.SetTransport(transport)
	}
}

// WithPreviewBuckets sets the chart resolution of the amplitude envelope.
func WithPreviewBuckets(buckets int) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.SetPreviewBuckets(buckets)
	}
}

// WithLogger attaches loggers to the recorder.
func WithLogger(logger ...types.Logger) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.ConnectLogger(logger...)
	}
}

// WithSensor attaches sensors observing recording lifecycle events.
func WithSensor(sensor ...types.Sensor[types.StepParams]) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.ConnectSensor(sensor...)
	}
}

// WithComponentMetadata overrides the generated component name and id.
func WithComponentMetadata(name string, id string) types.Option[types.AudioRecorder] {
	return func(r types.AudioRecorder) {
		r.SetComponentMetadata(name, id)
	}
}
