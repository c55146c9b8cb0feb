package builder

import (
	"github.com/autolab/resonance/pkg/internal/recorder"
	"github.com/autolab/resonance/pkg/internal/types"
)

// NewAudioRecorder creates the audio capture unit.
func NewAudioRecorder(options ...types.Option[types.AudioRecorder]) types.AudioRecorder {
	return recorder.NewRecorder(options...)
}

// NewMicrophoneDevice opens the default system microphone as mono 16-bit PCM.
func NewMicrophoneDevice(sampleRate int) types.CaptureDevice {
	return recorder.NewMicrophoneDevice(sampleRate)
}

// AudioRecorderWithCaptureDevice sets the microphone implementation.
func AudioRecorderWithCaptureDevice(device types.CaptureDevice) types.Option[types.AudioRecorder] {
	return recorder.WithCaptureDevice(device)
}

// AudioRecorderWithTransport sets the channel the complete_audio frame is sent on.
func AudioRecorderWithTransport(transport types.Transport) types.Option[types.AudioRecorder] {
	return recorder.WithTransport(transport)
}

// AudioRecorderWithPreviewBuckets sets the chart resolution of the amplitude envelope.
func AudioRecorderWithPreviewBuckets(buckets int) types.Option[types.AudioRecorder] {
	return recorder.WithPreviewBuckets(buckets)
}

// AudioRecorderWithLogger attaches loggers to the recorder.
func AudioRecorderWithLogger(logger ...types.Logger) types.Option[types.AudioRecorder] {
	return recorder.WithLogger(logger...)
}

// AudioRecorderWithSensor attaches sensors observing recording lifecycle events.
func AudioRecorderWithSensor(sensor ...types.Sensor[types.StepParams]) types.Option[types.AudioRecorder] {
	return recorder.WithSensor(sensor...)
}
