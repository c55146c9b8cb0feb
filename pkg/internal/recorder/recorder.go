// Package recorder implements the audio capture unit. It accumulates one
// complete PCM recording per experiment step and emits it as a single
// complete_audio frame when stopped, together with the distance series drained
// for the same window.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
)

const (
	// DefaultPreviewBuckets is the chart resolution of the amplitude envelope.
	DefaultPreviewBuckets = 512

	audioFormat = "wav"
)

var (
	ErrAlreadyRecording = errors.New("recorder: recording already in progress")
	ErrNotRecording     = errors.New("recorder: no recording in progress")
	ErrNoTransport      = errors.New("recorder: transport not connected")
	ErrNoDevice         = errors.New("recorder: no capture device configured")
)

// Recorder implements types.AudioRecorder against a CaptureDevice.
type Recorder struct {
	componentMetadata types.ComponentMetadata

	stateLock      sync.Mutex
	status         types.RecordingStatus
	params         types.StepParams
	pcm            []byte
	startedAt      time.Time
	preview        []float64
	device         types.CaptureDevice
	transport      types.Transport
	previewBuckets int

	loggersLock sync.Mutex
	loggers     []types.Logger

	sensorsLock sync.Mutex
	sensors     []types.Sensor[types.StepParams]
}

// NewRecorder constructs a Recorder and applies the provided options.
func NewRecorder(options ...types.Option[types.AudioRecorder]) types.AudioRecorder {
	r := &Recorder{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "AUDIO_RECORDER",
		},
		status:         types.RecordingIdle,
		previewBuckets: DefaultPreviewBuckets,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r
}

// Start begins capture for the given step. The device is not touched when the
// transport is down; a device open failure leaves the recorder idle.
func (r *Recorder) Start(ctx context.Context, params types.StepParams) error {
	r.stateLock.Lock()
	if r.status != types.RecordingIdle {
		r.stateLock.Unlock()
		return ErrAlreadyRecording
	}
	device := r.device
	transport := r.transport
	if device == nil {
		r.stateLock.Unlock()
		return ErrNoDevice
	}
	if transport == nil || !transport.IsConnected() {
		r.stateLock.Unlock()
		r.NotifyLoggers(types.WarnLevel, "Start: refusing to record without a channel",
			"component", r.componentMetadata.ID, "step", params.Step)
		return ErrNoTransport
	}

	r.params = params
	r.pcm = r.pcm[:0]
	r.status = types.RecordingActive
	r.startedAt = time.Now()
	r.stateLock.Unlock()

	if err := device.Open(r.onSamples); err != nil {
		r.stateLock.Lock()
		r.status = types.RecordingIdle
		r.stateLock.Unlock()
		r.NotifyLoggers(types.ErrorLevel, "Start: capture device open failed",
			"component", r.componentMetadata.ID, "step", params.Step, "error", err)
		return fmt.Errorf("recorder: open capture device: %w", err)
	}

	r.NotifyLoggers(types.InfoLevel, "Start: recording",
		"component", r.componentMetadata.ID, "step", params.Step,
		"frequency", params.Frequency, "temperature", params.Temperature)
	for _, s := range r.snapshotSensors() {
		s.InvokeOnRecordingStateChange(r.componentMetadata, true)
		s.InvokeOnStart(r.componentMetadata)
	}
	return nil
}

// onSamples appends a raw PCM chunk while the recording is active. Chunks
// arriving during teardown are dropped.
func (r *Recorder) onSamples(pcm []byte) {
	r.stateLock.Lock()
	if r.status == types.RecordingActive {
		r.pcm = append(r.pcm, pcm...)
	}
	r.stateLock.Unlock()
}

// Stop halts capture, releases the device and sends the combined payload. The
// aux series is the drained sensor buffer for the same window; nil means no
// sensor was attached and empty arrays go on the wire.
func (r *Recorder) Stop(ctx context.Context, aux *types.DistanceSeries) error {
	r.stateLock.Lock()
	if r.status != types.RecordingActive {
		r.stateLock.Unlock()
		return ErrNotRecording
	}
	r.status = types.RecordingStopping
	device := r.device
	transport := r.transport
	r.stateLock.Unlock()

	if err := device.Close(); err != nil {
		r.NotifyLoggers(types.WarnLevel, "Stop: capture device close failed",
			"component", r.componentMetadata.ID, "error", err)
	}

	r.stateLock.Lock()
	pcm := make([]byte, len(r.pcm))
	copy(pcm, r.pcm)
	params := r.params
	elapsed := time.Since(r.startedAt)
	r.status = types.RecordingIdle
	r.stateLock.Unlock()

	for _, s := range r.snapshotSensors() {
		s.InvokeOnRecordingStateChange(r.componentMetadata, false)
		s.InvokeOnStop(r.componentMetadata)
	}

	sampleRate := device.SampleRate()
	channels := device.Channels()
	bitDepth := device.BitDepth()

	samples := decodePCM16(pcm)
	duration := 0.0
	if sampleRate > 0 && channels > 0 {
		duration = float64(len(samples)) / float64(sampleRate*channels)
	}

	envelope := amplitudeEnvelope(samples, r.previewBuckets)
	r.stateLock.Lock()
	r.preview = envelope
	r.stateLock.Unlock()

	encoded, err := encodeWAVBase64(samples, sampleRate, channels, bitDepth)
	if err != nil {
		r.NotifyLoggers(types.ErrorLevel, "Stop: wav encode failed",
			"component", r.componentMetadata.ID, "step", params.Step, "error", err)
		return fmt.Errorf("recorder: encode wav: %w", err)
	}

	distances := []float64{}
	timestamps := []float64{}
	if aux != nil {
		distances = aux.Distances
		timestamps = aux.Timestamps
	}

	msg := types.CompleteAudio{
		Type:        types.TypeCompleteAudio,
		Data:        encoded,
		Format:      audioFormat,
		Step:        params.Step,
		Frequency:   params.Frequency,
		Temperature: params.Temperature,
		Duration:    duration,
		Distances:   distances,
		Timestamps:  timestamps,
	}

	if transport == nil || !transport.Send(msg) {
		r.NotifyLoggers(types.ErrorLevel, "Stop: complete_audio not sent",
			"component", r.componentMetadata.ID, "step", params.Step)
		return ErrNoTransport
	}

	r.NotifyLoggers(types.InfoLevel, "Stop: recording sent",
		"component", r.componentMetadata.ID, "step", params.Step,
		"duration", duration, "elapsed", elapsed.Seconds(),
		"samples", len(samples), "distances", len(distances))
	for _, s := range r.snapshotSensors() {
		s.InvokeOnElementProcessed(r.componentMetadata, params)
	}
	return nil
}

// IsRecording reports whether capture is in progress.
func (r *Recorder) IsRecording() bool {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	return r.status == types.RecordingActive
}

// Status returns the externally visible recording state.
func (r *Recorder) Status() types.RecordingStatus {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	return r.status
}

// Preview returns the downsampled amplitude envelope of the last completed
// recording.
func (r *Recorder) Preview() []float64 {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	out := make([]float64, len(r.preview))
	copy(out, r.preview)
	return out
}
