package recorder

import (
	"errors"
	"sync"

	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/gen2brain/malgo"
)

const (
	// DefaultSampleRate matches the rate the backend's minima analysis assumes.
	DefaultSampleRate = 44100
	// DefaultChannels is mono capture.
	DefaultChannels = 1
	// DefaultBitDepth is signed 16-bit PCM.
	DefaultBitDepth = 16
)

// MicrophoneDevice is the malgo-backed capture device used outside tests. It
// opens the default system microphone as mono signed 16-bit PCM.
type MicrophoneDevice struct {
	sampleRate int

	lock    sync.Mutex
	context *malgo.AllocatedContext
	device  *malgo.Device
}

// NewMicrophoneDevice builds a device at the given sample rate, falling back
// to the default rate when rate is not positive.
func NewMicrophoneDevice(sampleRate int) types.CaptureDevice {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &MicrophoneDevice{sampleRate: sampleRate}
}

// Open initializes the audio backend and starts delivering PCM chunks to
// onSamples until Close.
func (d *MicrophoneDevice) Open(onSamples func(pcm []byte)) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.device != nil {
		return errors.New("recorder: microphone already open")
	}

	allocCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = DefaultChannels
	cfg.SampleRate = uint32(d.sampleRate)
	cfg.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			onSamples(input)
		},
	}

	device, err := malgo.InitDevice(allocCtx.Context, cfg, callbacks)
	if err != nil {
		_ = allocCtx.Uninit()
		allocCtx.Free()
		return err
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		_ = allocCtx.Uninit()
		allocCtx.Free()
		return err
	}

	d.context = allocCtx
	d.device = device
	return nil
}

// Close stops capture and releases the backend.
func (d *MicrophoneDevice) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.device == nil {
		return nil
	}
	d.device.Uninit()
	d.device = nil

	err := d.context.Uninit()
	d.context.Free()
	d.context = nil
	return err
}

func (d *MicrophoneDevice) SampleRate() int { return d.sampleRate }
func (d *MicrophoneDevice) Channels() int   { return DefaultChannels }
func (d *MicrophoneDevice) BitDepth() int   { return DefaultBitDepth }
