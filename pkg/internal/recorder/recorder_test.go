package recorder

import (
	"context"
	"encoding/base64"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
)

type fakeDevice struct {
	lock      sync.Mutex
	onSamples func(pcm []byte)
	opened    int
	closed    int
	openErr   error
}

func (d *fakeDevice) Open(onSamples func(pcm []byte)) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.openErr != nil {
		return d.openErr
	}
	d.onSamples = onSamples
	d.opened++
	return nil
}

func (d *fakeDevice) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.closed++
	return nil
}

func (d *fakeDevice) feed(pcm []byte) {
	d.lock.Lock()
	cb := d.onSamples
	d.lock.Unlock()
	if cb != nil {
		cb(pcm)
	}
}

func (d *fakeDevice) SampleRate() int { return 44100 }
func (d *fakeDevice) Channels() int   { return 1 }
func (d *fakeDevice) BitDepth() int   { return 16 }

type fakeTransport struct {
	lock      sync.Mutex
	connected bool
	sent      []types.Outbound
}

func (t *fakeTransport) ConnectLogger(...types.Logger)                 {}
func (t *fakeTransport) ConnectSensor(...types.Sensor[types.Envelope]) {}
func (t *fakeTransport) GetComponentMetadata() types.ComponentMetadata {
	return types.ComponentMetadata{}
}
func (t *fakeTransport) SetComponentMetadata(string, string)                  {}
func (t *fakeTransport) NotifyLoggers(types.LogLevel, string, ...interface{}) {}
func (t *fakeTransport) SetURL(string)                                        {}
func (t *fakeTransport) AddHeader(string, string)                             {}
func (t *fakeTransport) SetConnectTimeout(time.Duration)                      {}
func (t *fakeTransport) SetWriteTimeout(time.Duration)                        {}
func (t *fakeTransport) SetReadLimit(int64)                                   {}
func (t *fakeTransport) SetReconnectPolicy(int, time.Duration)                {}
func (t *fakeTransport) Connect(context.Context) error                        { return nil }
func (t *fakeTransport) Close() error                                         { return nil }
func (t *fakeTransport) Inbound() <-chan types.Envelope                       { return nil }

func (t *fakeTransport) IsConnected() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.connected
}

func (t *fakeTransport) Send(msg types.Outbound) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.connected {
		return false
	}
	t.sent = append(t.sent, msg)
	return true
}

func (t *fakeTransport) sentMessages() []types.Outbound {
	t.lock.Lock()
	defer t.lock.Unlock()
	out := make([]types.Outbound, len(t.sent))
	copy(out, t.sent)
	return out
}

// sine16 produces count samples of a 16-bit sine at the given cycle length.
func sine16(count, cycle int) []byte {
	pcm := make([]byte, count*2)
	for i := 0; i < count; i++ {
		v := int16(20000 * math.Sin(2*math.Pi*float64(i)/float64(cycle)))
		pcm[2*i] = byte(uint16(v))
		pcm[2*i+1] = byte(uint16(v) >> 8)
	}
	return pcm
}

func TestStartRefusesWhenDisconnected(t *testing.T) {
	device := &fakeDevice{}
	tr := &fakeTransport{connected: false}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr))

	err := r.Start(context.Background(), types.StepParams{Step: 1, Frequency: 2000, Temperature: 22})
	if err != ErrNoTransport {
		t.Fatalf("expected ErrNoTransport, got %v", err)
	}
	if device.opened != 0 {
		t.Fatalf("device must not be touched while the channel is down")
	}
	if r.IsRecording() {
		t.Fatalf("recorder must stay idle after a refused start")
	}
}

func TestOpenFailureLeavesRecorderIdle(t *testing.T) {
	device := &fakeDevice{openErr: context.DeadlineExceeded}
	tr := &fakeTransport{connected: true}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr))

	if err := r.Start(context.Background(), types.StepParams{Step: 1}); err == nil {
		t.Fatalf("expected Start to fail when the device cannot open")
	}
	if r.Status() != types.RecordingIdle {
		t.Fatalf("recorder must return to idle after an open failure, got %v", r.Status())
	}
}

func TestStopSendsSingleCompleteAudio(t *testing.T) {
	device := &fakeDevice{}
	tr := &fakeTransport{connected: true}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr))

	params := types.StepParams{Step: 2, Frequency: 3000, Temperature: 25}
	if err := r.Start(context.Background(), params); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !r.IsRecording() {
		t.Fatalf("expected IsRecording during capture")
	}

	device.feed(sine16(44100, 20))

	aux := &types.DistanceSeries{
		Distances:  []float64{120, 135.5, 151},
		Timestamps: []float64{0, 0.05, 0.1},
	}
	if err := r.Stop(context.Background(), aux); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if device.closed != 1 {
		t.Fatalf("device was closed %d times, want 1", device.closed)
	}

	sent := tr.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one outbound frame, got %d", len(sent))
	}
	msg, ok := sent[0].(types.CompleteAudio)
	if !ok {
		t.Fatalf("expected a complete_audio frame, got %T", sent[0])
	}
	if msg.Step != 2 || msg.Frequency != 3000 || msg.Temperature != 25 {
		t.Fatalf("frame carries wrong step parameters: %+v", msg)
	}
	if msg.Format != "wav" {
		t.Fatalf("expected wav format, got %q", msg.Format)
	}
	if math.Abs(msg.Duration-1.0) > 1e-9 {
		t.Fatalf("expected 1s duration for 44100 mono samples, got %v", msg.Duration)
	}
	if len(msg.Distances) != 3 || len(msg.Timestamps) != 3 {
		t.Fatalf("distance series not carried through: %d/%d", len(msg.Distances), len(msg.Timestamps))
	}

	raw, err := base64.StdEncoding.DecodeString(msg.Data)
	if err != nil {
		t.Fatalf("audio payload is not valid base64: %v", err)
	}
	if !strings.HasPrefix(string(raw[:4]), "RIFF") {
		t.Fatalf("audio payload is not a WAV container")
	}
}

func TestStopWithoutSensorSendsEmptyArrays(t *testing.T) {
	device := &fakeDevice{}
	tr := &fakeTransport{connected: true}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr))

	if err := r.Start(context.Background(), types.StepParams{Step: 1}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	device.feed(sine16(100, 10))
	if err := r.Stop(context.Background(), nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	msg := tr.sentMessages()[0].(types.CompleteAudio)
	if msg.Distances == nil || msg.Timestamps == nil {
		t.Fatalf("series must be empty arrays, not null")
	}
	if len(msg.Distances) != 0 || len(msg.Timestamps) != 0 {
		t.Fatalf("expected empty series without a sensor")
	}
}

func TestSecondStopReturnsNotRecording(t *testing.T) {
	device := &fakeDevice{}
	tr := &fakeTransport{connected: true}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr))

	if err := r.Start(context.Background(), types.StepParams{Step: 1}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	device.feed(sine16(64, 8))
	if err := r.Stop(context.Background(), nil); err != nil {
		t.Fatalf("first Stop failed: %v", err)
	}
	if err := r.Stop(context.Background(), nil); err != ErrNotRecording {
		t.Fatalf("expected ErrNotRecording on double stop, got %v", err)
	}
	if len(tr.sentMessages()) != 1 {
		t.Fatalf("double stop must not emit a second frame")
	}
}

func TestPreviewTracksEnvelope(t *testing.T) {
	device := &fakeDevice{}
	tr := &fakeTransport{connected: true}
	r := NewRecorder(WithCaptureDevice(device), WithTransport(tr), WithPreviewBuckets(64))

	if err := r.Start(context.Background(), types.StepParams{Step: 1}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	device.feed(sine16(8192, 32))
	if err := r.Stop(context.Background(), nil); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	preview := r.Preview()
	if len(preview) != 64 {
		t.Fatalf("expected 64 envelope buckets, got %d", len(preview))
	}
	for i, v := range preview[1 : len(preview)-1] {
		if v < 0.3 {
			t.Fatalf("bucket %d: constant-amplitude sine should have a flat envelope, got %v", i+1, v)
		}
	}
}

func TestAmplitudeEnvelopeShortSignalPassthrough(t *testing.T) {
	env := amplitudeEnvelope([]int{0, 16384, 0, -16384}, 512)
	if len(env) != 4 {
		t.Fatalf("short signals are returned at full resolution, got %d points", len(env))
	}
}
