package rangefinder

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autolab/resonance/pkg/internal/sensor"
	"github.com/autolab/resonance/pkg/internal/types"
)

// pipePort is an in-memory serial port fed by the test.
type pipePort struct {
	io.Reader
	w io.WriteCloser
	r io.Closer
}

func newPipePort() *pipePort {
	r, w := io.Pipe()
	return &pipePort{Reader: r, w: w, r: r}
}

func (p *pipePort) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p *pipePort) Close() error {
	_ = p.w.Close()
	return p.r.Close()
}

func (p *pipePort) line(value, timestampMS float64) {
	fmt.Fprintf(p.w, `{"type":"distance","value":%g,"timestamp":%g}`+"\n", value, timestampMS)
}

type fakeOpener struct {
	ports  []string
	port   *pipePort
	opened []string
}

func (o *fakeOpener) List() ([]string, error) { return o.ports, nil }

func (o *fakeOpener) Open(path string, baudRate int) (io.ReadWriteCloser, error) {
	o.opened = append(o.opened, path)
	return o.port, nil
}

// newAttachedReader connects a SensorReader to a pipe-backed port and returns
// both, plus a channel that receives every buffered sample.
func newAttachedReader(t *testing.T, opts ...types.Option[types.DistanceSensor]) (types.DistanceSensor, *pipePort, chan types.DistanceSample) {
	t.Helper()

	port := newPipePort()
	opener := &fakeOpener{ports: []string{"/dev/ttyUSB0"}, port: port}

	buffered := make(chan types.DistanceSample, 64)
	s := sensor.NewSensor[types.DistanceSample](
		sensor.WithOnElementProcessedFunc[types.DistanceSample](func(_ types.ComponentMetadata, sample types.DistanceSample) {
			buffered <- sample
		}),
	)

	opts = append([]types.Option[types.DistanceSensor]{
		WithPortOpener(opener),
		WithSensor(s),
	}, opts...)

	r := NewSensorReader(context.Background(), opts...)
	if err := r.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return r, port, buffered
}

func waitSample(t *testing.T, ch chan types.DistanceSample) types.DistanceSample {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("sample never arrived")
		return types.DistanceSample{}
	}
}

func TestConnectRequiresAvailablePort(t *testing.T) {
	r := NewSensorReader(context.Background(), WithPortOpener(&fakeOpener{}))
	if err := r.Connect(context.Background()); err != ErrNoPorts {
		t.Fatalf("expected ErrNoPorts, got %v", err)
	}
}

func TestConnectToPortMatchesPath(t *testing.T) {
	port := newPipePort()
	opener := &fakeOpener{ports: []string{"/dev/ttyACM0", "/dev/ttyUSB1"}, port: port}
	r := NewSensorReader(context.Background(), WithPortOpener(opener))

	if err := r.ConnectToPort(context.Background(), "/dev/ttyS9"); err == nil {
		t.Fatalf("expected an error for an unavailable port")
	}
	if err := r.ConnectToPort(context.Background(), "/dev/ttyUSB1"); err != nil {
		t.Fatalf("ConnectToPort failed: %v", err)
	}
	defer r.Disconnect()

	if len(opener.opened) != 1 || opener.opened[0] != "/dev/ttyUSB1" {
		t.Fatalf("opened wrong port: %v", opener.opened)
	}
}

func TestRelativeTimestampsStartAtZero(t *testing.T) {
	r, port, buffered := newAttachedReader(t)
	defer r.Disconnect()

	r.StartRecording()
	port.line(100, 1000)
	port.line(150, 1050)
	waitSample(t, buffered)
	waitSample(t, buffered)

	series := r.StopRecording()
	if series.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", series.Len())
	}
	if series.Timestamps[0] != 0 {
		t.Fatalf("first sample must land at relative time zero, got %v", series.Timestamps[0])
	}
	if math.Abs(series.Timestamps[1]-0.05) > 1e-9 {
		t.Fatalf("expected 0.05s for a 50ms gap, got %v", series.Timestamps[1])
	}
	if series.Distances[0] != 100 || series.Distances[1] != 150 {
		t.Fatalf("unexpected distances: %v", series.Distances)
	}
}

func TestCalibrationOffsetApplied(t *testing.T) {
	r, port, buffered := newAttachedReader(t, WithCalibrationOffset(25))
	defer r.Disconnect()

	r.StartRecording()
	port.line(125, 0)
	sample := waitSample(t, buffered)
	if sample.DistanceMM != 100 {
		t.Fatalf("expected calibrated 100mm, got %v", sample.DistanceMM)
	}
}

func TestSamplesIgnoredOutsideRecordingWindow(t *testing.T) {
	r, port, buffered := newAttachedReader(t)
	defer r.Disconnect()

	port.line(100, 0)
	time.Sleep(100 * time.Millisecond)

	r.StartRecording()
	port.line(110, 500)
	waitSample(t, buffered)

	series := r.StopRecording()
	if series.Len() != 1 {
		t.Fatalf("pre-window sample leaked into the buffer: %v", series.Distances)
	}
	if series.Distances[0] != 110 {
		t.Fatalf("wrong sample buffered: %v", series.Distances)
	}
}

func TestErrorSentinelSurfacedNeverBuffered(t *testing.T) {
	readings := make(chan types.Reading, 4)
	errSensor := sensor.NewSensor[types.DistanceSample](
		sensor.WithOnSensorErrorFunc[types.DistanceSample](func(_ types.ComponentMetadata, reading types.Reading) {
			readings <- reading
		}),
	)

	r, port, buffered := newAttachedReader(t, WithSensor(errSensor))
	defer r.Disconnect()

	r.StartRecording()
	port.line(-1, 100)
	port.line(200, 200)
	waitSample(t, buffered)

	select {
	case reading := <-readings:
		if reading.Distance != nil || !reading.Error {
			t.Fatalf("sentinel must surface as a nil-distance error reading, got %+v", reading)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sensor error reading never surfaced")
	}

	series := r.StopRecording()
	if series.Len() != 1 || series.Distances[0] != 200 {
		t.Fatalf("sentinel leaked into the buffer: %v", series.Distances)
	}
}

func TestAnyNegativeRawValueIsAnErrorReading(t *testing.T) {
	readings := make(chan types.Reading, 4)
	errSensor := sensor.NewSensor[types.DistanceSample](
		sensor.WithOnSensorErrorFunc[types.DistanceSample](func(_ types.ComponentMetadata, reading types.Reading) {
			readings <- reading
		}),
	)

	r, port, buffered := newAttachedReader(t, WithSensor(errSensor))
	defer r.Disconnect()

	r.StartRecording()
	// Not the usual -1: a negative distance is impossible, so any negative
	// raw value must surface as an error instead of entering the buffer.
	port.line(-3.5, 100)
	port.line(150, 200)
	waitSample(t, buffered)

	select {
	case reading := <-readings:
		if reading.Distance != nil || !reading.Error {
			t.Fatalf("negative raw value must surface as a nil-distance error reading, got %+v", reading)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sensor error reading never surfaced")
	}

	series := r.StopRecording()
	if series.Len() != 1 || series.Distances[0] != 150 {
		t.Fatalf("negative raw value leaked into the buffer: %v", series.Distances)
	}
}

func TestDrainIsExactlyOnce(t *testing.T) {
	r, port, buffered := newAttachedReader(t)
	defer r.Disconnect()

	r.StartRecording()
	port.line(100, 0)
	waitSample(t, buffered)

	first := r.StopRecording()
	if first.Len() != 1 {
		t.Fatalf("expected 1 sample on first drain, got %d", first.Len())
	}
	second := r.StopRecording()
	if second.Len() != 0 {
		t.Fatalf("second drain must be empty, got %d samples", second.Len())
	}
	if second.Distances == nil || second.Timestamps == nil {
		t.Fatalf("drained series must use empty arrays, not null")
	}
}

func TestAutoStopFiresOncePerExcursion(t *testing.T) {
	var stops atomic.Int32
	stopped := make(chan struct{}, 4)

	r, port, buffered := newAttachedReader(t,
		WithStopControl(func(ctx context.Context) error {
			stops.Add(1)
			stopped <- struct{}{}
			return nil
		}),
	)
	defer r.Disconnect()

	r.StartRecording()
	port.line(100, 0)
	waitSample(t, buffered)

	port.line(550, 100)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("auto-stop never fired for an out-of-range reading")
	}

	// Repeated out-of-range readings inside the same excursion are quiet.
	port.line(560, 200)
	port.line(570, 300)
	time.Sleep(100 * time.Millisecond)
	if got := stops.Load(); got != 1 {
		t.Fatalf("auto-stop fired %d times, want exactly 1", got)
	}

	series := r.StopRecording()
	if series.Len() != 1 {
		t.Fatalf("out-of-range readings must not be buffered, got %v", series.Distances)
	}

	// A new segment arms the trigger again.
	r.StartRecording()
	port.line(600, 400)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("auto-stop did not re-arm for the next segment")
	}
}

func TestPortFailureLandsDisconnected(t *testing.T) {
	r, port, _ := newAttachedReader(t)

	port.Close()
	deadline := time.Now().Add(2 * time.Second)
	for r.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatalf("reader still connected after the port closed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
