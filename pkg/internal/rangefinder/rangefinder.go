// Package rangefinder reads the ultrasonic distance sensor's newline-delimited
// JSON stream over a serial port. While a recording window is open it buffers
// calibrated samples with segment-relative timestamps; out-of-range readings
// stop the recording through the same control path a user-initiated stop
// takes.
package rangefinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
)

const (
	// DefaultBaudRate matches the HC-SR04 bridge firmware.
	DefaultBaudRate = 9600

	// DefaultAutoStopThresholdMM is the calibrated distance beyond which the
	// reflector has left the measurable range and recording auto-stops.
	DefaultAutoStopThresholdMM = 500.0
)

var (
	ErrAlreadyConnected = errors.New("rangefinder: already connected")
	ErrNotConnected     = errors.New("rangefinder: not connected")
	ErrNoPorts          = errors.New("rangefinder: no serial ports available")
)

// SensorReader implements types.DistanceSensor over a PortOpener.
type SensorReader struct {
	componentMetadata types.ComponentMetadata

	ctx context.Context

	stateLock         sync.Mutex
	opener            types.PortOpener
	baudRate          int
	port              io.ReadWriteCloser
	connected         bool
	recording         bool
	calibrationOffset float64
	autoStopThreshold float64
	autoStopped       bool
	segmentStartMS    float64
	haveSegmentStart  bool
	samples           []types.DistanceSample
	stopControl       func(context.Context) error

	loggersLock sync.Mutex
	loggers     []types.Logger

	sensorsLock sync.Mutex
	sensors     []types.Sensor[types.DistanceSample]
}

// NewSensorReader constructs a reader with defaults and applies the provided
// options.
func NewSensorReader(ctx context.Context, options ...types.Option[types.DistanceSensor]) types.DistanceSensor {
	if ctx == nil {
		ctx = context.Background()
	}

	r := &SensorReader{
		ctx: ctx,
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "DISTANCE_SENSOR",
		},
		baudRate:          DefaultBaudRate,
		autoStopThreshold: DefaultAutoStopThresholdMM,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r
}

// Connect opens the first available device and starts the read loop.
func (r *SensorReader) Connect(ctx context.Context) error {
	return r.connect(ctx, "")
}

// ConnectToPort opens the device whose path matches, for re-attaching to a
// previously authorized port.
func (r *SensorReader) ConnectToPort(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("rangefinder: empty port path")
	}
	return r.connect(ctx, path)
}

func (r *SensorReader) connect(ctx context.Context, wantPath string) error {
	if ctx == nil {
		ctx = r.ctx
	}

	r.stateLock.Lock()
	if r.connected {
		r.stateLock.Unlock()
		return ErrAlreadyConnected
	}
	opener := r.opener
	baud := r.baudRate
	r.stateLock.Unlock()

	if opener == nil {
		return errors.New("rangefinder: no port opener configured")
	}

	ports, err := opener.List()
	if err != nil {
		return fmt.Errorf("rangefinder: list ports: %w", err)
	}
	if len(ports) == 0 {
		return ErrNoPorts
	}

	path := ports[0]
	if wantPath != "" {
		path = ""
		for _, p := range ports {
			if p == wantPath {
				path = p
				break
			}
		}
		if path == "" {
			return fmt.Errorf("rangefinder: port %q not available", wantPath)
		}
	}

	port, err := opener.Open(path, baud)
	if err != nil {
		r.NotifyLoggers(types.ErrorLevel, "Connect: open port failed",
			"component", r.componentMetadata.ID, "port", path, "error", err)
		return fmt.Errorf("rangefinder: open %s: %w", path, err)
	}

	r.stateLock.Lock()
	r.port = port
	r.connected = true
	r.recording = false
	r.samples = nil
	r.haveSegmentStart = false
	r.stateLock.Unlock()

	r.NotifyLoggers(types.InfoLevel, "Connect: sensor attached",
		"component", r.componentMetadata.ID, "port", path, "baud", baud)
	for _, s := range r.snapshotSensors() {
		s.InvokeOnStart(r.componentMetadata)
	}

	go r.readLoop(r.ctx, port)
	return nil
}

// Disconnect closes the port and lands the reader in the disconnected state.
func (r *SensorReader) Disconnect() error {
	r.stateLock.Lock()
	port := r.port
	wasConnected := r.connected
	r.port = nil
	r.connected = false
	r.recording = false
	r.stateLock.Unlock()

	if !wasConnected {
		return ErrNotConnected
	}
	if port != nil {
		if err := port.Close(); err != nil {
			return err
		}
	}
	for _, s := range r.snapshotSensors() {
		s.InvokeOnStop(r.componentMetadata)
	}
	return nil
}

// IsConnected reports whether the port is open.
func (r *SensorReader) IsConnected() bool {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	return r.connected
}

// StartRecording resets the sample buffer and the segment clock. The first
// sample of the new segment lands at relative time zero.
func (r *SensorReader) StartRecording() {
	r.stateLock.Lock()
	r.recording = true
	r.samples = nil
	r.haveSegmentStart = false
	r.autoStopped = false
	r.stateLock.Unlock()

	for _, s := range r.snapshotSensors() {
		s.InvokeOnRecordingStateChange(r.componentMetadata, true)
	}
}

// StopRecording returns and clears the buffer. A second call without an
// intervening StartRecording returns an empty series.
func (r *SensorReader) StopRecording() types.DistanceSeries {
	r.stateLock.Lock()
	samples := r.samples
	r.samples = nil
	r.recording = false
	r.haveSegmentStart = false
	r.stateLock.Unlock()

	series := types.DistanceSeries{
		Distances:  make([]float64, 0, len(samples)),
		Timestamps: make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		series.Distances = append(series.Distances, s.DistanceMM)
		series.Timestamps = append(series.Timestamps, s.RelativeTime)
	}

	for _, s := range r.snapshotSensors() {
		s.InvokeOnRecordingStateChange(r.componentMetadata, false)
		s.InvokeOnDrain(r.componentMetadata, series.Len())
	}
	return series
}

// IsRecordingSamples reports whether a recording window is open.
func (r *SensorReader) IsRecordingSamples() bool {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()
	return r.recording
}

// SetCalibrationOffset sets the millimeter offset subtracted from raw values.
func (r *SensorReader) SetCalibrationOffset(mm float64) {
	r.stateLock.Lock()
	r.calibrationOffset = mm
	r.stateLock.Unlock()
}

// SetStopControl installs the control path invoked on auto-stop.
func (r *SensorReader) SetStopControl(stop func(context.Context) error) {
	r.stateLock.Lock()
	r.stopControl = stop
	r.stateLock.Unlock()
}

// SetPortOpener sets the serial implementation. Ignored while connected.
func (r *SensorReader) SetPortOpener(opener types.PortOpener) {
	r.stateLock.Lock()
	if !r.connected {
		r.opener = opener
	}
	r.stateLock.Unlock()
}

// SetBaudRate sets the port speed used on the next connect.
func (r *SensorReader) SetBaudRate(baud int) {
	r.stateLock.Lock()
	if baud > 0 {
		r.baudRate = baud
	}
	r.stateLock.Unlock()
}

// SetAutoStopThreshold sets the out-of-range distance in millimeters.
func (r *SensorReader) SetAutoStopThreshold(mm float64) {
	r.stateLock.Lock()
	if mm > 0 {
		r.autoStopThreshold = mm
	}
	r.stateLock.Unlock()
}
