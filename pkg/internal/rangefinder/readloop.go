package rangefinder

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/autolab/resonance/pkg/internal/types"
)

// protocolLine is one newline-delimited frame from the device. Value is the
// raw distance in millimeters (-1 on echo failure), Timestamp the device clock
// in milliseconds.
type protocolLine struct {
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
	Timestamp float64 `json:"timestamp"`
}

// readLoop parses the device stream until the port closes or errors. Any read
// failure lands the reader in the disconnected state; the caller decides
// whether to fall back to a simulated device.
func (r *SensorReader) readLoop(ctx context.Context, port io.Reader) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var frame protocolLine
		if err := json.Unmarshal([]byte(line), &frame); err != nil {
			r.NotifyLoggers(types.WarnLevel, "ReadLoop: dropping malformed line",
				"component", r.componentMetadata.ID, "error", err)
			continue
		}
		if frame.Type != "distance" {
			continue
		}

		r.handleReading(ctx, frame)
	}

	if err := scanner.Err(); err != nil {
		r.NotifyLoggers(types.ErrorLevel, "ReadLoop: sensor stream failed",
			"component", r.componentMetadata.ID, "error", err)
		for _, s := range r.snapshotSensors() {
			s.InvokeOnError(r.componentMetadata, err)
		}
	}
	r.markDisconnected()
}

// handleReading applies calibration, buffers in-range samples while recording,
// and runs the auto-stop check.
func (r *SensorReader) handleReading(ctx context.Context, frame protocolLine) {
	if frame.Value < 0 {
		// Echo failure: surfaced, never buffered, never an auto-stop trigger.
		// The device emits -1, but any negative raw value is a dead pulse.
		reading := types.Reading{Distance: nil, Error: true}
		r.NotifyLoggers(types.DebugLevel, "ReadLoop: sensor error sentinel",
			"component", r.componentMetadata.ID)
		for _, s := range r.snapshotSensors() {
			s.InvokeOnSensorError(r.componentMetadata, reading)
		}
		return
	}

	r.stateLock.Lock()
	calibrated := frame.Value - r.calibrationOffset
	recording := r.recording
	threshold := r.autoStopThreshold
	stop := r.stopControl

	if !recording {
		r.stateLock.Unlock()
		return
	}

	if calibrated > threshold {
		alreadyStopped := r.autoStopped
		r.autoStopped = true
		r.stateLock.Unlock()

		if alreadyStopped || stop == nil {
			return
		}
		sample := types.DistanceSample{DistanceMM: calibrated}
		r.NotifyLoggers(types.InfoLevel, "ReadLoop: reflector out of range, stopping recording",
			"component", r.componentMetadata.ID, "distance", calibrated, "threshold", threshold)
		for _, s := range r.snapshotSensors() {
			s.InvokeOnAutoStop(r.componentMetadata, sample)
		}
		if err := stop(ctx); err != nil {
			r.NotifyLoggers(types.ErrorLevel, "ReadLoop: auto-stop control failed",
				"component", r.componentMetadata.ID, "error", err)
		}
		return
	}

	if !r.haveSegmentStart {
		r.segmentStartMS = frame.Timestamp
		r.haveSegmentStart = true
	}
	sample := types.DistanceSample{
		DistanceMM:   calibrated,
		RelativeTime: (frame.Timestamp - r.segmentStartMS) / 1000.0,
	}
	r.samples = append(r.samples, sample)
	r.stateLock.Unlock()

	for _, s := range r.snapshotSensors() {
		s.InvokeOnElementProcessed(r.componentMetadata, sample)
	}
}

func (r *SensorReader) markDisconnected() {
	r.stateLock.Lock()
	wasConnected := r.connected
	r.connected = false
	r.recording = false
	r.port = nil
	r.stateLock.Unlock()

	if wasConnected {
		r.NotifyLoggers(types.WarnLevel, "ReadLoop: sensor detached",
			"component", r.componentMetadata.ID)
		for _, s := range r.snapshotSensors() {
			s.InvokeOnStop(r.componentMetadata)
		}
	}
}
