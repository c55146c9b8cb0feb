package recorder

import "github.com/autolab/resonance/pkg/internal/types"

// GetComponentMetadata returns metadata (ID, Name, Type).
func (r *Recorder) GetComponentMetadata() types.ComponentMetadata {
	return r.componentMetadata
}

// SetComponentMetadata sets Name and ID.
func (r *Recorder) SetComponentMetadata(name string, id string) {
	r.componentMetadata.Name = name
	r.componentMetadata.ID = id
}

// SetCaptureDevice sets the microphone implementation. Ignored mid-recording.
func (r *Recorder) SetCaptureDevice(device types.CaptureDevice) {
	r.stateLock.Lock()
	if r.status == types.RecordingIdle {
		r.device = device
	}
	r.stateLock.Unlock()
}

// SetTransport sets the channel used for the complete_audio frame.
func (r *Recorder) SetTransport(transport types.Transport) {
	r.stateLock.Lock()
	r.transport = transport
	r.stateLock.Unlock()
}

// SetPreviewBuckets sets the envelope chart resolution.
func (r *Recorder) SetPreviewBuckets(buckets int) {
	r.stateLock.Lock()
	if buckets > 0 {
		r.previewBuckets = buckets
	}
	r.stateLock.Unlock()
}

// ConnectLogger attaches one or more loggers.
func (r *Recorder) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	r.loggersLock.Lock()
	r.loggers = append(r.loggers, loggers...)
	r.loggersLock.Unlock()
}

// ConnectSensor attaches one or more sensors.
func (r *Recorder) ConnectSensor(sensors ...types.Sensor[types.StepParams]) {
	if len(sensors) == 0 {
		return
	}
	r.sensorsLock.Lock()
	r.sensors = append(r.sensors, sensors...)
	r.sensorsLock.Unlock()
}

func (r *Recorder) snapshotSensors() []types.Sensor[types.StepParams] {
	r.sensorsLock.Lock()
	defer r.sensorsLock.Unlock()

	if len(r.sensors) == 0 {
		return nil
	}
	sensors := make([]types.Sensor[types.StepParams], len(r.sensors))
	copy(sensors, r.sensors)
	return sensors
}
