package rangefinder

import "github.com/autolab/resonance/pkg/internal/types"

// GetComponentMetadata returns metadata (ID, Name, Type).
func (r *SensorReader) GetComponentMetadata() types.ComponentMetadata {
	return r.componentMetadata
}

// SetComponentMetadata sets Name and ID.
func (r *SensorReader) SetComponentMetadata(name string, id string) {
	r.componentMetadata.Name = name
	r.componentMetadata.ID = id
}

// ConnectLogger attaches one or more loggers.
func (r *SensorReader) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	r.loggersLock.Lock()
	r.loggers = append(r.loggers, loggers...)
	r.loggersLock.Unlock()
}

// ConnectSensor attaches one or more sensors.
func (r *SensorReader) ConnectSensor(sensors ...types.Sensor[types.DistanceSample]) {
	if len(sensors) == 0 {
		return
	}
	r.sensorsLock.Lock()
	r.sensors = append(r.sensors, sensors...)
	r.sensorsLock.Unlock()
}

func (r *SensorReader) snapshotSensors() []types.Sensor[types.DistanceSample] {
	r.sensorsLock.Lock()
	defer r.sensorsLock.Unlock()

	if len(r.sensors) == 0 {
		return nil
	}
	sensors := make([]types.Sensor[types.DistanceSample], len(r.sensors))
	copy(sensors, r.sensors)
	return sensors
}
