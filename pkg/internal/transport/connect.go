package transport

import "github.com/autolab/resonance/pkg/internal/types"

// ConnectLogger attaches one or more loggers.
func (t *WebSocketTransport) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	t.loggersLock.Lock()
	t.loggers = append(t.loggers, loggers...)
	t.loggersLock.Unlock()
}

// ConnectSensor attaches one or more sensors.
func (t *WebSocketTransport) ConnectSensor(sensors ...types.Sensor[types.Envelope]) {
	if len(sensors) == 0 {
		return
	}
	t.sensorsLock.Lock()
	t.sensors = append(t.sensors, sensors...)
	t.sensorsLock.Unlock()
}

func (t *WebSocketTransport) snapshotSensors() []types.Sensor[types.Envelope] {
	t.sensorsLock.Lock()
	defer t.sensorsLock.Unlock()

	if len(t.sensors) == 0 {
		return nil
	}
	sensors := make([]types.Sensor[types.Envelope], len(t.sensors))
	copy(sensors, t.sensors)
	return sensors
}
