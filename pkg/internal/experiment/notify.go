package experiment

import "github.com/autolab/resonance/pkg/internal/types"

// GetComponentMetadata returns metadata (ID, Name, Type).
func (c *Controller) GetComponentMetadata() types.ComponentMetadata {
	return c.componentMetadata
}

// SetComponentMetadata sets Name and ID.
func (c *Controller) SetComponentMetadata(name string, id string) {
	c.componentMetadata.Name = name
	c.componentMetadata.ID = id
}

// ConnectLogger attaches one or more loggers.
func (c *Controller) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}
	c.loggersLock.Lock()
	c.loggers = append(c.loggers, loggers...)
	c.loggersLock.Unlock()
}

// NotifyLoggers logs a message to all attached loggers.
func (c *Controller) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	c.loggersLock.Lock()
	loggers := append([]types.Logger{}, c.loggers...)
	c.loggersLock.Unlock()

	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			logger.Info(msg, keysAndValues...)
		case types.WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case types.ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case types.DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case types.PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case types.FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}
