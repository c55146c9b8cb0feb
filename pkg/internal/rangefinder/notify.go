package rangefinder

import "github.com/autolab/resonance/pkg/internal/types"

// NotifyLoggers logs a message to all attached loggers.
func (r *SensorReader) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	r.loggersLock.Lock()
	loggers := append([]types.Logger{}, r.loggers...)
	r.loggersLock.Unlock()

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
