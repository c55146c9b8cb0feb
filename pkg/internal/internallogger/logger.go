// Package internallogger adapts go.uber.org/zap to the types.Logger interface
// used throughout the toolkit. Components never talk to zap directly; they log
// through attached types.Logger instances.
package internallogger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/autolab/resonance/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption mutates the zap configuration before the adapter is built.
type LoggerOption func(*zap.Config, *zapcore.Level, *int)

// ZapLoggerAdapter implements types.Logger on top of a zap core tee.
type ZapLoggerAdapter struct {
	logger       *zap.Logger
	level        zapcore.Level
	callerDepth  int
	mu           sync.Mutex
	sinks        map[string]zapcore.Core
	combinedCore zapcore.Core
}

// NewLogger initializes a ZapLoggerAdapter with the provided options applied
// over a production config and a stdout JSON core.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	config := zap.NewProductionConfig()
	var level zapcore.Level
	callerDepth := 2

	for _, option := range options {
		option(&config, &level, &callerDepth)
	}

	defaultCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(standardEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.NewAtomicLevelAt(level),
	)
	combined := zapcore.NewTee(defaultCore)

	logger := zap.New(combined, zap.AddCaller(), zap.AddCallerSkip(callerDepth))
	if len(config.InitialFields) > 0 {
		logger = logger.With(fieldsFromMap(config.InitialFields)...)
	}

	return &ZapLoggerAdapter{
		logger:       logger,
		level:        level,
		callerDepth:  callerDepth,
		sinks:        make(map[string]zapcore.Core),
		combinedCore: combined,
	}
}

// AddSink attaches an additional output core identified by identifier.
func (z *ZapLoggerAdapter) AddSink(identifier string, config types.SinkConfig) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	var ws zapcore.WriteSyncer

	switch config.Type {
	case string(types.FileSink):
		path, ok := config.Config["path"].(string)
		if !ok {
			return fmt.Errorf("file path configuration is missing or invalid")
		}
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %v", dir, err)
			}
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open file %s: %v", path, err)
		}
		ws = zapcore.AddSync(file)
	case string(types.StdoutSink):
		ws = zapcore.Lock(os.Stdout)
	default:
		return fmt.Errorf("unsupported sink type: %s", config.Type)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(standardEncoderConfig()), ws, z.level)
	z.sinks[identifier] = core

	z.combinedCore = zapcore.NewTee(append([]zapcore.Core{z.combinedCore}, core)...)
	z.logger = zap.New(z.combinedCore, zap.AddCaller(), zap.AddCallerSkip(z.callerDepth))

	return nil
}

// RemoveSink removes a sink based on its identifier.
func (z *ZapLoggerAdapter) RemoveSink(identifier string) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if _, ok := z.sinks[identifier]; ok {
		delete(z.sinks, identifier)
		return nil
	}

	return fmt.Errorf("sink not found: %s", identifier)
}

// ListSinks lists all configured sink identifiers.
func (z *ZapLoggerAdapter) ListSinks() ([]string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	var identifiers []string
	for id := range z.sinks {
		identifiers = append(identifiers, id)
	}
	return identifiers, nil
}

// Flush syncs all cores, tolerating the stdout ioctl failure.
func (z *ZapLoggerAdapter) Flush() error {
	if err := z.logger.Sync(); err != nil {
		if strings.Contains(err.Error(), "inappropriate ioctl for device") {
			return nil
		}
		return err
	}
	return nil
}

// Log writes a message at the given level with structured key/value pairs.
func (z *ZapLoggerAdapter) Log(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	if z.logger == nil || z.logger.Core() == nil {
		return
	}
	zapLevel := ConvertLevel(level)
	if !z.logger.Core().Enabled(zapLevel) {
		return
	}
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		value := keysAndValues[i+1]
		switch v := value.(type) {
		case string, int, int32, int64, float64, bool:
			fields = append(fields, zap.Any(key, v))
		default:
			fields = append(fields, zap.String(key, fmt.Sprintf("%v", v)))
		}
	}
	if ce := z.logger.Check(zapLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

func (z *ZapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.Log(types.DebugLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.Log(types.InfoLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.Log(types.WarnLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.Log(types.ErrorLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) DPanic(msg string, keysAndValues ...interface{}) {
	z.Log(types.DPanicLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Panic(msg string, keysAndValues ...interface{}) {
	z.Log(types.PanicLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Fatal(msg string, keysAndValues ...interface{}) {
	z.Log(types.FatalLevel, msg, keysAndValues...)
}

// GetLevel returns the adapter's current level.
func (z *ZapLoggerAdapter) GetLevel() types.LogLevel {
	return convertZapLevel(z.level)
}

// SetLevel sets the adapter's level.
func (z *ZapLoggerAdapter) SetLevel(level types.LogLevel) {
	z.level = ConvertLevel(level)
}
