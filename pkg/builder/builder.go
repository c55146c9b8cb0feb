// Package builder is the public facade of the lab client. It re-exports the
// internal constructors and options so user code assembles components without
// importing internal packages.
package builder

import (
	internalLogger "github.com/autolab/resonance/pkg/internal/internallogger"
	"github.com/autolab/resonance/pkg/internal/types"
)

type LoggerOption = internalLogger.LoggerOption

type SinkConfig = types.SinkConfig

type SinkType = types.SinkType

const (
	FileSink   SinkType = "file"
	StdoutSink SinkType = "stdout"
)

// Shared contract types.
type (
	ComponentMetadata  = types.ComponentMetadata
	Envelope           = types.Envelope
	Outbound           = types.Outbound
	StepParams         = types.StepParams
	DistanceSample     = types.DistanceSample
	DistanceSeries     = types.DistanceSeries
	Reading            = types.Reading
	Minimum            = types.Minimum
	MinimaData         = types.MinimaData
	StepConfirmation   = types.StepConfirmation
	ExperimentComplete = types.ExperimentComplete
	VerificationResult = types.VerificationResult
	ServerError        = types.ServerError
	SessionSnapshot    = types.SessionSnapshot
	StepRecord         = types.StepRecord
	StepStatus         = types.StepStatus
)

// Step lifecycle states.
const (
	StepPending   = types.StepPending
	StepRecording = types.StepRecording
	StepProcessed = types.StepProcessed
)

func NewLogger(options ...internalLogger.LoggerOption) types.Logger {
	return internalLogger.NewLogger(options...)
}

// LoggerWithLevel configures the logger to use the specified log level.
func LoggerWithLevel(levelStr string) LoggerOption {
	return internalLogger.LoggerWithLevel(levelStr)
}

// LoggerWithDevelopment enables or disables development mode.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return internalLogger.LoggerWithDevelopment(dev)
}
