package types

// StepStatus tracks one step's lifecycle. A step moves to StepProcessed only
// on a server-confirmed result, never from a local stop alone.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRecording
	StepProcessed
)

// String returns the wire-friendly status label.
func (s StepStatus) String() string {
	switch s {
	case StepRecording:
		return "recording"
	case StepProcessed:
		return "processed"
	default:
		return "pending"
	}
}

// Validation ranges enforced before any step starts.
const (
	MinFrequencyHz  = 1000.0
	MaxFrequencyHz  = 6000.0
	MinTemperatureC = 10.0
	MaxTemperatureC = 40.0
)

// StepRecord holds one measurement trial's parameters and results. Owned
// exclusively by the session; mutated only through its transition calls.
type StepRecord struct {
	StepNumber   int
	FrequencyHz  float64
	TemperatureC float64
	Minima       []Minimum
	Status       StepStatus

	// Server-computed values delivered with experiment_complete.
	SystemSpeed float64
	SystemGamma float64
}

// SessionSnapshot is a point-in-time copy of the session for archival and
// chart rendering; mutating it does not affect the live session.
type SessionSnapshot struct {
	ExperimentID int
	CurrentStep  int
	Steps        []StepRecord
	IsSaving     bool
	Completed    bool
}
