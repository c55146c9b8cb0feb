// Package session owns the experiment's step state: per-step parameters,
// recording transitions, server-confirmed minima and results. All mutation
// goes through transition calls so the recording indicator, the step table and
// the archive always agree.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/autolab/resonance/pkg/internal/types"
)

// DefaultStepCount is the number of measurement trials in one experiment.
const DefaultStepCount = 3

var (
	ErrFrequencyOutOfRange   = errors.New("session: frequency outside 1000-6000 Hz")
	ErrTemperatureOutOfRange = errors.New("session: temperature outside 10-40 C")
	ErrStepOutOfRange        = errors.New("session: step number out of range")
	ErrStepBusy              = errors.New("session: another step is recording")
	ErrNotRecording          = errors.New("session: step is not recording")
)

// Session is the experiment state machine.
type Session struct {
	lock         sync.Mutex
	experimentID int
	steps        []types.StepRecord
	currentStep  int
	isSaving     bool
	completed    bool
}

// Option configures a Session at construction.
type Option func(*Session)

// WithExperimentID tags the session with the backend's experiment id.
func WithExperimentID(id int) Option {
	return func(s *Session) { s.experimentID = id }
}

// WithStepCount overrides the number of measurement trials.
func WithStepCount(count int) Option {
	return func(s *Session) {
		if count > 0 {
			s.steps = emptySteps(count)
		}
	}
}

// NewSession builds a session with every step pending.
func NewSession(options ...Option) *Session {
	s := &Session{
		steps:       emptySteps(DefaultStepCount),
		currentStep: 1,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func emptySteps(count int) []types.StepRecord {
	steps := make([]types.StepRecord, count)
	for i := range steps {
		steps[i] = types.StepRecord{StepNumber: i + 1, Status: types.StepPending}
	}
	return steps
}

// ValidateParams checks the acquisition ranges enforced before any step runs.
func ValidateParams(frequencyHz, temperatureC float64) error {
	if frequencyHz < types.MinFrequencyHz || frequencyHz > types.MaxFrequencyHz {
		return fmt.Errorf("%w: %g", ErrFrequencyOutOfRange, frequencyHz)
	}
	if temperatureC < types.MinTemperatureC || temperatureC > types.MaxTemperatureC {
		return fmt.Errorf("%w: %g", ErrTemperatureOutOfRange, temperatureC)
	}
	return nil
}

// SetStepParams validates and stores the parameters for a step.
func (s *Session) SetStepParams(step int, frequencyHz, temperatureC float64) error {
	if err := ValidateParams(frequencyHz, temperatureC); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	idx, err := s.index(step)
	if err != nil {
		return err
	}
	s.steps[idx].FrequencyHz = frequencyHz
	s.steps[idx].TemperatureC = temperatureC
	return nil
}

// BeginRecording moves a step into the recording state. Only one step records
// at a time; re-recording a processed step discards its previous minima.
func (s *Session) BeginRecording(step int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	idx, err := s.index(step)
	if err != nil {
		return err
	}
	for i := range s.steps {
		if s.steps[i].Status == types.StepRecording && i != idx {
			return ErrStepBusy
		}
	}

	s.steps[idx].Status = types.StepRecording
	s.steps[idx].Minima = nil
	s.currentStep = step
	return nil
}

// EndRecording marks the local stop of a step's recording. The step returns
// to pending: processed is reached only through a server-confirmed result.
func (s *Session) EndRecording(step int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	idx, err := s.index(step)
	if err != nil {
		return err
	}
	if s.steps[idx].Status != types.StepRecording {
		return ErrNotRecording
	}
	s.steps[idx].Status = types.StepPending
	return nil
}

// ApplyMinima stores a server-confirmed result and advances the current step
// to the next unprocessed one. Duplicate delivery of the same step's result is
// harmless.
func (s *Session) ApplyMinima(data types.MinimaData) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	idx, err := s.index(data.Step)
	if err != nil {
		return err
	}

	s.steps[idx].Minima = append([]types.Minimum(nil), data.Minima...)
	s.steps[idx].Status = types.StepProcessed
	if data.Frequency != 0 {
		s.steps[idx].FrequencyHz = data.Frequency
	}
	if data.Temperature != 0 {
		s.steps[idx].TemperatureC = data.Temperature
	}

	s.advanceLocked()
	return nil
}

// advanceLocked points currentStep at the first unprocessed step, or the last
// step when every one is processed.
func (s *Session) advanceLocked() {
	for i := range s.steps {
		if s.steps[i].Status != types.StepProcessed {
			s.currentStep = i + 1
			return
		}
	}
	s.currentStep = len(s.steps)
}

// ApplyResults stores the server-computed speed and gamma per step and marks
// the experiment complete.
func (s *Session) ApplyResults(result types.ExperimentComplete) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, r := range result.Steps {
		if r.Step < 1 || r.Step > len(s.steps) {
			continue
		}
		s.steps[r.Step-1].SystemSpeed = r.Speed
		s.steps[r.Step-1].SystemGamma = r.Gamma
	}
	s.completed = true
}

// AllProcessed reports whether every step has a server-confirmed result.
func (s *Session) AllProcessed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i := range s.steps {
		if s.steps[i].Status != types.StepProcessed {
			return false
		}
	}
	return true
}

// SetSaving flips the archive-in-progress flag.
func (s *Session) SetSaving(saving bool) {
	s.lock.Lock()
	s.isSaving = saving
	s.lock.Unlock()
}

// IsSaving reports whether an archive write is in progress.
func (s *Session) IsSaving() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.isSaving
}

// CurrentStep is the 1-based step the UI should offer next.
func (s *Session) CurrentStep() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentStep
}

// Completed reports whether the server has finalized the experiment.
func (s *Session) Completed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.completed
}

// Step returns a copy of one step's record.
func (s *Session) Step(step int) (types.StepRecord, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	idx, err := s.index(step)
	if err != nil {
		return types.StepRecord{}, err
	}
	return copyStep(s.steps[idx]), nil
}

// Reset returns the session to its initial state for a fresh experiment.
func (s *Session) Reset() {
	s.lock.Lock()
	s.steps = emptySteps(len(s.steps))
	s.currentStep = 1
	s.isSaving = false
	s.completed = false
	s.lock.Unlock()
}

// Snapshot returns a point-in-time deep copy for archival and rendering.
func (s *Session) Snapshot() types.SessionSnapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	steps := make([]types.StepRecord, len(s.steps))
	for i := range s.steps {
		steps[i] = copyStep(s.steps[i])
	}
	return types.SessionSnapshot{
		ExperimentID: s.experimentID,
		CurrentStep:  s.currentStep,
		Steps:        steps,
		IsSaving:     s.isSaving,
		Completed:    s.completed,
	}
}

// StageSeries converts processed steps into the per-stage chart series used
// by update_all_params and complete_experiment payloads.
func (s *Session) StageSeries() []types.Stage {
	s.lock.Lock()
	defer s.lock.Unlock()

	stages := make([]types.Stage, 0, len(s.steps))
	for i := range s.steps {
		step := s.steps[i]
		if step.Status != types.StepProcessed {
			continue
		}
		stage := types.Stage{
			StepNumber: step.StepNumber,
			Frequency:  step.FrequencyHz,
			Data:       make([]float64, 0, len(step.Minima)),
			Labels:     make([]float64, 0, len(step.Minima)),
		}
		for _, m := range step.Minima {
			stage.Data = append(stage.Data, m.Amplitude)
			stage.Labels = append(stage.Labels, m.Position)
		}
		stages = append(stages, stage)
	}
	return stages
}

func (s *Session) index(step int) (int, error) {
	if step < 1 || step > len(s.steps) {
		return 0, fmt.Errorf("%w: %d", ErrStepOutOfRange, step)
	}
	return step - 1, nil
}

func copyStep(step types.StepRecord) types.StepRecord {
	out := step
	out.Minima = append([]types.Minimum(nil), step.Minima...)
	return out
}
