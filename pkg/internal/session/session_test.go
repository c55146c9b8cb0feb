package session

import (
	"errors"
	"testing"

	"github.com/autolab/resonance/pkg/internal/types"
)

func TestValidateParamsBoundaries(t *testing.T) {
	cases := []struct {
		name        string
		frequency   float64
		temperature float64
		wantErr     error
	}{
		{"below frequency floor", 999, 20, ErrFrequencyOutOfRange},
		{"frequency floor", 1000, 20, nil},
		{"frequency ceiling", 6000, 20, nil},
		{"above frequency ceiling", 6001, 20, ErrFrequencyOutOfRange},
		{"below temperature floor", 2000, 9.9, ErrTemperatureOutOfRange},
		{"temperature floor", 2000, 10, nil},
		{"temperature ceiling", 2000, 40, nil},
		{"above temperature ceiling", 2000, 40.1, ErrTemperatureOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateParams(tc.frequency, tc.temperature)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected valid parameters, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestOnlyOneStepRecordsAtATime(t *testing.T) {
	s := NewSession()

	if err := s.BeginRecording(1); err != nil {
		t.Fatalf("BeginRecording failed: %v", err)
	}
	if err := s.BeginRecording(2); !errors.Is(err, ErrStepBusy) {
		t.Fatalf("expected ErrStepBusy, got %v", err)
	}
	if err := s.EndRecording(1); err != nil {
		t.Fatalf("EndRecording failed: %v", err)
	}
	if err := s.BeginRecording(2); err != nil {
		t.Fatalf("second step must record after the first stopped: %v", err)
	}
}

func TestLocalStopDoesNotProcessStep(t *testing.T) {
	s := NewSession()

	if err := s.BeginRecording(1); err != nil {
		t.Fatalf("BeginRecording failed: %v", err)
	}
	if err := s.EndRecording(1); err != nil {
		t.Fatalf("EndRecording failed: %v", err)
	}

	step, _ := s.Step(1)
	if step.Status != types.StepPending {
		t.Fatalf("a local stop must not mark the step processed, got %v", step.Status)
	}
}

func TestApplyMinimaProcessesAndAdvances(t *testing.T) {
	s := NewSession()
	_ = s.SetStepParams(1, 2000, 22)
	_ = s.BeginRecording(1)

	err := s.ApplyMinima(types.MinimaData{
		Step:   1,
		Minima: []types.Minimum{{Position: 0.085, Amplitude: 0.02}, {Position: 0.17, Amplitude: 0.018}},
	})
	if err != nil {
		t.Fatalf("ApplyMinima failed: %v", err)
	}

	step, _ := s.Step(1)
	if step.Status != types.StepProcessed {
		t.Fatalf("server minima must process the step, got %v", step.Status)
	}
	if len(step.Minima) != 2 {
		t.Fatalf("minima not stored: %d", len(step.Minima))
	}
	if s.CurrentStep() != 2 {
		t.Fatalf("session must advance to the next pending step, got %d", s.CurrentStep())
	}

	// Duplicate delivery is harmless.
	if err := s.ApplyMinima(types.MinimaData{Step: 1, Minima: step.Minima}); err != nil {
		t.Fatalf("duplicate minima delivery must be tolerated: %v", err)
	}
	if s.CurrentStep() != 2 {
		t.Fatalf("duplicate delivery moved the current step to %d", s.CurrentStep())
	}
}

func TestAllProcessedAndResults(t *testing.T) {
	s := NewSession()
	for step := 1; step <= DefaultStepCount; step++ {
		_ = s.BeginRecording(step)
		if err := s.ApplyMinima(types.MinimaData{Step: step}); err != nil {
			t.Fatalf("ApplyMinima step %d: %v", step, err)
		}
	}
	if !s.AllProcessed() {
		t.Fatalf("expected all steps processed")
	}

	s.ApplyResults(types.ExperimentComplete{Steps: []types.StepResult{
		{Step: 1, Speed: 343.2, Gamma: 1.39},
		{Step: 2, Speed: 344.0, Gamma: 1.40},
		{Step: 3, Speed: 342.8, Gamma: 1.41},
	}})
	if !s.Completed() {
		t.Fatalf("expected the session to be completed")
	}
	step, _ := s.Step(2)
	if step.SystemSpeed != 344.0 || step.SystemGamma != 1.40 {
		t.Fatalf("server results not stored: %+v", step)
	}
}

func TestStageSeriesCoversProcessedStepsOnly(t *testing.T) {
	s := NewSession()
	_ = s.SetStepParams(1, 3000, 25)
	_ = s.BeginRecording(1)
	_ = s.ApplyMinima(types.MinimaData{
		Step:   1,
		Minima: []types.Minimum{{Position: 0.057, Amplitude: 0.03}},
	})

	stages := s.StageSeries()
	if len(stages) != 1 {
		t.Fatalf("expected one stage for one processed step, got %d", len(stages))
	}
	if stages[0].StepNumber != 1 || stages[0].Frequency != 3000 {
		t.Fatalf("stage metadata wrong: %+v", stages[0])
	}
	if len(stages[0].Data) != 1 || stages[0].Labels[0] != 0.057 {
		t.Fatalf("stage series wrong: %+v", stages[0])
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewSession(WithExperimentID(7))
	_ = s.BeginRecording(1)
	_ = s.ApplyMinima(types.MinimaData{Step: 1, Minima: []types.Minimum{{Position: 0.1}}})

	snap := s.Snapshot()
	if snap.ExperimentID != 7 {
		t.Fatalf("experiment id not carried: %d", snap.ExperimentID)
	}
	snap.Steps[0].Minima[0].Position = 99

	step, _ := s.Step(1)
	if step.Minima[0].Position != 0.1 {
		t.Fatalf("snapshot mutation leaked into the live session")
	}
}

func TestResetReturnsToInitialState(t *testing.T) {
	s := NewSession()
	_ = s.SetStepParams(1, 2000, 22)
	_ = s.BeginRecording(1)
	_ = s.ApplyMinima(types.MinimaData{Step: 1})
	s.SetSaving(true)

	s.Reset()
	if s.CurrentStep() != 1 || s.IsSaving() || s.Completed() {
		t.Fatalf("reset did not restore the initial state")
	}
	step, _ := s.Step(1)
	if step.Status != types.StepPending || step.FrequencyHz != 0 {
		t.Fatalf("step state survived the reset: %+v", step)
	}
}
