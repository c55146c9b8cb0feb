package types

import (
	"context"
	"encoding/json"
)

// Wire message type tags. Every frame on the socket is a single JSON object
// carrying one of these in its "type" field.
const (
	// Client to server.
	TypeExperimentParams   = "experiment_params"
	TypeStartRecording     = "start_recording"
	TypeStopRecording      = "stop_recording"
	TypeCompleteAudio      = "complete_audio"
	TypeUpdateAllParams    = "update_all_params"
	TypeCompleteExperiment = "complete_experiment"
	TypeFinalResults       = "final_results"

	// Server to client.
	TypeStepConfirmation         = "step_confirmation"
	TypeMinimaData               = "minima_data"
	TypeParametersUpdated        = "parameters_updated"
	TypeParametersUpdatedAck     = "parameters_updated_ack"
	TypeExperimentComplete       = "experiment_complete"
	TypeExperimentCompletedAlias = "experiment_completed"
	TypeError                    = "error"
	TypeVerificationResult       = "verification_result"
)

// Envelope is one raw inbound frame: the dispatch tag plus the undecoded body.
// The Message Router consumes envelopes from the Transport inbound queue and
// resolves them into typed messages.
type Envelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// Outbound is implemented by every client-to-server message.
type Outbound interface {
	MessageType() string
}

// ExperimentParams announces the parameters for one step before recording.
type ExperimentParams struct {
	Type        string  `json:"type"`
	Step        int     `json:"step"`
	Frequency   float64 `json:"frequency"`
	Temperature float64 `json:"temperature"`
}

func (m ExperimentParams) MessageType() string { return TypeExperimentParams }

// NewExperimentParams builds an experiment_params frame.
func NewExperimentParams(step int, frequency, temperature float64) ExperimentParams {
	return ExperimentParams{Type: TypeExperimentParams, Step: step, Frequency: frequency, Temperature: temperature}
}

// StartRecording marks the beginning of a recording window for a step.
type StartRecording struct {
	Type string `json:"type"`
	Step int    `json:"step"`
}

func (m StartRecording) MessageType() string { return TypeStartRecording }

// NewStartRecording builds a start_recording frame.
func NewStartRecording(step int) StartRecording {
	return StartRecording{Type: TypeStartRecording, Step: step}
}

// StopRecording marks the end of a recording window for a step.
type StopRecording struct {
	Type string `json:"type"`
	Step int    `json:"step"`
}

func (m StopRecording) MessageType() string { return TypeStopRecording }

// NewStopRecording builds a stop_recording frame.
func NewStopRecording(step int) StopRecording {
	return StopRecording{Type: TypeStopRecording, Step: step}
}

// CompleteAudio carries one full recording for a step: the base64 audio blob
// plus the distance series gathered over the same window. Emitted exactly once
// per step, after both the audio and the sensor have stopped locally.
type CompleteAudio struct {
	Type        string    `json:"type"`
	Data        string    `json:"data"`
	Format      string    `json:"format"`
	Step        int       `json:"step"`
	Frequency   float64   `json:"frequency"`
	Temperature float64   `json:"temperature"`
	Duration    float64   `json:"duration"`
	Distances   []float64 `json:"distances"`
	Timestamps  []float64 `json:"timestamps"`
}

func (m CompleteAudio) MessageType() string { return TypeCompleteAudio }

// Stage is one step's chart series inside update_all_params / complete_experiment.
type Stage struct {
	StepNumber int       `json:"step_number"`
	Frequency  float64   `json:"frequency"`
	Data       []float64 `json:"data"`
	Labels     []float64 `json:"labels"`
}

// ExperimentConditions are the ambient physical parameters of the experiment.
type ExperimentConditions struct {
	Temperature float64 `json:"temperature"`
	PressurePa  float64 `json:"pressure_pa"`
	MolarMass   float64 `json:"molar_mass_kg_mol"`
}

// UpdateAllParams pushes the full set of conditions and per-stage series.
type UpdateAllParams struct {
	Type        string  `json:"type"`
	Temperature float64 `json:"temperature"`
	PressurePa  float64 `json:"pressure_pa"`
	MolarMass   float64 `json:"molar_mass_kg_mol"`
	Stages      []Stage `json:"stages"`
}

func (m UpdateAllParams) MessageType() string { return TypeUpdateAllParams }

// CompleteExperiment finalizes the experiment with the same payload shape as
// UpdateAllParams.
type CompleteExperiment struct {
	Type        string  `json:"type"`
	Temperature float64 `json:"temperature"`
	PressurePa  float64 `json:"pressure_pa"`
	MolarMass   float64 `json:"molar_mass_kg_mol"`
	Stages      []Stage `json:"stages"`
}

func (m CompleteExperiment) MessageType() string { return TypeCompleteExperiment }

// FinalResults submits the student's computed values for validation.
type FinalResults struct {
	Type         string  `json:"type"`
	StudentSpeed float64 `json:"studentSpeed"`
	StudentGamma float64 `json:"studentGamma"`
}

func (m FinalResults) MessageType() string { return TypeFinalResults }

// NewFinalResults builds a final_results frame.
func NewFinalResults(studentSpeed, studentGamma float64) FinalResults {
	return FinalResults{Type: TypeFinalResults, StudentSpeed: studentSpeed, StudentGamma: studentGamma}
}

// Minimum is one detected resonance amplitude dip. Servers tag the abscissa as
// either "position" or "distance_m" depending on version; both decode into
// Position.
type Minimum struct {
	Position  float64
	Amplitude float64
	Time      float64
}

type minimumJSON struct {
	Position  *float64 `json:"position"`
	DistanceM *float64 `json:"distance_m"`
	Amplitude float64  `json:"amplitude"`
	Time      float64  `json:"time"`
}

// UnmarshalJSON accepts both abscissa spellings used by the server.
func (m *Minimum) UnmarshalJSON(b []byte) error {
	var raw minimumJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Position != nil:
		m.Position = *raw.Position
	case raw.DistanceM != nil:
		m.Position = *raw.DistanceM
	}
	m.Amplitude = raw.Amplitude
	m.Time = raw.Time
	return nil
}

// MarshalJSON writes the canonical "position" spelling.
func (m Minimum) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Position  float64 `json:"position"`
		Amplitude float64 `json:"amplitude"`
		Time      float64 `json:"time"`
	}{m.Position, m.Amplitude, m.Time})
}

// StepConfirmation acknowledges experiment_params; the step may now record.
type StepConfirmation struct {
	Step        int     `json:"step"`
	Status      string  `json:"status"`
	Frequency   float64 `json:"frequency"`
	Temperature float64 `json:"temperature"`
}

// MinimaData delivers the server-detected resonance minima for a step. This is
// the authoritative "step done" signal.
type MinimaData struct {
	Step        int       `json:"step"`
	Minima      []Minimum `json:"minima"`
	Frequency   float64   `json:"frequency"`
	Temperature float64   `json:"temperature"`
}

// ParametersUpdated acknowledges update_all_params.
type ParametersUpdated struct {
	Status string               `json:"status"`
	Params ExperimentConditions `json:"params"`
}

// StepResult is one step's server-computed speed and gamma.
type StepResult struct {
	Step  int     `json:"step"`
	Speed float64 `json:"speed"`
	Gamma float64 `json:"gamma"`
}

// ExperimentComplete signals that all steps have been processed.
type ExperimentComplete struct {
	Message string       `json:"message"`
	Steps   []StepResult `json:"steps"`
}

// VerificationResult reports the server's judgement of the student's values.
type VerificationResult struct {
	IsValid             bool     `json:"is_valid"`
	StudentSpeed        float64  `json:"student_speed"`
	SystemSpeed         float64  `json:"system_speed"`
	StudentGamma        float64  `json:"student_gamma"`
	SystemGamma         float64  `json:"system_gamma"`
	SpeedError          float64  `json:"speed_error"`
	GammaErrorSystem    float64  `json:"gamma_error_system"`
	GammaErrorReference float64  `json:"gamma_error_reference"`
	Errors              []string `json:"errors,omitempty"`
}

// ServerError is an explicit server-reported failure, scoped to a step when
// the server knows which one.
type ServerError struct {
	Message string `json:"message"`
	Step    int    `json:"step"`
}

// MessageHandler receives every inbound message kind. One method per kind
// keeps dispatch exhaustive at compile time; handlers must tolerate duplicate
// delivery of the same logical update.
type MessageHandler interface {
	HandleStepConfirmation(context.Context, StepConfirmation)
	HandleMinimaData(context.Context, MinimaData)
	HandleParametersUpdated(context.Context, ParametersUpdated)
	HandleExperimentComplete(context.Context, ExperimentComplete)
	HandleVerificationResult(context.Context, VerificationResult)
	HandleServerError(context.Context, ServerError)
}

// DistanceSeries is the drained sample buffer for one recording segment, split
// into parallel arrays the way the wire format wants them.
type DistanceSeries struct {
	Distances  []float64 `json:"distances"`
	Timestamps []float64 `json:"timestamps"`
}

// Len returns the number of samples in the series.
func (s DistanceSeries) Len() int { return len(s.Distances) }

// StepParams are the validated per-step acquisition parameters.
type StepParams struct {
	Step        int
	Frequency   float64
	Temperature float64
}
