// Package experiment glues the transport, the audio recorder, the distance
// sensor and the session into the measurement workflow: announce step
// parameters, record, stop, submit, archive. It is also the handler for every
// inbound server message.
package experiment

import (
	"context"
	"errors"
	"sync"

	"github.com/autolab/resonance/pkg/internal/archive"
	"github.com/autolab/resonance/pkg/internal/physics"
	"github.com/autolab/resonance/pkg/internal/session"
	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
)

var (
	ErrNotConnected    = errors.New("experiment: transport not connected")
	ErrNoActiveStep    = errors.New("experiment: no recording in progress")
	ErrStepsIncomplete = errors.New("experiment: not every step is processed")
	ErrSendFailed      = errors.New("experiment: message not sent")
	ErrNoArchiveStore  = errors.New("experiment: no archive store configured")
)

// Controller drives the experiment workflow and implements
// types.MessageHandler for the inbound side.
type Controller struct {
	componentMetadata types.ComponentMetadata

	transport types.Transport
	recorder  types.AudioRecorder
	sensor    types.DistanceSensor
	session   *session.Session
	store     *archive.Store

	lock             sync.Mutex
	recordingStep    int
	awaitingStep     int
	lastVerification *types.VerificationResult

	loggersLock sync.Mutex
	loggers     []types.Logger
}

// Config carries the collaborating components.
type Config struct {
	Transport types.Transport
	Recorder  types.AudioRecorder
	Sensor    types.DistanceSensor // optional, nil runs without hardware
	Session   *session.Session
	Store     *archive.Store // optional, nil disables archiving
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithLogger attaches loggers to the controller.
func WithLogger(logger ...types.Logger) Option {
	return func(c *Controller) {
		c.ConnectLogger(logger...)
	}
}

// NewController wires the components together. When a distance sensor is
// present its auto-stop control is routed through StopRecording, the same path
// a user-initiated stop takes.
func NewController(cfg Config, options ...Option) *Controller {
	c := &Controller{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "EXPERIMENT_CONTROLLER",
		},
		transport: cfg.Transport,
		recorder:  cfg.Recorder,
		sensor:    cfg.Sensor,
		session:   cfg.Session,
		store:     cfg.Store,
	}
	if c.session == nil {
		c.session = session.NewSession()
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.sensor != nil {
		c.sensor.SetStopControl(c.StopRecording)
	}
	return c
}

// Session exposes the step state for rendering and archiving.
func (c *Controller) Session() *session.Session { return c.session }

// StartStep validates and announces one step's parameters. Recording may begin
// after the server confirms.
func (c *Controller) StartStep(ctx context.Context, step int, frequencyHz, temperatureC float64) error {
	if err := c.session.SetStepParams(step, frequencyHz, temperatureC); err != nil {
		c.NotifyLoggers(types.WarnLevel, "StartStep: parameters rejected",
			"component", c.componentMetadata.ID, "step", step,
			"frequency", frequencyHz, "temperature", temperatureC, "error", err)
		return err
	}

	if !c.transport.Send(types.NewExperimentParams(step, frequencyHz, temperatureC)) {
		return ErrSendFailed
	}

	c.lock.Lock()
	c.awaitingStep = step
	c.lock.Unlock()

	c.NotifyLoggers(types.InfoLevel, "StartStep: parameters announced",
		"component", c.componentMetadata.ID, "step", step,
		"frequency", frequencyHz, "temperature", temperatureC)
	return nil
}

// StartRecording opens the recording window for a step: the session moves to
// recording, the distance sensor starts buffering and the microphone opens.
func (c *Controller) StartRecording(ctx context.Context, step int) error {
	if !c.transport.IsConnected() {
		return ErrNotConnected
	}
	if err := c.session.BeginRecording(step); err != nil {
		return err
	}

	record, err := c.session.Step(step)
	if err != nil {
		return err
	}
	params := types.StepParams{
		Step:        step,
		Frequency:   record.FrequencyHz,
		Temperature: record.TemperatureC,
	}

	if c.sensor != nil && c.sensor.IsConnected() {
		c.sensor.StartRecording()
	}

	if err := c.recorder.Start(ctx, params); err != nil {
		// Roll the window back so the UI does not show a phantom recording.
		if c.sensor != nil {
			c.sensor.StopRecording()
		}
		_ = c.session.EndRecording(step)
		return err
	}

	if !c.transport.Send(types.NewStartRecording(step)) {
		c.NotifyLoggers(types.WarnLevel, "StartRecording: start frame not sent",
			"component", c.componentMetadata.ID, "step", step)
	}

	c.lock.Lock()
	c.recordingStep = step
	c.lock.Unlock()

	c.NotifyLoggers(types.InfoLevel, "StartRecording: window open",
		"component", c.componentMetadata.ID, "step", step)
	return nil
}

// StopRecording closes the recording window: the distance buffer is drained
// exactly once, the microphone closes, and the combined complete_audio frame
// goes out. Both the stop button and the sensor's auto-stop land here.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.lock.Lock()
	step := c.recordingStep
	c.recordingStep = 0
	c.lock.Unlock()

	if step == 0 {
		return ErrNoActiveStep
	}

	if !c.transport.Send(types.NewStopRecording(step)) {
		c.NotifyLoggers(types.WarnLevel, "StopRecording: stop frame not sent",
			"component", c.componentMetadata.ID, "step", step)
	}

	var series *types.DistanceSeries
	if c.sensor != nil {
		drained := c.sensor.StopRecording()
		series = &drained
	}

	if err := c.recorder.Stop(ctx, series); err != nil {
		_ = c.session.EndRecording(step)
		c.NotifyLoggers(types.ErrorLevel, "StopRecording: recorder stop failed",
			"component", c.componentMetadata.ID, "step", step, "error", err)
		return err
	}

	if err := c.session.EndRecording(step); err != nil {
		return err
	}

	c.NotifyLoggers(types.InfoLevel, "StopRecording: window closed, awaiting minima",
		"component", c.componentMetadata.ID, "step", step)
	return nil
}

// UpdateAllParams pushes the experiment conditions and every processed step's
// chart series to the server.
func (c *Controller) UpdateAllParams(ctx context.Context, temperatureC, pressurePa float64) error {
	msg := types.UpdateAllParams{
		Type:        types.TypeUpdateAllParams,
		Temperature: temperatureC,
		PressurePa:  pressurePa,
		MolarMass:   physics.MolarMassAir,
		Stages:      c.session.StageSeries(),
	}
	if !c.transport.Send(msg) {
		return ErrSendFailed
	}
	return nil
}

// CompleteExperiment asks the server to finalize. Every step must carry a
// server-confirmed result first.
func (c *Controller) CompleteExperiment(ctx context.Context, temperatureC, pressurePa float64) error {
	if !c.session.AllProcessed() {
		return ErrStepsIncomplete
	}
	msg := types.CompleteExperiment{
		Type:        types.TypeCompleteExperiment,
		Temperature: temperatureC,
		PressurePa:  pressurePa,
		MolarMass:   physics.MolarMassAir,
		Stages:      c.session.StageSeries(),
	}
	if !c.transport.Send(msg) {
		return ErrSendFailed
	}
	c.NotifyLoggers(types.InfoLevel, "CompleteExperiment: finalization requested",
		"component", c.componentMetadata.ID)
	return nil
}

// SubmitFinalResults sends the student's computed speed and gamma for the
// server's verdict.
func (c *Controller) SubmitFinalResults(ctx context.Context, studentSpeed, studentGamma float64) error {
	if !c.transport.Send(types.NewFinalResults(studentSpeed, studentGamma)) {
		return ErrSendFailed
	}
	c.NotifyLoggers(types.InfoLevel, "SubmitFinalResults: submitted",
		"component", c.componentMetadata.ID,
		"studentSpeed", studentSpeed, "studentGamma", studentGamma)
	return nil
}

// SaveArchive writes the current session snapshot to the archive store.
func (c *Controller) SaveArchive() (string, error) {
	if c.store == nil {
		return "", ErrNoArchiveStore
	}
	c.session.SetSaving(true)
	defer c.session.SetSaving(false)

	path, err := c.store.Save(c.session.Snapshot())
	if err != nil {
		c.NotifyLoggers(types.ErrorLevel, "SaveArchive: write failed",
			"component", c.componentMetadata.ID, "error", err)
		return "", err
	}
	c.NotifyLoggers(types.InfoLevel, "SaveArchive: snapshot written",
		"component", c.componentMetadata.ID, "path", path)
	return path, nil
}

// ComputeLocal derives speed and gamma from a processed step's minima, the
// hint shown next to the chart before the server's verdict arrives.
func (c *Controller) ComputeLocal(step int) (speed, gamma float64, err error) {
	record, err := c.session.Step(step)
	if err != nil {
		return 0, 0, err
	}

	positions := make([]float64, len(record.Minima))
	for i, m := range record.Minima {
		positions[i] = m.Position
	}
	speed, err = physics.SpeedOfSound(positions, record.FrequencyHz)
	if err != nil {
		return 0, 0, err
	}
	return speed, physics.Gamma(speed, record.TemperatureC), nil
}

// LastVerification returns the most recent server verdict, or nil.
func (c *Controller) LastVerification() *types.VerificationResult {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.lastVerification == nil {
		return nil
	}
	out := *c.lastVerification
	return &out
}
