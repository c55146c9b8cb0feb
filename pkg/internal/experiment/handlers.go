package experiment

import (
	"context"

	"github.com/autolab/resonance/pkg/internal/types"
)

// HandleStepConfirmation clears the awaiting flag for the confirmed step.
func (c *Controller) HandleStepConfirmation(ctx context.Context, msg types.StepConfirmation) {
	c.lock.Lock()
	if c.awaitingStep == msg.Step {
		c.awaitingStep = 0
	}
	c.lock.Unlock()

	c.NotifyLoggers(types.InfoLevel, "HandleStepConfirmation: step confirmed",
		"component", c.componentMetadata.ID, "step", msg.Step, "status", msg.Status)
}

// HandleMinimaData stores the server-confirmed result. This is the only path
// that marks a step processed.
func (c *Controller) HandleMinimaData(ctx context.Context, msg types.MinimaData) {
	if err := c.session.ApplyMinima(msg); err != nil {
		c.NotifyLoggers(types.WarnLevel, "HandleMinimaData: result for unknown step",
			"component", c.componentMetadata.ID, "step", msg.Step, "error", err)
		return
	}
	c.NotifyLoggers(types.InfoLevel, "HandleMinimaData: step processed",
		"component", c.componentMetadata.ID, "step", msg.Step, "minima", len(msg.Minima))
}

// HandleParametersUpdated acknowledges a conditions push.
func (c *Controller) HandleParametersUpdated(ctx context.Context, msg types.ParametersUpdated) {
	c.NotifyLoggers(types.InfoLevel, "HandleParametersUpdated: conditions accepted",
		"component", c.componentMetadata.ID, "status", msg.Status)
}

// HandleExperimentComplete stores the per-step server results and archives
// the finished session when a store is configured.
func (c *Controller) HandleExperimentComplete(ctx context.Context, msg types.ExperimentComplete) {
	c.session.ApplyResults(msg)
	c.NotifyLoggers(types.InfoLevel, "HandleExperimentComplete: experiment finalized",
		"component", c.componentMetadata.ID, "steps", len(msg.Steps))

	if c.store != nil {
		if _, err := c.SaveArchive(); err != nil {
			c.NotifyLoggers(types.WarnLevel, "HandleExperimentComplete: archive failed",
				"component", c.componentMetadata.ID, "error", err)
		}
	}
}

// HandleVerificationResult stores the verdict for the UI.
func (c *Controller) HandleVerificationResult(ctx context.Context, msg types.VerificationResult) {
	c.lock.Lock()
	c.lastVerification = &msg
	c.lock.Unlock()

	c.NotifyLoggers(types.InfoLevel, "HandleVerificationResult: verdict received",
		"component", c.componentMetadata.ID, "valid", msg.IsValid,
		"speedError", msg.SpeedError, "gammaErrorSystem", msg.GammaErrorSystem)
}

// HandleServerError clears in-flight state so the UI can retry. A recording
// in progress is stopped locally through the usual path.
func (c *Controller) HandleServerError(ctx context.Context, msg types.ServerError) {
	c.NotifyLoggers(types.ErrorLevel, "HandleServerError: server reported failure",
		"component", c.componentMetadata.ID, "step", msg.Step, "message", msg.Message)

	c.lock.Lock()
	c.awaitingStep = 0
	recording := c.recordingStep != 0
	c.lock.Unlock()

	if recording {
		if err := c.StopRecording(ctx); err != nil && err != ErrNoActiveStep {
			c.NotifyLoggers(types.WarnLevel, "HandleServerError: local stop failed",
				"component", c.componentMetadata.ID, "error", err)
		}
	}
}
