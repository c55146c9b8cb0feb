// Package codec owns the wire format: one JSON object per frame with a
// required "type" field. It decodes raw frames into envelopes and envelopes
// into the typed inbound messages, and serializes outbound messages.
package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/autolab/resonance/pkg/internal/types"
)

// ErrUnknownType marks an inbound frame whose type tag no handler exists for.
// Callers log it and move on; it is never fatal to the session.
var ErrUnknownType = errors.New("codec: unknown message type")

// DecodeEnvelope parses one raw frame into an envelope. The frame must be a
// JSON object carrying a non-empty "type".
func DecodeEnvelope(frame []byte) (types.Envelope, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &probe); err != nil {
		return types.Envelope{}, fmt.Errorf("codec: invalid frame: %w", err)
	}
	if probe.Type == "" {
		return types.Envelope{}, errors.New("codec: frame missing type field")
	}
	raw := make(json.RawMessage, len(frame))
	copy(raw, frame)
	return types.Envelope{Type: probe.Type, Raw: raw}, nil
}

// EncodeOutbound serializes a client-to-server message. The type tag is part
// of the message struct; constructors set it, and an empty tag is rejected
// here as a programming error surfaced at the send site.
func EncodeOutbound(msg types.Outbound) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("codec: nil outbound message")
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("codec: encode %s: %w", msg.MessageType(), err)
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &probe); err != nil || probe.Type == "" {
		return nil, fmt.Errorf("codec: outbound %s has no type tag", msg.MessageType())
	}
	return b, nil
}

// Dispatch resolves an envelope into its typed message and delivers it to the
// matching handler method. parameters_updated_ack and experiment_completed are
// accepted as aliases of their canonical tags. Unknown types return
// ErrUnknownType.
func Dispatch(ctx context.Context, env types.Envelope, h types.MessageHandler) error {
	switch env.Type {
	case types.TypeStepConfirmation:
		var msg types.StepConfirmation
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleStepConfirmation(ctx, msg)
	case types.TypeMinimaData:
		var msg types.MinimaData
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleMinimaData(ctx, msg)
	case types.TypeParametersUpdated, types.TypeParametersUpdatedAck:
		var msg types.ParametersUpdated
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleParametersUpdated(ctx, msg)
	case types.TypeExperimentComplete, types.TypeExperimentCompletedAlias:
		var msg types.ExperimentComplete
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleExperimentComplete(ctx, msg)
	case types.TypeVerificationResult:
		var msg types.VerificationResult
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleVerificationResult(ctx, msg)
	case types.TypeError:
		var msg types.ServerError
		if err := json.Unmarshal(env.Raw, &msg); err != nil {
			return decodeErr(env.Type, err)
		}
		h.HandleServerError(ctx, msg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	return nil
}

func decodeErr(msgType string, err error) error {
	return fmt.Errorf("codec: decode %s: %w", msgType, err)
}
