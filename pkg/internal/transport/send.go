package transport

import (
	"context"

	"github.com/autolab/resonance/pkg/internal/codec"
	"github.com/autolab/resonance/pkg/internal/types"
	"nhooyr.io/websocket"
)

// Send serializes and transmits msg only if the channel is open. It returns
// false rather than an error when disconnected or when the write fails; the
// caller is responsible for surfacing that to the user.
func (t *WebSocketTransport) Send(msg types.Outbound) bool {
	t.connLock.Lock()
	conn := t.conn
	connected := t.connected
	t.connLock.Unlock()

	if !connected || conn == nil {
		t.NotifyLoggers(types.WarnLevel, "Send: channel not open",
			"component", t.componentMetadata.ID, "messageType", messageType(msg))
		return false
	}

	payload, err := codec.EncodeOutbound(msg)
	if err != nil {
		t.NotifyLoggers(types.ErrorLevel, "Send: encode failed",
			"component", t.componentMetadata.ID, "messageType", messageType(msg), "error", err)
		return false
	}

	cfg := t.snapshotConfig()
	writeCtx := t.ctx
	var cancel context.CancelFunc
	if cfg.writeTimeout > 0 {
		writeCtx, cancel = context.WithTimeout(t.ctx, cfg.writeTimeout)
		defer cancel()
	}

	if err := conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
		t.NotifyLoggers(types.ErrorLevel, "Send: write failed",
			"component", t.componentMetadata.ID, "messageType", messageType(msg), "error", err)
		return false
	}

	t.NotifyLoggers(types.DebugLevel, "Send: frame written",
		"component", t.componentMetadata.ID, "messageType", messageType(msg), "bytes", len(payload))
	return true
}

func messageType(msg types.Outbound) string {
	if msg == nil {
		return ""
	}
	return msg.MessageType()
}
