package transport

import (
	"context"
	"errors"
	"time"

	"github.com/autolab/resonance/pkg/internal/codec"
	"github.com/autolab/resonance/pkg/internal/types"
	"nhooyr.io/websocket"
)

// readLoop reads frames from conn until closure, feeding decoded envelopes to
// the inbound queue. Unexpected closure hands off to the reconnect policy.
func (t *WebSocketTransport) readLoop(ctx context.Context, conn *websocket.Conn, inbound chan types.Envelope) {
	for {
		_, payload, err := conn.Read(ctx)
		if err != nil {
			if t.isDeliberateClosure(err) {
				t.markDisconnected()
				t.finishInbound()
				return
			}
			t.markDisconnected()
			t.NotifyLoggers(types.WarnLevel, "ReadLoop: connection dropped",
				"component", t.componentMetadata.ID, "error", err)
			t.runReconnect(ctx, inbound)
			return
		}

		env, err := codec.DecodeEnvelope(payload)
		if err != nil {
			// Malformed frames are a local protocol error: logged, never fatal.
			t.NotifyLoggers(types.WarnLevel, "ReadLoop: dropping malformed frame",
				"component", t.componentMetadata.ID, "error", err)
			continue
		}

		for _, s := range t.snapshotSensors() {
			s.InvokeOnElementProcessed(t.componentMetadata, env)
		}

		select {
		case inbound <- env:
		default:
			t.NotifyLoggers(types.WarnLevel, "ReadLoop: inbound queue full, dropping frame",
				"component", t.componentMetadata.ID, "messageType", env.Type)
		}
	}
}

// runReconnect applies the bounded policy. On success the read loop resumes on
// the new connection; on exhaustion the terminal connection-lost notification
// fires exactly once and no further automatic attempts happen.
func (t *WebSocketTransport) runReconnect(ctx context.Context, inbound chan types.Envelope) {
	t.connLock.Lock()
	if t.closed || t.lost {
		t.connLock.Unlock()
		t.finishInbound()
		return
	}
	t.connLock.Unlock()

	cfg := t.snapshotConfig()

	var conn *websocket.Conn
	closedMidRetry := false
	err := cfg.reconnect.Do(ctx, func(attemptCtx context.Context) error {
		c, dialErr := t.dial(attemptCtx, cfg)
		if dialErr != nil {
			return dialErr
		}
		// Close may have landed while this attempt was dialing; the new
		// connection must not outlive an explicit shutdown.
		t.connLock.Lock()
		if t.closed {
			t.connLock.Unlock()
			closedMidRetry = true
			_ = c.Close(websocket.StatusNormalClosure, "client shutdown")
			return nil
		}
		t.conn = c
		t.connected = true
		t.connLock.Unlock()
		conn = c
		return nil
	}, func(attempt int, delay time.Duration) {
		t.NotifyLoggers(types.InfoLevel, "Reconnect: attempting",
			"component", t.componentMetadata.ID, "attempt", attempt)
		for _, s := range t.snapshotSensors() {
			s.InvokeOnReconnectAttempt(t.componentMetadata, attempt, delay)
		}
	})

	if err != nil {
		t.markConnectionLost(cfg.reconnect.MaxAttempts)
		t.finishInbound()
		return
	}
	if closedMidRetry {
		t.NotifyLoggers(types.InfoLevel, "Reconnect: abandoned, transport closed",
			"component", t.componentMetadata.ID)
		t.finishInbound()
		return
	}

	t.NotifyLoggers(types.InfoLevel, "Reconnect: channel restored",
		"component", t.componentMetadata.ID, "url", cfg.url)

	go t.readLoop(ctx, conn, inbound)
}

// finishInbound closes the queue once the read loop is permanently done with
// it. Buffered envelopes stay readable after the close.
func (t *WebSocketTransport) finishInbound() {
	t.connLock.Lock()
	t.loopRunning = false
	t.inboundClosed = true
	t.connLock.Unlock()
	t.closeInbound.Do(func() { close(t.inbound) })
}

func (t *WebSocketTransport) markDisconnected() {
	t.connLock.Lock()
	t.conn = nil
	t.connected = false
	t.connLock.Unlock()
}

// markConnectionLost flips the terminal state and fires the notification once.
func (t *WebSocketTransport) markConnectionLost(attempts int) {
	t.connLock.Lock()
	if t.lost || t.closed {
		t.connLock.Unlock()
		return
	}
	t.lost = true
	t.connLock.Unlock()

	t.NotifyLoggers(types.ErrorLevel, "Reconnect: attempts exhausted, connection lost",
		"component", t.componentMetadata.ID, "attempts", attempts)
	for _, s := range t.snapshotSensors() {
		s.InvokeOnConnectionLost(t.componentMetadata, attempts)
	}
}

func (t *WebSocketTransport) isDeliberateClosure(err error) bool {
	t.connLock.Lock()
	closed := t.closed
	t.connLock.Unlock()
	if closed {
		return true
	}
	status := websocket.CloseStatus(err)
	if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
		return true
	}
	return errors.Is(err, context.Canceled)
}
