// Package transport implements the message channel between the lab client and
// the backend over a WebSocket. It owns dialing with a connect timeout, the
// read loop feeding the inbound envelope queue, serialized sends, and the
// bounded reconnect policy applied on unexpected closure.
package transport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/autolab/resonance/pkg/internal/retry"
	"github.com/autolab/resonance/pkg/internal/types"
	"github.com/autolab/resonance/pkg/internal/utils"
	"nhooyr.io/websocket"
)

// Defaults for the channel. The connect timeout and reconnect schedule are
// part of the protocol contract with the UI, not tunables the examples change.
const (
	DefaultConnectTimeout    = 5 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = 3 * time.Second
	DefaultQueueSize         = 64
	DefaultReadLimit         = 1 << 22
)

// ErrNotConnected is returned by Connect when the endpoint cannot be reached.
var ErrNotConnected = errors.New("transport: not connected")

// WebSocketTransport implements types.Transport over nhooyr.io/websocket.
type WebSocketTransport struct {
	componentMetadata types.ComponentMetadata

	ctx context.Context

	configLock     sync.Mutex
	url            string
	headers        map[string]string
	connectTimeout time.Duration
	writeTimeout   time.Duration
	readLimit      int64
	reconnect      retry.Policy

	connLock    sync.Mutex
	conn        *websocket.Conn
	connected   bool
	closed      bool
	lost        bool
	loopRunning bool

	inbound       chan types.Envelope
	closeInbound  sync.Once
	inboundClosed bool

	loggersLock sync.Mutex
	loggers     []types.Logger

	sensorsLock sync.Mutex
	sensors     []types.Sensor[types.Envelope]
}

// NewWebSocketTransport constructs a transport with defaults and applies the
// provided options.
func NewWebSocketTransport(ctx context.Context, options ...types.Option[types.Transport]) types.Transport {
	if ctx == nil {
		ctx = context.Background()
	}

	t := &WebSocketTransport{
		ctx: ctx,
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "TRANSPORT",
		},
		headers:        make(map[string]string),
		connectTimeout: DefaultConnectTimeout,
		writeTimeout:   DefaultWriteTimeout,
		readLimit:      DefaultReadLimit,
		reconnect: retry.Policy{
			MaxAttempts: DefaultReconnectAttempts,
			Delay:       DefaultReconnectDelay,
		},
		inbound: make(chan types.Envelope, DefaultQueueSize),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}

	return t
}

// Connect dials the configured endpoint, resolving on open. A successful dial
// clears any prior connection-lost state and starts the read loop.
func (t *WebSocketTransport) Connect(ctx context.Context) error {
	if ctx == nil {
		ctx = t.ctx
	}

	cfg := t.snapshotConfig()
	conn, err := t.dial(ctx, cfg)
	if err != nil {
		t.NotifyLoggers(types.ErrorLevel, "Connect: dial failed",
			"component", t.componentMetadata.ID, "url", cfg.url, "error", err)
		return err
	}

	t.connLock.Lock()
	t.conn = conn
	t.connected = true
	t.closed = false
	t.lost = false
	t.loopRunning = true
	// An explicit restart after a terminal loss gets a fresh queue; the old
	// one was closed when the previous read loop finished.
	if t.inboundClosed {
		t.inbound = make(chan types.Envelope, DefaultQueueSize)
		t.closeInbound = sync.Once{}
		t.inboundClosed = false
	}
	inbound := t.inbound
	t.connLock.Unlock()

	t.NotifyLoggers(types.InfoLevel, "Connect: channel open",
		"component", t.componentMetadata.ID, "url", cfg.url)
	for _, s := range t.snapshotSensors() {
		s.InvokeOnStart(t.componentMetadata)
	}

	go t.readLoop(t.ctx, conn, inbound)
	return nil
}

// Close shuts the channel down without triggering reconnection. The read
// loop, if running, observes the closed flag and finishes the inbound queue
// itself so no send races the close.
func (t *WebSocketTransport) Close() error {
	t.connLock.Lock()
	conn := t.conn
	t.conn = nil
	t.connected = false
	t.closed = true
	loopRunning := t.loopRunning
	t.connLock.Unlock()

	if !loopRunning {
		t.connLock.Lock()
		t.inboundClosed = true
		t.connLock.Unlock()
		t.closeInbound.Do(func() { close(t.inbound) })
	}

	if conn != nil {
		if err := conn.Close(websocket.StatusNormalClosure, "client shutdown"); err != nil {
			return err
		}
	}
	for _, s := range t.snapshotSensors() {
		s.InvokeOnStop(t.componentMetadata)
	}
	return nil
}

// IsConnected reports whether the channel is currently open.
func (t *WebSocketTransport) IsConnected() bool {
	t.connLock.Lock()
	defer t.connLock.Unlock()
	return t.connected
}

// Inbound is the decoded-frame queue the Message Router drains. After an
// explicit reconnect the queue is a fresh channel; callers re-fetch it when
// they restart their drain loop.
func (t *WebSocketTransport) Inbound() <-chan types.Envelope {
	t.connLock.Lock()
	defer t.connLock.Unlock()
	return t.inbound
}
