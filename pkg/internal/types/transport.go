package types

import (
	"context"
	"time"
)

// Transport is the bidirectional message channel to the lab backend. One JSON
// object per frame; inbound frames surface as envelopes on a bounded queue.
type Transport interface {
	ConnectLogger(...Logger)
	ConnectSensor(...Sensor[Envelope])
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})

	SetURL(url string)
	AddHeader(key, value string)
	SetConnectTimeout(timeout time.Duration)
	SetWriteTimeout(timeout time.Duration)
	SetReadLimit(limit int64)
	SetReconnectPolicy(maxAttempts int, delay time.Duration)

	// Connect dials the configured endpoint. It resolves on open and fails on
	// dial error or after the connect timeout. A successful connect starts the
	// read loop feeding Inbound.
	Connect(ctx context.Context) error

	// Close shuts the channel down without triggering reconnection.
	Close() error

	// Send serializes and transmits msg only if the channel is open. It
	// returns false instead of an error when disconnected; the caller decides
	// how to surface that.
	Send(msg Outbound) bool

	IsConnected() bool

	// Inbound is the decoded-frame queue the Message Router drains.
	Inbound() <-chan Envelope
}
