package transport

import (
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
)

// WithURL sets the WebSocket endpoint URL.
func WithURL(url string) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetURL(url)
	}
}

// WithHeader adds a request header sent with the dial.
func WithHeader(key, value string) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.AddHeader(key, value)
	}
}

// WithConnectTimeout bounds how long a single dial may take.
func WithConnectTimeout(timeout time.Duration) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetConnectTimeout(timeout)
	}
}

// WithWriteTimeout bounds how long a single Send may take.
func WithWriteTimeout(timeout time.Duration) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetWriteTimeout(timeout)
	}
}

// WithReadLimit sets the maximum inbound frame size in bytes. Audio-bearing
// acknowledgements stay small, but minima frames can carry full envelopes.
func WithReadLimit(limit int64) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetReadLimit(limit)
	}
}

// WithReconnectPolicy overrides the bounded reconnect schedule applied after
// an unexpected closure.
func WithReconnectPolicy(maxAttempts int, delay time.Duration) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetReconnectPolicy(maxAttempts, delay)
	}
}

// WithLogger attaches loggers to the transport.
func WithLogger(logger ...types.Logger) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.ConnectLogger(logger...)
	}
}

// WithSensor attaches sensors observing channel lifecycle events.
func WithSensor(sensor ...types.Sensor[types.Envelope]) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.ConnectSensor(sensor...)
	}
}

// WithComponentMetadata overrides the generated component name and id.
func WithComponentMetadata(name string, id string) types.Option[types.Transport] {
	return func(t types.Transport) {
		t.SetComponentMetadata(name, id)
	}
}
