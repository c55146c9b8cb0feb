package builder

import (
	"context"
	"time"

	"github.com/autolab/resonance/pkg/internal/transport"
	"github.com/autolab/resonance/pkg/internal/types"
)

// NewWebSocketTransport creates the message channel to the lab backend.
func NewWebSocketTransport(ctx context.Context, options ...types.Option[types.Transport]) types.Transport {
	return transport.NewWebSocketTransport(ctx, options...)
}

// TransportWithURL sets the WebSocket endpoint URL.
func TransportWithURL(url string) types.Option[types.Transport] {
	return transport.WithURL(url)
}

// TransportWithHeader adds a request header sent with the dial.
func TransportWithHeader(key, value string) types.Option[types.Transport] {
	return transport.WithHeader(key, value)
}

// TransportWithConnectTimeout bounds how long a single dial may take.
func TransportWithConnectTimeout(timeout time.Duration) types.Option[types.Transport] {
	return transport.WithConnectTimeout(timeout)
}

// TransportWithWriteTimeout bounds how long a single send may take.
func TransportWithWriteTimeout(timeout time.Duration) types.Option[types.Transport] {
	return transport.WithWriteTimeout(timeout)
}

// TransportWithReadLimit caps the size of a single inbound frame.
func TransportWithReadLimit(limit int64) types.Option[types.Transport] {
	return transport.WithReadLimit(limit)
}

// TransportWithReconnectPolicy overrides the bounded reconnect schedule.
func TransportWithReconnectPolicy(maxAttempts int, delay time.Duration) types.Option[types.Transport] {
	return transport.WithReconnectPolicy(maxAttempts, delay)
}

// TransportWithLogger attaches loggers to the transport.
func TransportWithLogger(logger ...types.Logger) types.Option[types.Transport] {
	return transport.WithLogger(logger...)
}

// TransportWithSensor attaches sensors observing channel lifecycle events.
func TransportWithSensor(sensor ...types.Sensor[types.Envelope]) types.Option[types.Transport] {
	return transport.WithSensor(sensor...)
}
