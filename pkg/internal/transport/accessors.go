package transport

import (
	"strings"
	"time"

	"github.com/autolab/resonance/pkg/internal/retry"
	"github.com/autolab/resonance/pkg/internal/types"
)

// GetComponentMetadata returns metadata (ID, Name, Type).
func (t *WebSocketTransport) GetComponentMetadata() types.ComponentMetadata {
	return t.componentMetadata
}

// SetComponentMetadata sets Name and ID.
func (t *WebSocketTransport) SetComponentMetadata(name string, id string) {
	t.componentMetadata.Name = name
	t.componentMetadata.ID = id
}

// SetURL sets the WebSocket endpoint URL.
func (t *WebSocketTransport) SetURL(url string) {
	t.configLock.Lock()
	t.url = strings.TrimSpace(url)
	t.configLock.Unlock()
}

// AddHeader adds a single request header.
func (t *WebSocketTransport) AddHeader(key, value string) {
	if strings.TrimSpace(key) == "" {
		return
	}
	t.configLock.Lock()
	if t.headers == nil {
		t.headers = make(map[string]string)
	}
	t.headers[key] = value
	t.configLock.Unlock()
}

// SetConnectTimeout sets the dial timeout.
func (t *WebSocketTransport) SetConnectTimeout(timeout time.Duration) {
	t.configLock.Lock()
	if timeout > 0 {
		t.connectTimeout = timeout
	}
	t.configLock.Unlock()
}

// SetWriteTimeout sets the timeout for writes.
func (t *WebSocketTransport) SetWriteTimeout(timeout time.Duration) {
	t.configLock.Lock()
	if timeout > 0 {
		t.writeTimeout = timeout
	}
	t.configLock.Unlock()
}

// SetReadLimit sets the maximum inbound frame size.
func (t *WebSocketTransport) SetReadLimit(limit int64) {
	t.configLock.Lock()
	if limit > 0 {
		t.readLimit = limit
	}
	t.configLock.Unlock()
}

// SetReconnectPolicy replaces the bounded reconnect schedule.
func (t *WebSocketTransport) SetReconnectPolicy(maxAttempts int, delay time.Duration) {
	t.configLock.Lock()
	if maxAttempts > 0 && delay >= 0 {
		t.reconnect = retry.Policy{MaxAttempts: maxAttempts, Delay: delay}
	}
	t.configLock.Unlock()
}
