package transport

import (
	"time"

	"github.com/autolab/resonance/pkg/internal/retry"
)

type channelConfig struct {
	url            string
	headers        map[string]string
	connectTimeout time.Duration
	writeTimeout   time.Duration
	readLimit      int64
	reconnect      retry.Policy
}

func (t *WebSocketTransport) snapshotConfig() channelConfig {
	t.configLock.Lock()
	defer t.configLock.Unlock()

	headers := make(map[string]string, len(t.headers))
	for k, v := range t.headers {
		headers[k] = v
	}

	return channelConfig{
		url:            t.url,
		headers:        headers,
		connectTimeout: t.connectTimeout,
		writeTimeout:   t.writeTimeout,
		readLimit:      t.readLimit,
		reconnect:      t.reconnect,
	}
}
