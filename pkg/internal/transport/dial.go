package transport

import (
	"context"
	"errors"
	"net/http"

	"nhooyr.io/websocket"
)

func (t *WebSocketTransport) dial(ctx context.Context, cfg channelConfig) (*websocket.Conn, error) {
	if cfg.url == "" {
		return nil, errors.New("transport: url not configured")
	}

	hdr := http.Header{}
	for k, v := range cfg.headers {
		hdr.Add(k, v)
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.connectTimeout)
	defer cancel()

	conn, resp, err := websocket.Dial(dialCtx, cfg.url, &websocket.DialOptions{HTTPHeader: hdr})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	if cfg.readLimit > 0 {
		conn.SetReadLimit(cfg.readLimit)
	}
	return conn, nil
}
