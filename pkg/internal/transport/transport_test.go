package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autolab/resonance/pkg/internal/sensor"
	"github.com/autolab/resonance/pkg/internal/types"
	"nhooyr.io/websocket"
)

func wsURL(srv *httptest.Server) string {
	return strings.Replace(srv.URL, "http", "ws", 1)
}

func TestSendBeforeConnectReturnsFalse(t *testing.T) {
	tr := NewWebSocketTransport(context.Background(), WithURL("ws://127.0.0.1:1/ws"))

	if ok := tr.Send(types.NewStartRecording(1)); ok {
		t.Fatalf("expected Send to return false before Connect")
	}
}

func TestConnectTimeoutOnUnreachableEndpoint(t *testing.T) {
	tr := NewWebSocketTransport(context.Background(),
		WithURL("ws://127.0.0.1:1/ws"),
		WithConnectTimeout(200*time.Millisecond),
	)

	start := time.Now()
	if err := tr.Connect(context.Background()); err == nil {
		t.Fatalf("expected Connect to fail for unreachable endpoint")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("Connect did not respect the connect timeout, took %v", elapsed)
	}
	if tr.IsConnected() {
		t.Fatalf("transport must not report connected after a failed dial")
	}
}

func TestRoundTrip(t *testing.T) {
	received := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "")

		_, payload, err := c.Read(r.Context())
		if err != nil {
			return
		}
		received <- string(payload)

		confirm := `{"type":"step_confirmation","step":1,"message":"parameters accepted"}`
		_ = c.Write(r.Context(), websocket.MessageText, []byte(confirm))

		// Hold the connection open until the client closes it.
		_, _, _ = c.Read(r.Context())
	}))
	defer srv.Close()

	tr := NewWebSocketTransport(context.Background(), WithURL(wsURL(srv)))
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer tr.Close()

	if !tr.IsConnected() {
		t.Fatalf("expected IsConnected after Connect")
	}

	if ok := tr.Send(types.NewExperimentParams(1, 2000, 22.5)); !ok {
		t.Fatalf("Send failed on an open channel")
	}

	select {
	case frame := <-received:
		if !strings.Contains(frame, `"type":"experiment_params"`) {
			t.Fatalf("server received unexpected frame: %s", frame)
		}
		if !strings.Contains(frame, `"frequency":2000`) {
			t.Fatalf("frame missing frequency: %s", frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never received the outbound frame")
	}

	select {
	case env := <-tr.Inbound():
		if env.Type != types.TypeStepConfirmation {
			t.Fatalf("expected step_confirmation on the inbound queue, got %q", env.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("inbound queue never produced the server frame")
	}
}

func TestMalformedInboundFrameIsDroppedNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "")

		_ = c.Write(r.Context(), websocket.MessageText, []byte(`{not json`))
		_ = c.Write(r.Context(), websocket.MessageText, []byte(`{"type":"minima_data","step":1,"minima":[]}`))
		_, _, _ = c.Read(r.Context())
	}))
	defer srv.Close()

	tr := NewWebSocketTransport(context.Background(), WithURL(wsURL(srv)))
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer tr.Close()

	select {
	case env := <-tr.Inbound():
		if env.Type != types.TypeMinimaData {
			t.Fatalf("expected the well-formed frame to survive, got %q", env.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("read loop did not survive the malformed frame")
	}
}

func TestReconnectAfterDrop(t *testing.T) {
	var accepts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		if accepts.Add(1) == 1 {
			// Abnormal closure to trigger the reconnect policy.
			c.Close(websocket.StatusInternalError, "dropped")
			return
		}
		_ = c.Write(r.Context(), websocket.MessageText,
			[]byte(`{"type":"parameters_updated","message":"ok"}`))
		_, _, _ = c.Read(r.Context())
	}))
	defer srv.Close()

	attempts := make(chan int, 8)
	s := sensor.NewSensor[types.Envelope](
		sensor.WithOnReconnectAttemptFunc[types.Envelope](func(_ types.ComponentMetadata, attempt int, _ time.Duration) {
			attempts <- attempt
		}),
	)

	tr := NewWebSocketTransport(context.Background(),
		WithURL(wsURL(srv)),
		WithReconnectPolicy(5, 20*time.Millisecond),
		WithSensor(s),
	)
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer tr.Close()

	select {
	case env := <-tr.Inbound():
		if env.Type != types.TypeParametersUpdated {
			t.Fatalf("expected a frame from the restored channel, got %q", env.Type)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("channel was not restored after the drop")
	}

	select {
	case <-attempts:
	default:
		t.Fatalf("reconnect attempt notification never fired")
	}
}

func TestConnectionLostFiresExactlyOnceAfterExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		c.Close(websocket.StatusInternalError, "dropped")
	}))

	var lost atomic.Int32
	var attemptCount atomic.Int32
	done := make(chan struct{}, 1)

	s := sensor.NewSensor[types.Envelope](
		sensor.WithOnReconnectAttemptFunc[types.Envelope](func(_ types.ComponentMetadata, _ int, _ time.Duration) {
			attemptCount.Add(1)
		}),
		sensor.WithOnConnectionLostFunc[types.Envelope](func(_ types.ComponentMetadata, attempts int) {
			if attempts != 3 {
				t.Errorf("expected the terminal notification to report 3 attempts, got %d", attempts)
			}
			lost.Add(1)
			select {
			case done <- struct{}{}:
			default:
			}
		}),
	)

	tr := NewWebSocketTransport(context.Background(),
		WithURL(wsURL(srv)),
		WithReconnectPolicy(3, 10*time.Millisecond),
		WithSensor(s),
	)
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	// Kill the endpoint so every reconnect attempt fails.
	srv.CloseClientConnections()
	srv.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("connection-lost notification never fired")
	}

	// Demand quiescence before asserting the exactly-once property.
	time.Sleep(200 * time.Millisecond)
	if got := lost.Load(); got != 1 {
		t.Fatalf("connection-lost fired %d times, want exactly 1", got)
	}
	if got := attemptCount.Load(); got != 3 {
		t.Fatalf("expected 3 reconnect attempts, got %d", got)
	}
	if tr.IsConnected() {
		t.Fatalf("transport must not report connected after exhaustion")
	}

	if ok := tr.Send(types.NewStopRecording(1)); ok {
		t.Fatalf("Send must return false after connection loss")
	}
}

func TestCloseDuringReconnectKeepsTransportClosed(t *testing.T) {
	var accepts atomic.Int32
	var allowRedial atomic.Bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accepts.Add(1) > 1 && !allowRedial.Load() {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		if accepts.Load() == 1 {
			// Abnormal closure to push the client into the retry loop.
			c.Close(websocket.StatusInternalError, "dropped")
			return
		}
		_, _, _ = c.Read(r.Context())
	}))
	defer srv.Close()

	retrying := make(chan struct{}, 8)
	s := sensor.NewSensor[types.Envelope](
		sensor.WithOnReconnectAttemptFunc[types.Envelope](func(types.ComponentMetadata, int, time.Duration) {
			select {
			case retrying <- struct{}{}:
			default:
			}
		}),
	)

	tr := NewWebSocketTransport(context.Background(),
		WithURL(wsURL(srv)),
		WithReconnectPolicy(20, 25*time.Millisecond),
		WithSensor(s),
	)
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	select {
	case <-retrying:
	case <-time.After(3 * time.Second):
		t.Fatalf("retry loop never started after the drop")
	}

	// Close lands while the retry loop is live; from here any redial that
	// succeeds must be discarded instead of reviving the transport.
	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	allowRedial.Store(true)

	time.Sleep(300 * time.Millisecond)
	if tr.IsConnected() {
		t.Fatalf("transport reports connected after an explicit Close")
	}
	if ok := tr.Send(types.NewStopRecording(1)); ok {
		t.Fatalf("Send must return false on a closed transport")
	}

	select {
	case _, open := <-tr.Inbound():
		if open {
			t.Fatalf("inbound queue produced a frame after Close")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("inbound queue was never finished after Close")
	}
}

func TestCloseSuppressesReconnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		_, _, _ = c.Read(r.Context())
	}))
	defer srv.Close()

	var lost atomic.Int32
	s := sensor.NewSensor[types.Envelope](
		sensor.WithOnConnectionLostFunc[types.Envelope](func(types.ComponentMetadata, int) {
			lost.Add(1)
		}),
	)

	tr := NewWebSocketTransport(context.Background(),
		WithURL(wsURL(srv)),
		WithReconnectPolicy(2, 10*time.Millisecond),
		WithSensor(s),
	)
	if err := tr.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := lost.Load(); got != 0 {
		t.Fatalf("deliberate Close must not trigger connection-lost, fired %d times", got)
	}
	if tr.IsConnected() {
		t.Fatalf("transport reports connected after Close")
	}
}
