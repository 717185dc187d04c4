package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/gorilla/websocket"
)

// fakeRenderer echoes the requested sport. "slow" blocks until canceled and
// "broken" fails.
type fakeRenderer struct {
	calls atomic.Int32
}

func (f *fakeRenderer) Render(ctx context.Context, params services.FilterParams) (*models.Dashboard, error) {
	f.calls.Add(1)
	switch params.Sport {
	case "slow":
		<-ctx.Done()
		return nil, ctx.Err()
	case "broken":
		return nil, services.ErrLoadFailed
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &models.Dashboard{Filters: models.FilterState{Sport: params.Sport}}, nil
}

type received struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T, renderer Renderer) (*Hub, string, context.CancelFunc) {
	t.Helper()

	hub := NewHub(renderer,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if _, err := hub.Attach(conn); err != nil {
			conn.Close()
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg received
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return msg
}

func renderedSport(t *testing.T, msg received) string {
	t.Helper()
	if msg.Type != MessageDashboardRendered {
		t.Fatalf("expected %s, got %s (%s)", MessageDashboardRendered, msg.Type, msg.Payload)
	}
	var dash models.Dashboard
	if err := json.Unmarshal(msg.Payload, &dash); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	return dash.Filters.Sport
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSession_InitialRenderUsesDefaults(t *testing.T) {
	_, url, _ := startHub(t, &fakeRenderer{})
	conn := dial(t, url)

	msg := readMessage(t, conn)
	if sport := renderedSport(t, msg); sport != "" {
		t.Errorf("expected empty sport on first run, got %q", sport)
	}
	if msg.Seq != 1 {
		t.Errorf("expected seq 1, got %d", msg.Seq)
	}
}

func TestSession_EveryMessageReruns(t *testing.T) {
	renderer := &fakeRenderer{}
	_, url, _ := startHub(t, renderer)
	conn := dial(t, url)
	readMessage(t, conn)

	for _, sport := range []string{"Soccer", "Ice Hockey"} {
		if err := conn.WriteJSON(services.FilterInput{Sport: sport}); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if got := renderedSport(t, readMessage(t, conn)); got != sport {
			t.Errorf("expected %q, got %q", sport, got)
		}
	}
	if n := renderer.calls.Load(); n != 3 {
		t.Errorf("expected 3 renders, got %d", n)
	}
}

func TestSession_NewMessageSupersedesRunInFlight(t *testing.T) {
	renderer := &fakeRenderer{}
	_, url, _ := startHub(t, renderer)
	conn := dial(t, url)
	readMessage(t, conn)

	if err := conn.WriteJSON(services.FilterInput{Sport: "slow"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	waitFor(t, func() bool { return renderer.calls.Load() == 2 })
	if err := conn.WriteJSON(services.FilterInput{Sport: "Soccer"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	msg := readMessage(t, conn)
	if got := renderedSport(t, msg); got != "Soccer" {
		t.Fatalf("expected the latest run to reply, got %q", got)
	}
	if msg.Seq != 3 {
		t.Errorf("expected seq 3, got %d", msg.Seq)
	}

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var extra received
	err := conn.ReadJSON(&extra)
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Fatalf("superseded run must not reply, got %+v (err %v)", extra, err)
	}
}

func TestSession_FailuresAreReported(t *testing.T) {
	_, url, _ := startHub(t, &fakeRenderer{})
	conn := dial(t, url)
	readMessage(t, conn)

	start := "2024-03-01"
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"render error", services.FilterInput{Sport: "broken"}, services.ErrLoadFailed.Error()},
		{"single date", services.FilterInput{Sport: "Soccer", Start: &start}, services.ErrDateRangeIncomplete.Error()},
		{"malformed message", "not an object", "malformed filter message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteJSON(tt.input); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			msg := readMessage(t, conn)
			if msg.Type != MessageRenderFailed {
				t.Fatalf("expected %s, got %s", MessageRenderFailed, msg.Type)
			}
			var payload struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				t.Fatalf("bad payload: %v", err)
			}
			if !strings.Contains(payload.Error, tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, payload.Error)
			}
		})
	}
}

func TestHub_CountsAndClosesSessions(t *testing.T) {
	var last atomic.Int32
	hub := NewHub(&fakeRenderer{}, time.Time{}, time.Time{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		func(n int) { last.Store(int32(n)) })
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if _, err := hub.Attach(conn); err != nil {
			conn.Close()
		}
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	first := dial(t, url)
	second := dial(t, url)
	waitFor(t, func() bool { return hub.Count() == 2 })

	second.Close()
	waitFor(t, func() bool { return hub.Count() == 1 })

	cancel()
	waitFor(t, func() bool { return hub.Count() == 0 && last.Load() == 0 })

	// The hub closes the socket once it stops.
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := first.ReadMessage(); err != nil {
			break
		}
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		defer conn.Close()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err == nil {
			t.Error("expected a stopped hub to refuse new sessions")
		}
	}
}
