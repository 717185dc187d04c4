package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Типы сообщений, отправляемых клиенту
const (
	MessageDashboardRendered = "DASHBOARD_RENDERED"
	MessageRenderFailed      = "RENDER_FAILED"
)

type Message struct {
	Type    string `json:"type"`
	Seq     uint64 `json:"seq"` // номер взаимодействия, к которому относится ответ
	Payload any    `json:"payload"`
}

type renderError struct {
	Error string `json:"error"`
}

// Session is one browser tab. Every filter message starts a new run and
// cancels the one in flight; only the latest run may reply.
type Session struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
	seq    uint64
	cancel context.CancelFunc
}

func newSession(h *Hub, conn *websocket.Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// rerun supersedes the current run with a fresh one for input.
func (s *Session) rerun(input services.FilterInput) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		s.run(ctx, seq, input)
	}()
}

func (s *Session) run(ctx context.Context, seq uint64, input services.FilterInput) {
	logger := s.hub.logger.With(slog.String("session_id", s.ID), slog.Uint64("seq", seq))

	msg := Message{Type: MessageDashboardRendered, Seq: seq}
	params, err := input.Params(s.hub.defaultStart, s.hub.defaultEnd)
	if err == nil {
		msg.Payload, err = s.hub.renderer.Render(ctx, params)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			logger.Debug("live run superseded")
			return
		}
		logger.Warn("live run failed", slog.Any("error", err))
		msg = Message{Type: MessageRenderFailed, Seq: seq, Payload: renderError{Error: err.Error()}}
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal live message", slog.Any("error", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		return
	}
	select {
	case s.send <- data:
	default:
		logger.Warn("live session send buffer full, dropping message")
	}
}

// closeSend is called by the hub once the session is unregistered.
func (s *Session) closeSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	close(s.send)
}

func (s *Session) readPump() {
	defer func() {
		s.hub.leave(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.logger.Warn("live session read failed", slog.String("session_id", s.ID), slog.Any("error", err))
			}
			return
		}

		var input services.FilterInput
		if err := json.Unmarshal(data, &input); err != nil {
			s.replyError(err)
			continue
		}
		s.rerun(input)
	}
}

// replyError reports a malformed message without touching the run in flight.
func (s *Session) replyError(err error) {
	data, mErr := json.Marshal(Message{Type: MessageRenderFailed, Payload: renderError{Error: "malformed filter message: " + err.Error()}})
	if mErr != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.send <- data:
	default:
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.hub.logger.Debug("live session write failed", slog.String("session_id", s.ID), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
