package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
	"github.com/Dosada05/livescores-dashboard/services"
	"github.com/gorilla/websocket"
)

var ErrHubClosed = errors.New("live hub is not running")

// Renderer runs one dashboard interaction.
type Renderer interface {
	Render(ctx context.Context, params services.FilterParams) (*models.Dashboard, error)
}

// Hub owns every connected session. Register and unregister go through
// channels served by Run.
type Hub struct {
	renderer     Renderer
	defaultStart time.Time
	defaultEnd   time.Time
	logger       *slog.Logger
	onChange     func(n int)

	register   chan *Session
	unregister chan *Session
	done       chan struct{}
	sessions   map[*Session]struct{}
	count      atomic.Int64
	stopOnce   sync.Once
}

// NewHub creates a hub. onChange, if set, is called from Run with the new
// session count after every register or unregister.
func NewHub(renderer Renderer, defaultStart, defaultEnd time.Time, logger *slog.Logger, onChange func(n int)) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		renderer:     renderer,
		defaultStart: defaultStart,
		defaultEnd:   defaultEnd,
		logger:       logger,
		onChange:     onChange,
		register:     make(chan *Session),
		unregister:   make(chan *Session),
		done:         make(chan struct{}),
		sessions:     make(map[*Session]struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every session.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })

	for {
		select {
		case s := <-h.register:
			h.sessions[s] = struct{}{}
			h.changed()
			h.logger.Info("live session registered",
				slog.String("session_id", s.ID),
				slog.Int("sessions", len(h.sessions)))

		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				s.closeSend()
				h.changed()
				h.logger.Info("live session unregistered",
					slog.String("session_id", s.ID),
					slog.Int("sessions", len(h.sessions)))
			}

		case <-ctx.Done():
			for s := range h.sessions {
				s.closeSend()
				delete(h.sessions, s)
			}
			h.changed()
			h.logger.Info("live hub stopped")
			return
		}
	}
}

// Count returns the number of registered sessions.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Attach registers a new session for conn and starts its pumps. The first
// dashboard is rendered with the default widget values.
func (h *Hub) Attach(conn *websocket.Conn) (*Session, error) {
	s := newSession(h, conn)

	select {
	case h.register <- s:
	case <-h.done:
		return nil, ErrHubClosed
	}

	go s.writePump()
	go s.readPump()

	s.rerun(services.FilterInput{})
	return s, nil
}

func (h *Hub) leave(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

func (h *Hub) changed() {
	h.count.Store(int64(len(h.sessions)))
	if h.onChange != nil {
		h.onChange(len(h.sessions))
	}
}
