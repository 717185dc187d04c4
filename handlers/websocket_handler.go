package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/livescores-dashboard/live"
	"github.com/gorilla/websocket"
)

type LiveHandler struct {
	hub      *live.Hub
	upgrader websocket.Upgrader
}

// NewLiveHandler accepts connections from allowedOrigins; "*" allows any origin.
func NewLiveHandler(hub *live.Hub, allowedOrigins []string) *LiveHandler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return &LiveHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Serve upgrades the request and hands the connection to the hub. Each
// filter message sent over the socket triggers a fresh dashboard run.
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		slog.WarnContext(r.Context(), "failed to upgrade live connection", slog.Any("error", err))
		return
	}

	session, err := h.hub.Attach(conn)
	if err != nil {
		slog.WarnContext(r.Context(), "live session rejected", slog.Any("error", err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		conn.Close()
		return
	}
	slog.InfoContext(r.Context(), "live session started", slog.String("session_id", session.ID))
}
