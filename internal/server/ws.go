package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/airkeys/internal/hub"
)

const (
	writeWait = 2 * time.Second
	// maxPushRate caps view pushes per connection.
	maxPushRate = 30
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ViewSocket pushes the latest view as JSON over a WebSocket after each
// published frame.
type ViewSocket struct {
	hub    *hub.Hub
	logger *slog.Logger
}

// NewViewSocket creates a ViewSocket reading from h.
func NewViewSocket(h *hub.Hub, logger *slog.Logger) *ViewSocket {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewSocket{hub: h, logger: logger}
}

// ServeHTTP upgrades the connection and pushes views until either side
// closes.
func (v *ViewSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		v.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := v.hub.Subscribe()
	defer cancel()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	limiter := time.NewTicker(time.Second / maxPushRate)
	defer limiter.Stop()

	var lastSeq uint64
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			snap := v.hub.Latest()
			if snap.Seq == lastSeq {
				continue
			}
			lastSeq = snap.Seq

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap.View); err != nil {
				v.logger.Debug("websocket write failed", "error", err)
				return
			}

			select {
			case <-limiter.C:
			case <-closed:
				return
			}
		}
	}
}
