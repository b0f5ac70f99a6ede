package server

import (
	"fmt"
	"net/http"

	"github.com/ayusman/airkeys/internal/hub"
)

// StreamHandler serves the rendered frames as MJPEG.
type StreamHandler struct {
	hub *hub.Hub
}

// NewStreamHandler creates a new StreamHandler reading from h.
func NewStreamHandler(h *hub.Hub) *StreamHandler {
	return &StreamHandler{hub: h}
}

// ServeHTTP streams one part per published frame until the client leaves or
// the hub closes. Slow clients skip frames.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	var lastSeq uint64
	send := func() error {
		snap := h.hub.Latest()
		if snap.Seq == lastSeq || len(snap.JPEG) == 0 {
			return nil
		}
		lastSeq = snap.Seq
		if err := writePart(w, snap.JPEG); err != nil {
			return err
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		return nil
	}

	if send() != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if send() != nil {
				return
			}
		}
	}
}

func writePart(w http.ResponseWriter, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
