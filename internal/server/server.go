// Package server provides the optional HTTP preview server for airkeys.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/airkeys/internal/hub"
	"github.com/ayusman/airkeys/internal/store"
)

//go:embed web/index.html
var indexHTML []byte

// Config holds the server configuration.
type Config struct {
	// Hub supplies the latest view and rendered frame. Required for the
	// state, stream and ws endpoints.
	Hub *hub.Hub
	// Store enables /api/stats when set.
	Store  *store.Store
	Logger *slog.Logger
}

// Server is the preview HTTP handler.
type Server struct {
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config: config,
		logger: logger,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Hub != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Hub))
		s.mux.Handle("/api/ws", NewViewSocket(s.config.Hub, s.logger))
		s.mux.HandleFunc("/{$}", s.handleIndex)
	}

	if s.config.Store != nil {
		s.mux.HandleFunc("/api/stats", s.handleStats)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Hub != nil {
		response["frames"] = s.config.Hub.Latest().Seq
	}
	writeJSON(w, response)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.config.Hub.Latest()
	if snap.Seq == 0 {
		http.Error(w, "No frame yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.View)
}

type keyStatJSON struct {
	Label       string    `json:"label"`
	Count       int       `json:"count"`
	LastPressed time.Time `json:"last_pressed"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.config.Store.KeyStats().List()
	if err != nil {
		s.logger.Error("failed to list key stats", "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	keys := make([]keyStatJSON, 0, len(stats))
	total := 0
	for _, st := range stats {
		keys = append(keys, keyStatJSON{Label: st.Label, Count: st.Count, LastPressed: st.LastPressed})
		total += st.Count
	}
	writeJSON(w, map[string]any{"total": total, "keys": keys})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
