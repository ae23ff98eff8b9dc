package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"montage/internal/config"
	"montage/internal/history"
	"montage/internal/logging"
)

// NewServer creates and configures the HTTP server for the montage JSON API.
// The API is an inspection and control surface for the same project the MCP
// server and CLI edit: it shares their database and history manager.
func NewServer(database *sql.DB, cfg *config.Config, mgr *history.Manager, version, bind string, port int) *http.Server {
	h := &Handlers{
		db:      database,
		cfg:     cfg,
		mgr:     mgr,
		version: version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", h.HandleRoot)
	mux.HandleFunc("GET /status", h.HandleStatus)

	mux.HandleFunc("GET /tracks", h.HandleListTracks)
	mux.HandleFunc("POST /tracks", h.HandleAddTrack)
	mux.HandleFunc("DELETE /tracks/{id}", h.HandleDeleteTrack)
	mux.HandleFunc("GET /tracks/{id}/overlapping", h.HandleOverlapping)

	mux.HandleFunc("GET /clips", h.HandleListClips)
	mux.HandleFunc("POST /clips", h.HandleAddClip)
	mux.HandleFunc("GET /clips/{id}", h.HandleGetClip)
	mux.HandleFunc("PATCH /clips/{id}", h.HandleUpdateClip)
	mux.HandleFunc("DELETE /clips/{id}", h.HandleDeleteClip)
	mux.HandleFunc("POST /clips/{id}/move", h.HandleMoveClip)
	mux.HandleFunc("POST /clips/{id}/resize", h.HandleResizeClip)
	mux.HandleFunc("POST /clips/{id}/split", h.HandleSplitClip)
	mux.HandleFunc("POST /clips/{id}/ripple", h.HandleRippleMove)
	mux.HandleFunc("GET /clips/{id}/preview", h.HandlePreviewDrag)

	mux.HandleFunc("POST /undo", h.HandleUndo)
	mux.HandleFunc("POST /redo", h.HandleRedo)
	mux.HandleFunc("GET /history", h.HandleHistory)
	mux.HandleFunc("DELETE /history", h.HandleClearHistory)

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	log := logging.WithComponent("http")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", srv.Addr).Msg("montage API listening")

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn().Msg("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
