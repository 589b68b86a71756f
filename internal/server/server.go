// Package server exposes the rendered feature table and the
// missing-one-implementation metrics over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"

	"github.com/webkattle/wft/internal/store"
)

// Config holds the server's runtime options.
type Config struct {
	Addr          string
	WatchInterval time.Duration
}

// Server serves the table API on a plain ServeMux.
type Server struct {
	cfg      Config
	logger   logr.Logger
	catalog  *store.Store
	upgrader websocket.Upgrader

	httpServer *http.Server
}

// New builds a server around an open catalog store.
func New(cfg Config, catalog *store.Store, logger logr.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 3 * time.Second
	}
	mux := http.NewServeMux()
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	s.routes(mux)
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/table", s.handleTable)
	mux.HandleFunc("/api/watch", s.handleWatch)
	mux.HandleFunc("/v1/browsers/", s.handleBrowserMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("serving feature table", "addr", ln.Addr().String())
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
