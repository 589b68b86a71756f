package server

import (
	"net/http"
	"time"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// handleWatch streams a freshly rendered table to the client whenever the
// catalog content changes, detected by polling the catalog hash.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err, "upgrade watch websocket")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.WatchInterval)
	defer ticker.Stop()
	lastHash := ""
	for {
		hash, err := s.catalog.ContentHash(ctx)
		if err != nil {
			s.logger.Error(err, "hash catalog for watch")
			return
		}
		if hash != lastHash {
			resp, err := s.renderTable(ctx, r.URL)
			if err != nil {
				s.logger.Error(err, "render table for watch")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
			lastHash = hash
		}
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
