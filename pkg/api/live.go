// Package api pkg/api/live.go streams summaries to the admin dashboard.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gamehaven/telemetry/pkg/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// CORS is already handled at the router level.
	CheckOrigin: func(*http.Request) bool { return true },
}

// liveMetrics upgrades to a websocket and pushes the 5m summary on an
// interval until the client goes away.
func (s *APIServer) liveMetrics(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("failed to close websocket: %v", err)
		}
	}()

	// Reader goroutine: we never expect client frames, but reading is the
	// only way to notice the peer closing.
	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.liveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			summary, err := s.aggregator.Report(telemetry.Timeframe5m, "")
			if err != nil {
				log.Printf("failed to build live summary: %v", err)
				continue
			}

			if err := conn.WriteJSON(summary); err != nil {
				return
			}
		}
	}
}
