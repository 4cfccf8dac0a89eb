// Package api pkg/api/server.go exposes the performance reporting surface.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gamehaven/telemetry/pkg/db"
	httpx "github.com/gamehaven/telemetry/pkg/http"
	"github.com/gamehaven/telemetry/pkg/telemetry"
)

const defaultLiveInterval = 5 * time.Second

// APIServer serves the performance summary, diagnostics reads, and the
// administrative clear operation.
type APIServer struct {
	store        db.Service
	aggregator   *telemetry.Aggregator
	router       *mux.Router
	apiKey       string
	liveInterval time.Duration
}

// NewAPIServer builds the server. apiKey, when non-empty, is accepted as a
// bearer token alternative to an admin session on the reporting routes.
// liveInterval is the push cadence of the live summary stream; a value <= 0
// uses the default.
func NewAPIServer(store db.Service, aggregator *telemetry.Aggregator, apiKey string, liveInterval time.Duration) *APIServer {
	if liveInterval <= 0 {
		liveInterval = defaultLiveInterval
	}

	s := &APIServer{
		store:        store,
		aggregator:   aggregator,
		router:       mux.NewRouter(),
		apiKey:       apiKey,
		liveInterval: liveInterval,
	}
	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware)

	// All reporting surfaces are admin-only.
	perf := s.router.PathPrefix("/api/performance").Subrouter()
	perf.Use(s.requireAdmin)
	perf.HandleFunc("", s.getPerformance).Methods("GET")
	perf.HandleFunc("/clear", s.clearPerformance).Methods("DELETE")
	perf.HandleFunc("/records", s.getRecords).Methods("GET")
	perf.HandleFunc("/live", s.liveMetrics).Methods("GET")
}

// Router returns the handler tree, for embedding under other middleware.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Start serves the API on addr. Use lifecycle.RunServer for graceful shutdown.
func (s *APIServer) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *APIServer) getPerformance(w http.ResponseWriter, r *http.Request) {
	timeframe := telemetry.ParseTimeframe(r.URL.Query().Get("timeframe"))
	endpointFilter := r.URL.Query().Get("endpoint")

	summary, err := s.aggregator.Report(timeframe, endpointFilter)
	if err != nil {
		// Detail stays in the log; the client gets a generic body.
		log.Printf("failed to build performance summary: %v", err)
		writeError(w, http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *APIServer) clearPerformance(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.ClearRecords(); err != nil {
		log.Printf("failed to clear metric records: %v", err)
		writeError(w, http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "performance metrics cleared",
	})
}

// getRecords serves ad-hoc diagnostics over the store's filtered reads.
// Filters apply one at a time: user, then role, then endpoint, then since.
func (s *APIServer) getRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		records interface{}
		err     error
	)

	switch {
	case q.Get("user") != "":
		records, err = s.store.FindByUser(q.Get("user"))
	case q.Get("role") != "":
		records, err = s.store.FindByRole(q.Get("role"))
	case q.Get("endpoint") != "":
		records, err = s.store.FindByEndpointSubstring(q.Get("endpoint"))
	case q.Get("since") != "":
		var since time.Time

		since, err = time.Parse(time.RFC3339, q.Get("since"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "since must be RFC3339",
			})

			return
		}

		records, err = s.store.FindSince(since)
	default:
		records, err = s.store.RecentRecords(0)
	}

	if err != nil {
		log.Printf("failed to read metric records: %v", err)
		writeError(w, http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]string{
		"error": http.StatusText(status),
	})
}
