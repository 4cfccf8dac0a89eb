// Package telemetry pkg/telemetry/middleware.go implements the collector
// middleware: it times every wrapped handler invocation and appends one
// metric record per request to the store, as a fire-and-forget side channel.
package telemetry

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gamehaven/telemetry/pkg/db"
	"github.com/gamehaven/telemetry/pkg/models"
)

// DefaultSkipPrefix excludes the reporting surface from its own measurements.
const DefaultSkipPrefix = "/api/performance"

// Collector wraps request handlers so that every invocation is timed and
// recorded without the wrapped handler knowing about telemetry.
type Collector struct {
	store  db.Service
	config models.CollectorConfig
	wg     sync.WaitGroup
}

// NewCollector creates a collector writing to store.
func NewCollector(store db.Service, cfg models.CollectorConfig) (*Collector, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if cfg.SkipPrefix == "" {
		cfg.SkipPrefix = DefaultSkipPrefix
	}

	return &Collector{store: store, config: cfg}, nil
}

// Middleware wraps next with measurement. Requests under the skip prefix pass
// through unmeasured to avoid the reporting endpoint measuring itself.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.config.Disabled || strings.HasPrefix(r.URL.Path, c.config.SkipPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			status := rec.Status()

			if v := recover(); v != nil {
				// The caller gets a generic 500; the panic detail stays in
				// the local log only.
				log.Printf("panic in handler %s %s: %v", r.Method, r.URL.Path, v)

				status = http.StatusInternalServerError
				if !rec.wrote {
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}

			c.record(r, status, time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}

// WrapFunc measures a single handler function. Collection is opt-in per
// handler; anything not wrapped is not measured.
func (c *Collector) WrapFunc(h http.HandlerFunc) http.HandlerFunc {
	return c.Middleware(h).ServeHTTP
}

// Flush waits for in-flight record appends. Call during shutdown so the last
// few records are not lost with the process.
func (c *Collector) Flush() {
	c.wg.Wait()
}

// record builds the metric record and appends it on a detached goroutine.
// A store failure is logged and swallowed; the response has already been
// handed to the transport and must not be affected.
func (c *Collector) record(r *http.Request, status int, elapsed time.Duration) {
	record := &models.MetricRecord{
		Endpoint:    endpointOf(r),
		Method:      r.Method,
		Duration:    elapsed.Milliseconds(),
		StatusCode:  status,
		UserAgent:   r.UserAgent(),
		IP:          clientIP(r),
		MemoryUsage: memorySnapshot(),
	}

	if sess := SessionFromRequest(r); sess != nil {
		record.UserID = sess.UserID
		record.UserEmail = sess.Email
		record.UserRole = sess.Role
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.store.AppendRecord(record); err != nil {
			log.Printf("failed to append metric record for %s %s: %v",
				record.Method, record.Endpoint, err)
		}
	}()
}

// endpointOf returns the request path plus query string.
func endpointOf(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return r.URL.Path
	}

	return r.URL.Path + "?" + r.URL.RawQuery
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// transport peer address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}

		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// No port in the peer address; report it as-is.
		return r.RemoteAddr
	}

	return host
}

// statusRecorder captures the status code ultimately written to the client.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	if !rec.wrote {
		rec.status = status
		rec.wrote = true
	}

	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if !rec.wrote {
		rec.status = http.StatusOK
		rec.wrote = true
	}

	return rec.ResponseWriter.Write(b)
}

// Status returns the recorded status, defaulting to 200 when the handler
// never wrote an explicit one.
func (rec *statusRecorder) Status() int {
	if !rec.wrote {
		return http.StatusOK
	}

	return rec.status
}
