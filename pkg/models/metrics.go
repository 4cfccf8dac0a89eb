// Package models pkg/models/metrics.go
package models

import "time"

// MetricRecord is one stored observation of a single request's timing and
// outcome. Records are immutable once written and are never linked to each
// other; aggregation is purely statistical over the flat collection.
type MetricRecord struct {
	ID          int64           `json:"id,omitempty"`
	Endpoint    string          `json:"endpoint"` // request path plus query string
	Method      string          `json:"method"`
	Duration    int64           `json:"duration"` // milliseconds, >= 0
	StatusCode  int             `json:"statusCode"`
	Timestamp   time.Time       `json:"timestamp"` // set at write time
	UserID      string          `json:"userId,omitempty"`
	UserEmail   string          `json:"userEmail,omitempty"`
	UserRole    string          `json:"userRole,omitempty"`
	UserAgent   string          `json:"userAgent,omitempty"`
	IP          string          `json:"ip,omitempty"`
	MemoryUsage *MemorySnapshot `json:"memoryUsage,omitempty"`
}

// IsError reports whether the record represents a failed request.
func (r *MetricRecord) IsError() bool {
	return r.StatusCode >= 400
}

// MemorySnapshot captures process memory counters at record-write time.
type MemorySnapshot struct {
	HeapAllocBytes uint64 `json:"heapAllocBytes"`
	SysBytes       uint64 `json:"sysBytes"`
	NumGC          uint32 `json:"numGC"`
}

// CollectorConfig controls the collector middleware. The zero value
// collects: measurement is on unless explicitly disabled.
type CollectorConfig struct {
	Disabled   bool   `json:"disabled,omitempty"`
	SkipPrefix string `json:"skip_prefix"` // paths excluded from measurement
}
