// Package models pkg/models/summary.go
package models

import "time"

// EndpointStats aggregates records sharing a (method, endpoint) pair. The
// identity and IP fields carry a single representative record's values; the
// representative is the most recent matching record (last-seen wins over
// oldest-first iteration).
type EndpointStats struct {
	Endpoint        string  `json:"endpoint"`
	Method          string  `json:"method"`
	RequestCount    int     `json:"requestCount"`
	AverageDuration float64 `json:"averageDuration"`
	ErrorRate       float64 `json:"errorRate"`
	UserID          string  `json:"userId,omitempty"`
	UserEmail       string  `json:"userEmail,omitempty"`
	UserRole        string  `json:"userRole,omitempty"`
	IP              string  `json:"ip,omitempty"`
}

// TimeBucket is one fixed-width sub-interval of a timeframe.
type TimeBucket struct {
	Start           time.Time `json:"start"`
	RequestCount    int       `json:"requestCount"`
	AverageDuration float64   `json:"averageDuration"`
	ErrorCount      int       `json:"errorCount"`
}

// MemoryStats is a snapshot of current process memory, taken at report time.
// It is independent of the filtered record set.
type MemoryStats struct {
	UsedBytes   uint64  `json:"usedBytes"`
	TotalBytes  uint64  `json:"totalBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

// PerformanceSummary is the aggregator's output for one timeframe.
type PerformanceSummary struct {
	TotalRequests       int             `json:"totalRequests"`
	AverageResponseTime float64         `json:"averageResponseTime"` // ms
	SlowestRequests     []MetricRecord  `json:"slowestRequests"`
	ErrorRate           float64         `json:"errorRate"` // percent, 0-100
	P50LatencyMs        float64         `json:"p50LatencyMs"`
	P90LatencyMs        float64         `json:"p90LatencyMs"`
	P99LatencyMs        float64         `json:"p99LatencyMs"`
	EndpointStats       []EndpointStats `json:"endpointStats"`
	TimeSeriesData      []TimeBucket    `json:"timeSeriesData"`
	MemoryStats         MemoryStats     `json:"memoryStats"`
	LastUpdated         time.Time       `json:"lastUpdated"`
}
