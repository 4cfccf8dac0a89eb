// Package telemetry pkg/telemetry/aggregator.go turns a window of metric
// records into summary statistics. Aggregation is a pure read: given the same
// store contents and the same clock instant, it always produces the same
// summary.
package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/gamehaven/telemetry/pkg/db"
	"github.com/gamehaven/telemetry/pkg/models"
)

// Timeframe is one of a fixed set of lookback windows ending "now".
type Timeframe string

const (
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1h  Timeframe = "1h"
	Timeframe24h Timeframe = "24h"
	Timeframe7d  Timeframe = "7d"

	DefaultTimeframe = Timeframe1h

	slowestRequestCount = 10

	// Histogram bounds: 1ms to 1h, 3 significant figures.
	histogramMinMs = 1
	histogramMaxMs = 3_600_000

	defaultRecentLimit = 1000
)

// ParseTimeframe maps a query-string value onto the enumerated set, falling
// back to the default on anything unrecognized.
func ParseTimeframe(s string) Timeframe {
	switch tf := Timeframe(s); tf {
	case Timeframe5m, Timeframe15m, Timeframe1h, Timeframe24h, Timeframe7d:
		return tf
	default:
		return DefaultTimeframe
	}
}

// Window returns the lookback duration of the timeframe.
func (tf Timeframe) Window() time.Duration {
	switch tf {
	case Timeframe5m:
		return 5 * time.Minute
	case Timeframe15m:
		return 15 * time.Minute
	case Timeframe24h:
		return 24 * time.Hour
	case Timeframe7d:
		return 7 * 24 * time.Hour
	case Timeframe1h:
		return time.Hour
	default:
		return time.Hour
	}
}

// BucketWidth returns the fixed sub-interval used for the time series.
func (tf Timeframe) BucketWidth() time.Duration {
	switch tf {
	case Timeframe5m:
		return 30 * time.Second
	case Timeframe15m:
		return time.Minute
	case Timeframe24h:
		return time.Hour
	case Timeframe7d:
		return 6 * time.Hour
	case Timeframe1h:
		return 5 * time.Minute
	default:
		return 5 * time.Minute
	}
}

// Aggregator computes performance summaries from the metric store.
type Aggregator struct {
	store       db.Service
	recentLimit int
	now         func() time.Time
}

// NewAggregator creates an aggregator reading from store. recentLimit bounds
// how many records each report considers; a value <= 0 uses the default.
func NewAggregator(store db.Service, recentLimit int) (*Aggregator, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}

	return &Aggregator{
		store:       store,
		recentLimit: recentLimit,
		now:         time.Now,
	}, nil
}

// Report reads the most recent records and summarizes those inside the
// timeframe's window, optionally restricted to endpoints containing
// endpointFilter. The memory stats are a point-in-time process snapshot,
// independent of the record set.
func (a *Aggregator) Report(tf Timeframe, endpointFilter string) (*models.PerformanceSummary, error) {
	records, err := a.store.RecentRecords(a.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	summary := summarize(records, a.now(), tf, endpointFilter)
	summary.MemoryStats = ReadMemoryStats()

	return summary, nil
}

// endpointKey groups records by method and endpoint.
type endpointKey struct {
	method   string
	endpoint string
}

// summarize is the pure aggregation core. records arrive newest-first (the
// store's Recent order); grouping iterates them oldest-first so that the
// representative identity on each endpoint group is overwritten last by the
// most recent matching record (last-seen wins).
func summarize(records []models.MetricRecord, now time.Time, tf Timeframe, endpointFilter string) *models.PerformanceSummary {
	window := tf.Window()

	var filtered []models.MetricRecord

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		// The window is [now-window, now]: records stamped after now
		// (clock skew, backdated imports) are excluded, keeping the
		// summary a strict lookback.
		if now.Sub(r.Timestamp) > window || now.Sub(r.Timestamp) < 0 {
			continue
		}

		if endpointFilter != "" && !strings.Contains(r.Endpoint, endpointFilter) {
			continue
		}

		filtered = append(filtered, r)
	}

	summary := &models.PerformanceSummary{
		TotalRequests:   len(filtered),
		SlowestRequests: []models.MetricRecord{},
		EndpointStats:   []models.EndpointStats{},
		TimeSeriesData:  []models.TimeBucket{},
		LastUpdated:     now,
	}

	if len(filtered) == 0 {
		return summary
	}

	summary.AverageResponseTime = averageDuration(filtered)
	summary.ErrorRate = errorRate(filtered)
	summary.SlowestRequests = slowestRequests(filtered)
	summary.EndpointStats = endpointStats(filtered)
	summary.TimeSeriesData = timeSeries(filtered, tf.BucketWidth())

	p50, p90, p99 := latencyPercentiles(filtered)
	summary.P50LatencyMs = p50
	summary.P90LatencyMs = p90
	summary.P99LatencyMs = p99

	return summary
}

func averageDuration(records []models.MetricRecord) float64 {
	var sum int64
	for i := range records {
		sum += records[i].Duration
	}

	return float64(sum) / float64(len(records))
}

func errorRate(records []models.MetricRecord) float64 {
	var errs int

	for i := range records {
		if records[i].IsError() {
			errs++
		}
	}

	return float64(errs) / float64(len(records)) * 100
}

func slowestRequests(records []models.MetricRecord) []models.MetricRecord {
	sorted := make([]models.MetricRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Duration > sorted[j].Duration
	})

	if len(sorted) > slowestRequestCount {
		sorted = sorted[:slowestRequestCount]
	}

	return sorted
}

// endpointStats groups by (method, endpoint). Output order is request count
// descending, then method and endpoint, so repeated runs are identical.
func endpointStats(records []models.MetricRecord) []models.EndpointStats {
	type group struct {
		stat   models.EndpointStats
		sum    int64
		errors int
	}

	groups := make(map[endpointKey]*group)

	for i := range records {
		r := &records[i]
		key := endpointKey{method: r.Method, endpoint: r.Endpoint}

		g, ok := groups[key]
		if !ok {
			g = &group{stat: models.EndpointStats{Endpoint: r.Endpoint, Method: r.Method}}
			groups[key] = g
		}

		g.stat.RequestCount++
		g.sum += r.Duration

		if r.IsError() {
			g.errors++
		}

		// Representative identity: overwritten on every match, so the most
		// recent record wins under the oldest-first iteration order.
		g.stat.UserID = r.UserID
		g.stat.UserEmail = r.UserEmail
		g.stat.UserRole = r.UserRole
		g.stat.IP = r.IP
	}

	stats := make([]models.EndpointStats, 0, len(groups))

	for _, g := range groups {
		g.stat.AverageDuration = float64(g.sum) / float64(g.stat.RequestCount)
		g.stat.ErrorRate = float64(g.errors) / float64(g.stat.RequestCount) * 100
		stats = append(stats, g.stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}

		if stats[i].Method != stats[j].Method {
			return stats[i].Method < stats[j].Method
		}

		return stats[i].Endpoint < stats[j].Endpoint
	})

	return stats
}

// timeSeries buckets records into fixed-width windows. Bucket start is the
// timestamp floored to the width, ascending.
func timeSeries(records []models.MetricRecord, width time.Duration) []models.TimeBucket {
	type bucket struct {
		count  int
		sum    int64
		errors int
	}

	widthMs := width.Milliseconds()
	buckets := make(map[int64]*bucket)

	for i := range records {
		r := &records[i]
		start := (r.Timestamp.UnixMilli() / widthMs) * widthMs

		b, ok := buckets[start]
		if !ok {
			b = &bucket{}
			buckets[start] = b
		}

		b.count++
		b.sum += r.Duration

		if r.IsError() {
			b.errors++
		}
	}

	starts := make([]int64, 0, len(buckets))
	for start := range buckets {
		starts = append(starts, start)
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	series := make([]models.TimeBucket, 0, len(starts))

	for _, start := range starts {
		b := buckets[start]
		series = append(series, models.TimeBucket{
			Start:           time.UnixMilli(start).UTC(),
			RequestCount:    b.count,
			AverageDuration: float64(b.sum) / float64(b.count),
			ErrorCount:      b.errors,
		})
	}

	return series
}

func latencyPercentiles(records []models.MetricRecord) (p50, p90, p99 float64) {
	hist := hdrhistogram.New(histogramMinMs, histogramMaxMs, 3)

	for i := range records {
		ms := records[i].Duration
		if ms < hist.LowestTrackableValue() {
			ms = hist.LowestTrackableValue()
		}

		if ms > hist.HighestTrackableValue() {
			ms = hist.HighestTrackableValue()
		}

		_ = hist.RecordValue(ms)
	}

	if hist.TotalCount() == 0 {
		return 0, 0, 0
	}

	return float64(hist.ValueAtQuantile(50)),
		float64(hist.ValueAtQuantile(90)),
		float64(hist.ValueAtQuantile(99))
}
