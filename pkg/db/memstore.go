// Package db pkg/db/memstore.go provides an in-memory ring-buffer metric
// store. It backs ephemeral deployments (no db_path configured) and tests.
package db

import (
	"strings"
	"sync"
	"time"

	"github.com/gamehaven/telemetry/pkg/models"
)

// MemStore is a fixed-capacity ring buffer implementing Service. Once full,
// each append overwrites the oldest record, which bounds memory without any
// explicit retention policy.
type MemStore struct {
	mu      sync.RWMutex
	records []models.MetricRecord
	pos     int64
	size    int64
	nextID  int64
}

// NewMemStore creates a MemStore holding at most size records. A size <= 0
// uses the default cap.
func NewMemStore(size int) *MemStore {
	if size <= 0 {
		size = defaultRecentLimit
	}

	return &MemStore{
		records: make([]models.MetricRecord, size),
		size:    int64(size),
	}
}

// AppendRecord stores one record, overwriting the oldest slot when full.
func (m *MemStore) AppendRecord(record *models.MetricRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	record.ID = m.nextID
	m.records[m.pos%m.size] = *record
	m.pos++

	return nil
}

// RecentRecords returns the most recently appended records, newest-first.
func (m *MemStore) RecentRecords(limit int) ([]models.MetricRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	return m.filter(limit, nil), nil
}

// ClearRecords drops everything in the buffer.
func (m *MemStore) ClearRecords() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]models.MetricRecord, m.size)
	m.pos = 0

	return nil
}

// FindByUser returns records for a specific authenticated user, newest-first.
func (m *MemStore) FindByUser(userID string) ([]models.MetricRecord, error) {
	return m.filter(defaultRecentLimit, func(r *models.MetricRecord) bool {
		return r.UserID == userID
	}), nil
}

// FindByRole returns records for a specific session role, newest-first.
func (m *MemStore) FindByRole(role string) ([]models.MetricRecord, error) {
	return m.filter(defaultRecentLimit, func(r *models.MetricRecord) bool {
		return r.UserRole == role
	}), nil
}

// FindByEndpointSubstring returns records whose endpoint contains text, newest-first.
func (m *MemStore) FindByEndpointSubstring(text string) ([]models.MetricRecord, error) {
	return m.filter(defaultRecentLimit, func(r *models.MetricRecord) bool {
		return strings.Contains(r.Endpoint, text)
	}), nil
}

// FindSince returns records written at or after t, oldest-first.
func (m *MemStore) FindSince(t time.Time) ([]models.MetricRecord, error) {
	newestFirst := m.filter(defaultRecentLimit, func(r *models.MetricRecord) bool {
		return !r.Timestamp.Before(t)
	})

	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}

	return newestFirst, nil
}

// Close is a no-op; the buffer has no external resources.
func (*MemStore) Close() error {
	return nil
}

// filter walks the ring newest-first and collects up to limit matches.
func (m *MemStore) filter(limit int, keep func(*models.MetricRecord) bool) []models.MetricRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := m.pos
	if count > m.size {
		count = m.size
	}

	out := make([]models.MetricRecord, 0, count)

	for i := int64(0); i < count && len(out) < limit; i++ {
		idx := (m.pos - i - 1 + m.size) % m.size
		r := m.records[idx]

		if keep == nil || keep(&r) {
			out = append(out, r)
		}
	}

	return out
}
