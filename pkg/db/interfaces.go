// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/gamehaven/telemetry/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/gamehaven/telemetry/pkg/db Service

// Row represents a database row.
type Row interface {
	Scan(dest ...interface{}) error
}

// Result represents the result of a database operation.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Rows represents multiple database rows.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Transaction represents operations that can be performed within a database transaction.
type Transaction interface {
	Exec(query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (Rows, error)
	QueryRow(query string, args ...interface{}) Row
	Commit() error
	Rollback() error
}

// Service represents the metric store operations. Records are append-only:
// there is no update path, and the only delete is the bulk clear.
type Service interface {
	// AppendRecord stores one metric record. The record's timestamp is set
	// at write time when zero.
	AppendRecord(record *models.MetricRecord) error

	// RecentRecords returns the most recently written records, newest-first.
	// A limit <= 0 applies the default cap.
	RecentRecords(limit int) ([]models.MetricRecord, error)

	// ClearRecords deletes all records. Irreversible.
	ClearRecords() error

	// Filtered reads for aggregation and ad-hoc diagnostics.

	FindByUser(userID string) ([]models.MetricRecord, error)
	FindByRole(role string) ([]models.MetricRecord, error)
	FindByEndpointSubstring(text string) ([]models.MetricRecord, error)
	FindSince(t time.Time) ([]models.MetricRecord, error)

	Close() error
}
