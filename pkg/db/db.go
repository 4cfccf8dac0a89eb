// Package db pkg/db/db.go provides SQLite persistence for request metric records.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// Default cap on records returned by RecentRecords and the filtered reads.
	defaultRecentLimit = 1000

	// SQL statements for database initialization.
	createTablesSQL = `
	-- One row per completed request. Append-only: rows are never updated
	-- and are only removed by the bulk clear.
	CREATE TABLE IF NOT EXISTS request_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		method TEXT NOT NULL,
		duration_ms INTEGER NOT NULL CHECK (duration_ms >= 0),
		status_code INTEGER NOT NULL,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id TEXT,
		user_email TEXT,
		user_role TEXT,
		user_agent TEXT,
		ip TEXT,
		memory_usage TEXT
	);

	-- Indexes for better query performance
	CREATE INDEX IF NOT EXISTS idx_request_metrics_time
		ON request_metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_request_metrics_endpoint
		ON request_metrics(endpoint);
	CREATE INDEX IF NOT EXISTS idx_request_metrics_user
		ON request_metrics(user_id);

	PRAGMA foreign_keys=ON;
	`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
	recentLimit int
}

// New creates a new database connection and initializes the schema.
// recentLimit caps the default read size of RecentRecords and the filtered
// reads; a value <= 0 uses the default.
func New(dbPath string, recentLimit int) (Service, error) {
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{DB: sqlDB, recentLimit: recentLimit}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.DB.Exec(createTablesSQL)

	return err
}

// Begin starts a transaction wrapped in the Transaction interface.
func (db *DB) Begin() (Transaction, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	return ToTransaction(tx), nil
}

// Query runs a query and wraps the result in the Rows interface.
func (db *DB) Query(query string, args ...interface{}) (Rows, error) {
	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return &SQLRows{rows}, nil
}

// QueryRow runs a single-row query wrapped in the Row interface.
func (db *DB) QueryRow(query string, args ...interface{}) Row {
	return &SQLRow{db.DB.QueryRow(query, args...)}
}

// Close closes the underlying database.
func (db *DB) Close() error {
	return db.DB.Close()
}
