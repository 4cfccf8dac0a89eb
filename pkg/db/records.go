// Package db pkg/db/records.go implements the metric record operations.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gamehaven/telemetry/pkg/models"
)

const selectRecordColumns = `
        SELECT id, endpoint, method, duration_ms, status_code, timestamp,
               user_id, user_email, user_role, user_agent, ip, memory_usage
        FROM request_metrics`

// AppendRecord stores one metric record. No uniqueness constraint applies;
// the timestamp is set here, at write time, when the caller left it zero.
func (db *DB) AppendRecord(record *models.MetricRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	// Memory snapshot rides along as JSON, like any other optional metadata.
	var memoryJSON sql.NullString

	if record.MemoryUsage != nil {
		data, err := json.Marshal(record.MemoryUsage)
		if err != nil {
			return fmt.Errorf("failed to marshal memory usage: %w", err)
		}

		memoryJSON.String = string(data)
		memoryJSON.Valid = true
	}

	_, err := db.DB.Exec(`
        INSERT INTO request_metrics
            (endpoint, method, duration_ms, status_code, timestamp,
             user_id, user_email, user_role, user_agent, ip, memory_usage)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Endpoint,
		record.Method,
		record.Duration,
		record.StatusCode,
		record.Timestamp,
		nullable(record.UserID),
		nullable(record.UserEmail),
		nullable(record.UserRole),
		nullable(record.UserAgent),
		nullable(record.IP),
		memoryJSON,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// RecentRecords returns the most recently written records, newest-first.
func (db *DB) RecentRecords(limit int) ([]models.MetricRecord, error) {
	if limit <= 0 {
		limit = db.recentLimit
	}

	rows, err := db.Query(selectRecordColumns+`
        ORDER BY timestamp DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer CloseRows(rows)

	return db.scanRecords(rows)
}

// ClearRecords deletes all records. Irreversible.
func (db *DB) ClearRecords() (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("failed to rollback: %v", rbErr)
			}

			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.Exec("DELETE FROM request_metrics"); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToClear, err)
	}

	return err
}

// FindByUser returns records for a specific authenticated user, newest-first.
func (db *DB) FindByUser(userID string) ([]models.MetricRecord, error) {
	return db.findRecords("WHERE user_id = ?", userID)
}

// FindByRole returns records for a specific session role, newest-first.
func (db *DB) FindByRole(role string) ([]models.MetricRecord, error) {
	return db.findRecords("WHERE user_role = ?", role)
}

// FindByEndpointSubstring returns records whose endpoint contains text, newest-first.
func (db *DB) FindByEndpointSubstring(text string) ([]models.MetricRecord, error) {
	return db.findRecords("WHERE endpoint LIKE ?", "%"+text+"%")
}

// FindSince returns records written at or after t, oldest-first.
func (db *DB) FindSince(t time.Time) ([]models.MetricRecord, error) {
	rows, err := db.Query(selectRecordColumns+`
        WHERE timestamp >= ?
        ORDER BY timestamp ASC, id ASC`, t)
	if err != nil {
		return nil, err
	}
	defer CloseRows(rows)

	return db.scanRecords(rows)
}

func (db *DB) findRecords(where string, arg interface{}) ([]models.MetricRecord, error) {
	rows, err := db.Query(selectRecordColumns+"\n        "+where+`
        ORDER BY timestamp DESC, id DESC
        LIMIT ?`, arg, db.recentLimit)
	if err != nil {
		return nil, err
	}
	defer CloseRows(rows)

	return db.scanRecords(rows)
}

// Helper function to scan record rows.
func (db *DB) scanRecords(rows Rows) ([]models.MetricRecord, error) {
	var records []models.MetricRecord

	for rows.Next() {
		var (
			record     models.MetricRecord
			userID     sql.NullString
			userEmail  sql.NullString
			userRole   sql.NullString
			userAgent  sql.NullString
			ip         sql.NullString
			memoryJSON sql.NullString
		)

		err := rows.Scan(
			&record.ID,
			&record.Endpoint,
			&record.Method,
			&record.Duration,
			&record.StatusCode,
			&record.Timestamp,
			&userID,
			&userEmail,
			&userRole,
			&userAgent,
			&ip,
			&memoryJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
		}

		record.UserID = userID.String
		record.UserEmail = userEmail.String
		record.UserRole = userRole.String
		record.UserAgent = userAgent.String
		record.IP = ip.String

		if memoryJSON.Valid {
			var snapshot models.MemorySnapshot
			if err := json.Unmarshal([]byte(memoryJSON.String), &snapshot); err != nil {
				return nil, fmt.Errorf("failed to unmarshal memory usage: %w", err)
			}

			record.MemoryUsage = &snapshot
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

func validateRecord(record *models.MetricRecord) error {
	switch {
	case record == nil:
		return ErrNilRecord
	case record.Duration < 0:
		return ErrNegativeDuration
	case record.StatusCode < 100 || record.StatusCode > 599:
		return ErrBadStatusCode
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
