// Package db pkg/db/errors.go provides errors for the db package.

package db

import "errors"

var (
	// Core database errors.

	ErrDatabaseError      = errors.New("database error")
	ErrInvalidTransaction = errors.New("invalid transaction type")
	ErrInvalidRows        = errors.New("invalid rows type")
	ErrInvalidResult      = errors.New("invalid result type")

	// Operation errors.

	ErrFailedToBeginTx   = errors.New("failed to begin transaction")
	ErrFailedToScan      = errors.New("failed to scan")
	ErrFailedToQuery     = errors.New("failed to query")
	ErrFailedToInsert    = errors.New("failed to insert")
	ErrFailedToClear     = errors.New("failed to clear records")
	ErrFailedToInit      = errors.New("failed to initialize schema")
	ErrFailedToEnableWAL = errors.New("failed to enable WAL mode")
	ErrFailedOpenDB      = errors.New("failed to open database")

	// Record validation errors.

	ErrNilRecord        = errors.New("record is nil")
	ErrNegativeDuration = errors.New("record duration is negative")
	ErrBadStatusCode    = errors.New("record status code outside HTTP range")
)
