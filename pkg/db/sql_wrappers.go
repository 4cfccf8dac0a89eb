// Package db pkg/db/sql_wrappers.go provides wrappers for the sql package to
// implement the interfaces defined in pkg/db/interfaces.go. This decouples the
// store's callers (and their tests) from the concrete sql types: SQLRow,
// SQLRows, SQLResult, and SQLTx wrap sql.Row, sql.Rows, sql.Result, and sql.Tx
// to implement the Row, Rows, Result, and Transaction interfaces.
package db

import (
	"database/sql"
	"log"
)

// SQLRow wraps sql.Row to implement Row interface.
type SQLRow struct {
	*sql.Row
}

// SQLRows wraps sql.Rows to implement Rows interface.
type SQLRows struct {
	*sql.Rows
}

// SQLResult wraps sql.Result to implement Result interface.
type SQLResult struct {
	sql.Result
}

// SQLTx wraps sql.Tx to implement Transaction interface.
type SQLTx struct {
	*sql.Tx
}

func (tx *SQLTx) Exec(query string, args ...interface{}) (Result, error) {
	result, err := tx.Tx.Exec(query, args...)
	if err != nil {
		return nil, err
	}

	return &SQLResult{result}, nil
}

func (tx *SQLTx) Query(query string, args ...interface{}) (Rows, error) {
	rows, err := tx.Tx.Query(query, args...)
	if err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &SQLRows{rows}, nil
}

func (tx *SQLTx) QueryRow(query string, args ...interface{}) Row {
	return &SQLRow{tx.Tx.QueryRow(query, args...)}
}

// ToTransaction wraps a concrete sql.Tx in the Transaction interface.
func ToTransaction(tx *sql.Tx) Transaction {
	return &SQLTx{tx}
}

// ToResult wraps a concrete sql.Result in the Result interface.
func ToResult(result sql.Result) Result {
	return &SQLResult{result}
}

// FromTransaction converts back to the concrete sql.Tx when needed.
func FromTransaction(tx Transaction) (*sql.Tx, error) {
	sqlTx, ok := tx.(*SQLTx)
	if !ok {
		return nil, ErrInvalidTransaction
	}

	return sqlTx.Tx, nil
}

// FromRows converts back to the concrete sql.Rows when needed.
func FromRows(rows Rows) (*sql.Rows, error) {
	sqlRows, ok := rows.(*SQLRows)
	if !ok {
		return nil, ErrInvalidRows
	}

	return sqlRows.Rows, nil
}

// CloseRows safely closes a Rows type and logs any error.
func CloseRows(rows Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("failed to close rows: %v", err)
	}
}
