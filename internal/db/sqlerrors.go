package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrRetriesExceeded is returned when a read is retried more than the
	// allowed number of times without success.
	ErrRetriesExceeded = errors.New("db read retries exceeded")
)

// ErrBusyError is returned when the database file is locked by a concurrent
// writer, typically the generation service committing a run.
type ErrBusyError struct {
	DBError error
}

// Unwrap returns the wrapped error.
func (e *ErrBusyError) Unwrap() error {
	return e.DBError
}

// Error returns the error message.
func (e *ErrBusyError) Error() string {
	return e.DBError.Error()
}

// ErrSchemaError is returned when a table of the read model is missing.
type ErrSchemaError struct {
	DBError error
}

// Unwrap returns the wrapped error.
func (e *ErrSchemaError) Unwrap() error {
	return e.DBError
}

// Error returns the error message.
func (e *ErrSchemaError) Error() string {
	return fmt.Sprintf("schema error: %v", e.DBError)
}

// MapSQLError classifies sqlite errors that callers handle specially. Other
// errors are returned unchanged.
func MapSQLError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return &ErrBusyError{DBError: sqliteErr}

	case sqlite3.ErrError:
		if strings.Contains(sqliteErr.Error(), "no such table") {
			return &ErrSchemaError{DBError: sqliteErr}
		}

		return fmt.Errorf("sqlite error: %w", sqliteErr)

	default:
		return fmt.Errorf("sqlite error: %w", sqliteErr)
	}
}

// IsBusyError returns true if the error is a retryable lock error.
func IsBusyError(err error) bool {
	var busyErr *ErrBusyError
	return errors.As(err, &busyErr)
}

// IsSchemaError returns true if the error reports a missing table.
func IsSchemaError(err error) bool {
	var schemaErr *ErrSchemaError
	return errors.As(err, &schemaErr)
}
