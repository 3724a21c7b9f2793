package repository

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is matched by every DBError raised for a missing row.
var ErrNotFound = errors.New("item not found")

// Operation names used in DBError messages.
const (
	opCreate = "creating the item"
	opRead   = "reading the item"
	opUpdate = "updating the item"
	opDelete = "deleting the item"
	opList   = "retrieving items"
)

// DBError is a persistence-layer failure. It carries the same
// message/status/detail triple the service layer re-signals to clients.
type DBError struct {
	Message    string
	StatusCode int
	Details    string
	Err        error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// NotFound builds the error returned when no row has the given id.
func NotFound(id int) *DBError {
	return &DBError{
		Message:    "Item not found",
		StatusCode: http.StatusNotFound,
		Details:    fmt.Sprintf("Item with ID %d not found", id),
		Err:        ErrNotFound,
	}
}

// storageError classifies a driver error raised while performing op.
// Integrity constraint violations (SQLSTATE class 23) are the caller's fault
// and map to 400; everything else is a 500.
func storageError(op string, err error) *DBError {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr
	}

	status := http.StatusInternalServerError
	details := err.Error()

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		details = pgErr.Message
		if pgErr.Detail != "" {
			details += ": " + pgErr.Detail
		}
		if strings.HasPrefix(pgErr.Code, "23") {
			status = http.StatusBadRequest
		}
	}

	return &DBError{
		Message:    "Error while " + op,
		StatusCode: status,
		Details:    details,
		Err:        err,
	}
}
