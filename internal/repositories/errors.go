package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError wraps unexpected driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// Unique constraint names declared in schema.sql.
const (
	ConstraintAccountUsername = "usuarios_username_key"
	ConstraintAccountEmail    = "usuarios_email_key"
	ConstraintClientEmail     = "clientes_correo_key"
)

// DuplicateKeyError carries the violated constraint. It matches ErrDuplicateKey with errors.Is.
type DuplicateKeyError struct {
	Constraint string
	Message    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s (constraint: %s)", ErrDuplicateKey, e.Message, e.Constraint)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// SQLExecutor is satisfied by *sql.DB and *sql.Tx so repository writes can join a transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// wrapWriteError turns a unique_violation into a *DuplicateKeyError and everything else into ErrDatabaseError.
func wrapWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return &DuplicateKeyError{Constraint: pqErr.Constraint, Message: pqErr.Message}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}
