package orders

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrConflict surfaces a reservation race the storage engine resolved
	// against the caller (SQLSTATE 40001). Retryable from the client side.
	ErrConflict = errors.New("concurrent reservation conflict")
)

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
