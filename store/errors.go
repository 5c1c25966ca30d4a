package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain errors surfaced by the store layer. Handlers map these onto the
// HTTP error taxonomy; anything else is an unexpected store failure.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateFolio = errors.New("folio number already exists in this book")
	ErrDuplicatePhone = errors.New("phone number already exists for another customer")
	ErrDuplicateUser  = errors.New("user with this name already exists")
	ErrBookHasBills   = errors.New("cannot delete book with existing bills")
	ErrInvalidAmount  = errors.New("payment amount must be greater than zero")
)

// isUniqueViolation reports whether err is a unique-constraint violation from
// the underlying database. Postgres reports SQLSTATE 23505; sqlite (used in
// tests) only exposes the violation through its error text.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
