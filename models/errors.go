package models

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrAlreadyApplied     = errors.New("already applied")
	ErrNotEligible        = errors.New("only individual users can apply")
	ErrInFlight           = errors.New("request already in progress")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises a unique constraint failure from any of the
// supported SQL drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// primary result code when extended codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
