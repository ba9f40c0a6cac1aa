package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Typed failures returned by the stores. Anything else is an infrastructure
// fault and should be reported to clients as an internal error.
var (
	// ErrInvalidInput indicates a required value is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateNickname indicates the nickname is already registered.
	ErrDuplicateNickname = errors.New("nickname already exists")

	// ErrInvalidCredentials covers both an unknown nickname and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnknownReference indicates a usuario_id or carrera_id that matches no row.
	ErrUnknownReference = errors.New("referenced record does not exist")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

// isUniqueViolation reports whether err comes from a unique constraint.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// isForeignKeyViolation reports whether err comes from a foreign key constraint.
func isForeignKeyViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// referenceError maps foreign key violations to ErrUnknownReference and wraps
// everything else with the failed action.
func referenceError(action string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", action, ErrUnknownReference, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
