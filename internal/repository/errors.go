// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// translateError converts storage-level failures into application
// errors. Unique-constraint violations become Conflict so a
// race-condition duplicate never leaks as a raw storage error.
func translateError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		return models.NewConflictError(conflictMsg)
	}
	return models.NewInternalError(err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// SQLite (used by the test suite) reports constraint violations textually.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
