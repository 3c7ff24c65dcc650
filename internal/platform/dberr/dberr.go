// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Taxonomy
//
// Three storage outcomes matter to the domain layer and must never be
// confused with one another:
//
//   - a row that does not exist (pgx.ErrNoRows -> NOT_FOUND)
//   - a write that lost a uniqueness race (SQLSTATE 23505 -> CONFLICT)
//   - a store that is unreachable or broken (anything else -> INTERNAL)
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phambinh/cropsight/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique constraint violations become client-visible conflicts
	if IsUniqueViolation(err) {
		return apperr.Conflict("A record with this value already exists")
	}

	// 3. Unknown query errors become Internal Server Errors (store unavailable)
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
//
// The identity resolver relies on this to detect that a concurrent request
// inserted the same email or phone first, and to fall back to its update branch.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ConstraintName returns the name of the violated constraint, or "" when err
// is not a constraint violation. Used for logging, never exposed to clients.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
