// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Unique and foreign-key violations are surfaced as typed errors carrying the
// constraint name, so services can translate a lost race on a unique index
// into the same field-level message their pre-checks produce.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// UniqueViolation reports a write rejected by a unique index or constraint.
type UniqueViolation struct {
	Constraint string
	Cause      error
}

func (e *UniqueViolation) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *UniqueViolation) Unwrap() error { return e.Cause }

// ForeignKeyViolation reports a write referencing a row that does not exist.
type ForeignKeyViolation struct {
	Constraint string
	Cause      error
}

func (e *ForeignKeyViolation) Error() string {
	return fmt.Sprintf("foreign key constraint %q violated", e.Constraint)
}

func (e *ForeignKeyViolation) Unwrap() error { return e.Cause }

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows becomes a NOT_FOUND [apperr.AppError] naming resource.
//   - Unique and foreign-key violations become [*UniqueViolation] and
//     [*ForeignKeyViolation] for the service layer to translate.
//   - Anything else becomes an Internal error that hides the cause from clients.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Constraint violations keep their constraint name
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return &UniqueViolation{Constraint: pgError.ConstraintName, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return &ForeignKeyViolation{Constraint: pgError.ConstraintName, Cause: err}
		}
	}

	// 3. Already classified errors pass through
	if apperr.IsAppError(err) {
		return err
	}

	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a unique violation of constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var violation *UniqueViolation
	if !errors.As(err, &violation) {
		return false
	}
	return constraint == "" || violation.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	var violation *ForeignKeyViolation
	return errors.As(err, &violation)
}
