package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
)

// PostgreSQL error codes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInsufficientPrivs   = "42501"
)

// MapError translates a driver error into the repository error taxonomy:
// Conflict for constraint violations, Database for everything else.
//
// A 42501 (insufficient privilege) from a row-security check deliberately
// maps to NotFound: a write rejected by policy must read like the row does
// not exist, same as a filtered SELECT.
func MapError(entity string, entityID any, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewDuplicate(entity, pgErr.ConstraintName).WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewConflict("related record constraint violated").
				WithDetail("entity", entity).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation("record violates a data constraint").
				WithDetail("entity", entity).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgInsufficientPrivs:
			return apperror.NewNotFound(entity, entityID).WithCause(err)
		}
	}

	return apperror.NewDatabase(err).WithDetail("entity", entity)
}
