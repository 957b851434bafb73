package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "buildings_pkey"},
			wantCode: apperror.CodeDuplicate,
		},
		{
			name:     "foreign key violation",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "units_building_id_fkey"},
			wantCode: apperror.CodeConflict,
		},
		{
			name:     "check violation",
			err:      &pgconn.PgError{Code: "23514"},
			wantCode: apperror.CodeValidation,
		},
		{
			name:     "insufficient privilege reads as not found",
			err:      &pgconn.PgError{Code: "42501"},
			wantCode: apperror.CodeNotFound,
		},
		{
			name:     "anything else is a database error",
			err:      errors.New("connection reset"),
			wantCode: apperror.CodeDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError("buildings", "some-id", tt.err)
			appErr, ok := apperror.AsAppError(mapped)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError("buildings", nil, nil))
}

// A policy rejection must be indistinguishable from a missing row.
func TestMapErrorPolicyRejectionMatchesNotFound(t *testing.T) {
	policyErr := MapError("work_orders", "w1", &pgconn.PgError{Code: "42501"})
	absentErr := apperror.NewNotFound("work_orders", "w1")

	gotPolicy, _ := apperror.AsAppError(policyErr)
	gotAbsent, _ := apperror.AsAppError(absentErr)

	assert.Equal(t, gotAbsent.Code, gotPolicy.Code)
	assert.Equal(t, gotAbsent.HTTPStatus, gotPolicy.HTTPStatus)
	assert.Equal(t, gotAbsent.Message, gotPolicy.Message)
}
