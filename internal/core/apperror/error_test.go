package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("building", "b1"), CodeNotFound, http.StatusNotFound},
		{"conflict", NewConflict("busy"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("user", "users_email_key"), CodeDuplicate, http.StatusConflict},
		{"concurrent", NewConcurrentModification("unit", "u1"), CodeConcurrentModification, http.StatusConflict},
		{"database", NewDatabase(errors.New("down")), CodeDatabase, http.StatusInternalServerError},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
		{"unauthorized", NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("admin only"), CodeForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestNotFoundCarriesNoReason(t *testing.T) {
	// A row absent and a row hidden by a policy must produce the same message.
	absent := NewNotFound("work order", "w1")
	hidden := NewNotFound("work order", "w2")

	assert.Equal(t, absent.Message, hidden.Message)
	assert.NotContains(t, absent.Message, "w1")
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("duplicate key")

	err := NewValidation("invalid field").
		WithDetail("field", "email").
		WithCause(cause)

	assert.Equal(t, "email", err.Details["field"])
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by")
}

func TestErrorString(t *testing.T) {
	err := NewConflict("slug taken")
	assert.Equal(t, "CONFLICT: slug taken", err.Error())
}

func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("repo: %w", NewNotFound("unit", "u1"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)

	assert.False(t, IsAppError(errors.New("plain")))
	assert.False(t, IsNotFound(nil))

	assert.True(t, IsConflict(NewDuplicate("org", "organizations_slug_key")))
	assert.True(t, IsConflict(NewConcurrentModification("invoice", "i1")))
}
