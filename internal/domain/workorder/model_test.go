package workorder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusCancelled, true},
		{StatusOpen, StatusDone, false},
		{StatusOpen, StatusOpen, false},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusOpen, false},
		{StatusDone, StatusOpen, false},
		{StatusDone, StatusInProgress, false},
		{StatusCancelled, StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("archived").Valid())
	assert.False(t, Status("").Valid())
}

func TestWorkOrderValidate(t *testing.T) {
	valid := func() WorkOrder {
		return WorkOrder{
			OrgID:     id.New(),
			Title:     "Fix the boiler",
			Status:    StatusOpen,
			Priority:  PriorityNormal,
			CreatedBy: id.New(),
		}
	}

	w := valid()
	assert.NoError(t, w.Validate())

	w = valid()
	w.OrgID = id.Nil()
	assert.Error(t, w.Validate())

	w = valid()
	w.Title = "   "
	assert.Error(t, w.Validate())

	w = valid()
	w.Status = "unknown"
	err := w.Validate()
	assert.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, "unknown", appErr.Details["status"])

	w = valid()
	w.CreatedBy = id.Nil()
	assert.Error(t, w.Validate())
}
