// Package workorder provides maintenance work orders.
package workorder

import (
	"strings"
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// Status is the work order lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Priority of a work order.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

// WorkOrder is a maintenance request scoped to one organization, optionally
// tied to a unit. The reporter additionally sees their own work orders via
// a row.created_by OR-clause in the table policy.
type WorkOrder struct {
	ID          id.ID     `db:"id" json:"id"`
	OrgID       id.ID     `db:"organization_id" json:"organizationId"`
	UnitID      *id.ID    `db:"unit_id" json:"unitId,omitempty"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	Priority    Priority  `db:"priority" json:"priority"`
	AssigneeID  *id.ID    `db:"assignee_id" json:"assigneeId,omitempty"`
	CreatedBy   id.ID     `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (w *WorkOrder) Validate() error {
	if id.IsNil(w.OrgID) {
		return apperror.NewValidation("work order organization is required")
	}
	if strings.TrimSpace(w.Title) == "" {
		return apperror.NewValidation("work order title is required")
	}
	if !w.Status.Valid() {
		return apperror.NewValidation("unknown work order status").WithDetail("status", string(w.Status))
	}
	if id.IsNil(w.CreatedBy) {
		return apperror.NewValidation("work order reporter is required")
	}
	return nil
}

// CanTransition reports whether moving to the target status is allowed.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusOpen:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusDone || to == StatusCancelled
	default:
		return false
	}
}
