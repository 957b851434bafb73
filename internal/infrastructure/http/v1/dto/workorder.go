package dto

import (
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/workorder"
)

// CreateWorkOrderRequest is the POST /work-orders body.
type CreateWorkOrderRequest struct {
	UnitID      string `json:"unitId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ToWorkOrder converts the request into a domain model. The organization
// and reporter come from the request identity.
func (r CreateWorkOrderRequest) ToWorkOrder(orgID, createdBy id.ID) (*workorder.WorkOrder, error) {
	w := &workorder.WorkOrder{
		OrgID:       orgID,
		Title:       r.Title,
		Description: r.Description,
		Status:      workorder.StatusOpen,
		Priority:    workorder.PriorityNormal,
		CreatedBy:   createdBy,
	}
	if r.Priority != "" {
		w.Priority = workorder.Priority(r.Priority)
	}
	if r.UnitID != "" {
		unitID, err := id.Parse(r.UnitID)
		if err != nil {
			return nil, err
		}
		w.UnitID = &unitID
	}
	return w, nil
}

// UpdateWorkOrderStatusRequest is the PATCH /work-orders/:id/status body.
type UpdateWorkOrderStatusRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}
