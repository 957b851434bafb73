package dto

import (
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/property"
)

// CreateBuildingRequest is the POST /buildings body. The organization is
// taken from the request identity, never from the client.
type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
}

// ToBuilding converts the request into a domain model scoped to orgID.
func (r CreateBuildingRequest) ToBuilding(orgID id.ID) *property.Building {
	return &property.Building{
		OrgID:       orgID,
		Name:        r.Name,
		AddressLine: r.AddressLine,
		City:        r.City,
	}
}

// CreateUnitRequest is the POST /buildings/:id/units body.
type CreateUnitRequest struct {
	Label string `json:"label" binding:"required"`
	Floor *int   `json:"floor"`
}

// ToUnit converts the request into a domain model.
func (r CreateUnitRequest) ToUnit(orgID, buildingID id.ID) *property.Unit {
	return &property.Unit{
		OrgID:      orgID,
		BuildingID: buildingID,
		Label:      r.Label,
		Floor:      r.Floor,
	}
}
