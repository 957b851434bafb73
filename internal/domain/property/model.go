// Package property provides buildings, units and unit residency.
package property

import (
	"strings"
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// Building is a managed property belonging to one organization.
//
// A building is visible to its organization's members, and additionally to
// any user who resides in one of its units even without an organization
// membership. That residency relationship is an extra OR-clause in the
// building policy, not a separate code path.
type Building struct {
	ID          id.ID     `db:"id" json:"id"`
	OrgID       id.ID     `db:"organization_id" json:"organizationId"`
	Name        string    `db:"name" json:"name"`
	AddressLine string    `db:"address_line" json:"addressLine"`
	City        string    `db:"city" json:"city"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (b *Building) Validate() error {
	if id.IsNil(b.OrgID) {
		return apperror.NewValidation("building organization is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return apperror.NewValidation("building name is required")
	}
	return nil
}

// Unit is a rentable/ownable unit inside a building.
type Unit struct {
	ID         id.ID     `db:"id" json:"id"`
	OrgID      id.ID     `db:"organization_id" json:"organizationId"`
	BuildingID id.ID     `db:"building_id" json:"buildingId"`
	Label      string    `db:"label" json:"label"`
	Floor      *int      `db:"floor" json:"floor,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (u *Unit) Validate() error {
	if id.IsNil(u.OrgID) {
		return apperror.NewValidation("unit organization is required")
	}
	if id.IsNil(u.BuildingID) {
		return apperror.NewValidation("unit building is required")
	}
	if strings.TrimSpace(u.Label) == "" {
		return apperror.NewValidation("unit label is required")
	}
	return nil
}

// Residency records that a user lives in a unit. It is the relationship the
// building and unit policies consult for the residency OR-clause.
type Residency struct {
	ID         id.ID      `db:"id" json:"id"`
	OrgID      id.ID      `db:"organization_id" json:"organizationId"`
	UnitID     id.ID      `db:"unit_id" json:"unitId"`
	UserID     id.ID      `db:"user_id" json:"userId"`
	MovedInAt  time.Time  `db:"moved_in_at" json:"movedInAt"`
	MovedOutAt *time.Time `db:"moved_out_at" json:"movedOutAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// Active reports whether the residency is current.
func (r *Residency) Active() bool {
	return r.MovedOutAt == nil
}

// Validate checks required fields.
func (r *Residency) Validate() error {
	if id.IsNil(r.OrgID) {
		return apperror.NewValidation("residency organization is required")
	}
	if id.IsNil(r.UnitID) {
		return apperror.NewValidation("residency unit is required")
	}
	if id.IsNil(r.UserID) {
		return apperror.NewValidation("residency user is required")
	}
	return nil
}
