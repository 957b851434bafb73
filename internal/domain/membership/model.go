// Package membership provides organization membership: the relation that
// decides which users belong to which tenant, and with what role.
package membership

import (
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// Role defines a member's role within an organization.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleResident Role = "resident"
	RoleViewer   Role = "viewer"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleResident, RoleViewer:
		return true
	}
	return false
}

// Membership ties a user to an organization.
//
// Visibility of a membership row is governed by membership, not by the mere
// tenant field: a user bound with a foreign organization_id injected into
// their identity still sees at most their own row (row.user_id match),
// never the rest of that organization's roster.
type Membership struct {
	ID        id.ID     `db:"id" json:"id"`
	OrgID     id.ID     `db:"organization_id" json:"organizationId"`
	UserID    id.ID     `db:"user_id" json:"userId"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (m *Membership) Validate() error {
	if id.IsNil(m.OrgID) {
		return apperror.NewValidation("membership organization is required")
	}
	if id.IsNil(m.UserID) {
		return apperror.NewValidation("membership user is required")
	}
	if !m.Role.Valid() {
		return apperror.NewValidation("unknown membership role").WithDetail("role", string(m.Role))
	}
	return nil
}
