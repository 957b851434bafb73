// Package organization provides the tenant root entity.
// Every tenant-scoped row in the system references an organization.
package organization

import (
	"strings"
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// Organization is a tenant. The organizations table is itself row-filtered:
// a member sees only their own organization's row.
type Organization struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return apperror.NewValidation("organization name is required")
	}
	if o.Slug == "" {
		return apperror.NewValidation("organization slug is required")
	}
	if len(o.Slug) > 63 {
		return apperror.NewValidation("organization slug must be 63 characters or less")
	}
	return nil
}
