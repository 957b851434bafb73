package domain_repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/domain/organization"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const organizationTable = "organizations"

func init() {
	postgres.RegisterLegacyCallSite("organization.GetByIDLegacy")
	postgres.RegisterLegacyCallSite("organization.ListLegacy")
}

// OrganizationRepo provides access to the tenant root records.
type OrganizationRepo struct {
	*BaseRepo[*organization.Organization]
}

// NewOrganizationRepo creates a new organization repository.
func NewOrganizationRepo() *OrganizationRepo {
	return &OrganizationRepo{
		BaseRepo: NewBaseRepo(
			organizationTable,
			[]string{"name", "slug"},
			func() *organization.Organization { return &organization.Organization{} },
		),
	}
}

// CreateBound inserts an organization. Only super-admin binds can do this;
// the INSERT policy on organizations rejects everyone else.
func (r *OrganizationRepo) CreateBound(ctx context.Context, exec postgres.BoundExecutor, org *organization.Organization) error {
	if err := org.Validate(); err != nil {
		return err
	}
	if id.IsNil(org.ID) {
		org.ID = id.New()
	}
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now
	return r.create(ctx, exec, org)
}

// GetByIDBound retrieves an organization on the bound connection. A member
// sees their own organization; anyone else gets NotFound.
func (r *OrganizationRepo) GetByIDBound(ctx context.Context, exec postgres.BoundExecutor, orgID id.ID) (*organization.Organization, error) {
	return r.getByID(ctx, exec, orgID)
}

// ListBound lists visible organizations. One row for a regular member, the
// full set for a super-admin.
func (r *OrganizationRepo) ListBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*organization.Organization], error) {
	return r.list(ctx, exec, filter)
}

// DeleteBound removes an organization (super-admin only by policy).
func (r *OrganizationRepo) DeleteBound(ctx context.Context, exec postgres.BoundExecutor, orgID id.ID) error {
	return r.deleteByID(ctx, exec, orgID)
}

// GetByIDLegacy retrieves an organization on the raw pool.
func (r *OrganizationRepo) GetByIDLegacy(ctx context.Context, pool *pgxpool.Pool, orgID id.ID) (*organization.Organization, error) {
	return r.getByID(ctx, pool, orgID)
}

// ListLegacy lists organizations on the raw pool; fail-closed, empty.
func (r *OrganizationRepo) ListLegacy(ctx context.Context, pool *pgxpool.Pool, filter domain.ListFilter) (domain.ListResult[*organization.Organization], error) {
	return r.list(ctx, pool, filter)
}
