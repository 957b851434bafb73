package domain_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/domain/membership"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const membershipTable = "org_memberships"

func init() {
	postgres.RegisterLegacyCallSite("membership.CreateLegacy")
	postgres.RegisterLegacyCallSite("membership.GetByIDLegacy")
	postgres.RegisterLegacyCallSite("membership.ListLegacy")
	postgres.RegisterLegacyCallSite("membership.DeleteLegacy")
}

// MembershipRepo provides access to organization memberships.
type MembershipRepo struct {
	*BaseRepo[*membership.Membership]
}

// NewMembershipRepo creates a new membership repository.
func NewMembershipRepo() *MembershipRepo {
	return &MembershipRepo{
		BaseRepo: NewBaseRepo(
			membershipTable,
			[]string{"role"},
			func() *membership.Membership { return &membership.Membership{} },
		),
	}
}

// --- Bound variants (policy-enforced) ---

// CreateBound inserts a membership on the bound connection.
func (r *MembershipRepo) CreateBound(ctx context.Context, exec postgres.BoundExecutor, m *membership.Membership) error {
	return r.createMembership(ctx, exec, m)
}

// GetByIDBound retrieves a membership by ID on the bound connection.
func (r *MembershipRepo) GetByIDBound(ctx context.Context, exec postgres.BoundExecutor, mID id.ID) (*membership.Membership, error) {
	return r.getByID(ctx, exec, mID)
}

// ListBound lists visible memberships on the bound connection. For a
// regular member the policies confine the result to their organization;
// with a foreign organization injected into the identity, membership
// governs visibility and at most the caller's own row comes back.
func (r *MembershipRepo) ListBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*membership.Membership], error) {
	return r.list(ctx, exec, filter)
}

// DeleteBound removes a membership on the bound connection.
func (r *MembershipRepo) DeleteBound(ctx context.Context, exec postgres.BoundExecutor, mID id.ID) error {
	return r.deleteByID(ctx, exec, mID)
}

// GetForUserBound returns the caller's membership in the given organization.
func (r *MembershipRepo) GetForUserBound(ctx context.Context, exec postgres.BoundExecutor, orgID, userID id.ID) (*membership.Membership, error) {
	m := &membership.Membership{}

	q := r.Builder().
		Select(r.selectCols...).
		From(membershipTable).
		Where(squirrel.Eq{"organization_id": orgID, "user_id": userID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, exec, m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(membershipTable, userID.String())
		}
		return nil, postgres.MapError(membershipTable, userID, err)
	}
	return m, nil
}

// --- Legacy variants (raw pool, no bound identity, deprecation path) ---

// CreateLegacy inserts a membership on the raw pool.
func (r *MembershipRepo) CreateLegacy(ctx context.Context, pool *pgxpool.Pool, m *membership.Membership) error {
	return r.createMembership(ctx, pool, m)
}

// GetByIDLegacy retrieves a membership by ID on the raw pool.
func (r *MembershipRepo) GetByIDLegacy(ctx context.Context, pool *pgxpool.Pool, mID id.ID) (*membership.Membership, error) {
	return r.getByID(ctx, pool, mID)
}

// ListLegacy lists memberships on the raw pool. With no session identity
// the policies fail closed and the result is empty.
func (r *MembershipRepo) ListLegacy(ctx context.Context, pool *pgxpool.Pool, filter domain.ListFilter) (domain.ListResult[*membership.Membership], error) {
	return r.list(ctx, pool, filter)
}

// DeleteLegacy removes a membership on the raw pool.
func (r *MembershipRepo) DeleteLegacy(ctx context.Context, pool *pgxpool.Pool, mID id.ID) error {
	return r.deleteByID(ctx, pool, mID)
}

// --- Shared implementation ---

func (r *MembershipRepo) createMembership(ctx context.Context, exec postgres.Executor, m *membership.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if id.IsNil(m.ID) {
		m.ID = id.New()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return r.create(ctx, exec, m)
}
