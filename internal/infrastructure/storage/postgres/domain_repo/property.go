package domain_repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/domain/property"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const (
	buildingTable  = "buildings"
	unitTable      = "units"
	residencyTable = "unit_residents"
)

func init() {
	postgres.RegisterLegacyCallSite("property.GetBuildingLegacy")
	postgres.RegisterLegacyCallSite("property.ListBuildingsLegacy")
}

// PropertyRepo provides access to buildings, units and residency records.
type PropertyRepo struct {
	buildings   *BaseRepo[*property.Building]
	units       *BaseRepo[*property.Unit]
	residencies *BaseRepo[*property.Residency]
}

// NewPropertyRepo creates a new property repository.
func NewPropertyRepo() *PropertyRepo {
	return &PropertyRepo{
		buildings: NewBaseRepo(
			buildingTable,
			[]string{"name", "address_line", "city"},
			func() *property.Building { return &property.Building{} },
		),
		units: NewBaseRepo(
			unitTable,
			[]string{"label"},
			func() *property.Unit { return &property.Unit{} },
		),
		residencies: NewBaseRepo(
			residencyTable,
			nil,
			func() *property.Residency { return &property.Residency{} },
		),
	}
}

// CreateBuildingBound inserts a building on the bound connection.
func (r *PropertyRepo) CreateBuildingBound(ctx context.Context, exec postgres.BoundExecutor, b *property.Building) error {
	if err := b.Validate(); err != nil {
		return err
	}
	stampNew(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return r.buildings.create(ctx, exec, b)
}

// GetBuildingBound retrieves a building. Visible to organization members
// and, through the residency OR-clause in the policy, to users who live in
// one of its units.
func (r *PropertyRepo) GetBuildingBound(ctx context.Context, exec postgres.BoundExecutor, buildingID id.ID) (*property.Building, error) {
	return r.buildings.getByID(ctx, exec, buildingID)
}

// ListBuildingsBound lists visible buildings on the bound connection.
func (r *PropertyRepo) ListBuildingsBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*property.Building], error) {
	return r.buildings.list(ctx, exec, filter)
}

// CreateUnitBound inserts a unit on the bound connection.
func (r *PropertyRepo) CreateUnitBound(ctx context.Context, exec postgres.BoundExecutor, u *property.Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	stampNew(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return r.units.create(ctx, exec, u)
}

// ListUnitsBound lists visible units on the bound connection.
func (r *PropertyRepo) ListUnitsBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*property.Unit], error) {
	return r.units.list(ctx, exec, filter)
}

// CreateResidencyBound records that a user lives in a unit.
func (r *PropertyRepo) CreateResidencyBound(ctx context.Context, exec postgres.BoundExecutor, res *property.Residency) error {
	if err := res.Validate(); err != nil {
		return err
	}
	if id.IsNil(res.ID) {
		res.ID = id.New()
	}
	now := time.Now().UTC()
	if res.MovedInAt.IsZero() {
		res.MovedInAt = now
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	return r.residencies.create(ctx, exec, res)
}

// GetBuildingLegacy retrieves a building on the raw pool.
func (r *PropertyRepo) GetBuildingLegacy(ctx context.Context, pool *pgxpool.Pool, buildingID id.ID) (*property.Building, error) {
	return r.buildings.getByID(ctx, pool, buildingID)
}

// ListBuildingsLegacy lists buildings on the raw pool; fail-closed, empty.
func (r *PropertyRepo) ListBuildingsLegacy(ctx context.Context, pool *pgxpool.Pool, filter domain.ListFilter) (domain.ListResult[*property.Building], error) {
	return r.buildings.list(ctx, pool, filter)
}

// stampNew fills ID and timestamps for a freshly created entity.
func stampNew(entityID *id.ID, createdAt, updatedAt *time.Time) {
	if id.IsNil(*entityID) {
		*entityID = id.New()
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
