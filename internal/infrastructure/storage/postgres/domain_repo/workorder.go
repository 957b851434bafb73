package domain_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/domain/workorder"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const workOrderTable = "work_orders"

func init() {
	postgres.RegisterLegacyCallSite("workorder.ListLegacy")
}

// WorkOrderRepo provides access to maintenance work orders.
type WorkOrderRepo struct {
	*BaseRepo[*workorder.WorkOrder]
}

// NewWorkOrderRepo creates a new work order repository.
func NewWorkOrderRepo() *WorkOrderRepo {
	return &WorkOrderRepo{
		BaseRepo: NewBaseRepo(
			workOrderTable,
			[]string{"title", "description"},
			func() *workorder.WorkOrder { return &workorder.WorkOrder{} },
		),
	}
}

// CreateBound inserts a work order on the bound connection.
func (r *WorkOrderRepo) CreateBound(ctx context.Context, exec postgres.BoundExecutor, w *workorder.WorkOrder) error {
	if err := w.Validate(); err != nil {
		return err
	}
	stampNew(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	return r.create(ctx, exec, w)
}

// GetByIDBound retrieves a work order on the bound connection.
func (r *WorkOrderRepo) GetByIDBound(ctx context.Context, exec postgres.BoundExecutor, wID id.ID) (*workorder.WorkOrder, error) {
	return r.getByID(ctx, exec, wID)
}

// ListBound lists visible work orders on the bound connection.
func (r *WorkOrderRepo) ListBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*workorder.WorkOrder], error) {
	return r.list(ctx, exec, filter)
}

// UpdateStatusBound transitions a work order's status. RowsAffected 0 maps
// to NotFound whether the row is absent, filtered out, or in a state the
// transition predicate rejects.
func (r *WorkOrderRepo) UpdateStatusBound(ctx context.Context, exec postgres.BoundExecutor, wID id.ID, from, to workorder.Status) error {
	q := r.Builder().
		Update(workOrderTable).
		Set("status", to).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": wID, "status": from})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := exec.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(workOrderTable, wID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(workOrderTable, wID.String())
	}
	return nil
}

// ListLegacy lists work orders on the raw pool; fail-closed, empty.
func (r *WorkOrderRepo) ListLegacy(ctx context.Context, pool *pgxpool.Pool, filter domain.ListFilter) (domain.ListResult[*workorder.WorkOrder], error) {
	return r.list(ctx, pool, filter)
}
