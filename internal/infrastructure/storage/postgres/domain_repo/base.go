// Package domain_repo provides PostgreSQL implementations for the business
// domain repositories.
//
// Every method takes its executor explicitly. The *Bound variants require a
// postgres.BoundExecutor and are the policy-enforced target state; the
// *Legacy variants accept the raw pool, run with no session identity, and
// exist only as the migration seam. Each legacy variant registers itself so
// the verification harness can enumerate what still bypasses the bound
// path. The pairs share one implementation, so migrating a call site is a
// type change, not a rewrite.
package domain_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

// BaseRepo provides common CRUD operations shared by the domain
// repositories. Embed it in specific repositories.
type BaseRepo[T any] struct {
	tableName  string
	selectCols []string
	searchCols []string
	newFn      func() T
}

// NewBaseRepo creates a new base repository.
func NewBaseRepo[T any](tableName string, searchCols []string, newFn func() T) *BaseRepo[T] {
	return &BaseRepo[T]{
		tableName:  tableName,
		selectCols: postgres.ExtractDBColumns[T](),
		searchCols: searchCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// create inserts a new entity using its "db" tags.
func (r *BaseRepo[T]) create(ctx context.Context, exec postgres.Executor, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(r.tableName).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := exec.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(r.tableName, data["id"], err)
	}

	return nil
}

// getByID retrieves an entity by ID. A row hidden by a row-level policy
// yields the same NotFound as an absent row.
func (r *BaseRepo[T]) getByID(ctx context.Context, exec postgres.Executor, entityID id.ID) (T, error) {
	entity := r.newFn()

	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName).
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, exec, entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return entity, postgres.MapError(r.tableName, entityID, err)
	}

	return entity, nil
}

// list retrieves entities with filtering and pagination. No tenant
// predicate appears here: confinement is the database's job.
func (r *BaseRepo[T]) list(ctx context.Context, exec postgres.Executor, filter domain.ListFilter) (domain.ListResult[T], error) {
	result := domain.ListResult[T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.Builder().
		Select(r.selectCols...).
		From(r.tableName)

	if filter.Search != "" && len(r.searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	// Count total (before pagination)
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	if err := exec.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, postgres.MapError(r.tableName, nil, err)
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, exec, &result.Items, sql, args...); err != nil {
		return result, postgres.MapError(r.tableName, nil, err)
	}

	return result, nil
}

// deleteByID removes an entity. RowsAffected 0 maps to NotFound: the row is
// absent, or a policy hid it; the caller cannot tell which.
func (r *BaseRepo[T]) deleteByID(ctx context.Context, exec postgres.Executor, entityID id.ID) error {
	q := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := exec.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(r.tableName, entityID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}
	return nil
}

// parseOrderBy converts the filter's OrderBy into a validated ORDER BY
// clause. Column names are whitelisted against the entity's db tags:
// ordering input must never reach the SQL text unchecked.
func (r *BaseRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "created_at DESC", nil
	}

	col := orderBy
	dir := "ASC"
	if col[0] == '-' {
		col = col[1:]
		dir = "DESC"
	}

	for _, valid := range r.selectCols {
		if col == valid {
			return col + " " + dir, nil
		}
	}
	return "", apperror.NewValidation("invalid order column").WithDetail("column", col)
}
