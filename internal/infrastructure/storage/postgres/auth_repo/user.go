// Package auth_repo implements the auth credential store.
//
// Login happens before any request identity exists, so every lookup here
// runs under an explicit system (super-admin) bind on a dedicated
// connection. There is no pool-based variant: an unauthenticated path that
// relies on fail-open would be exactly the hole the isolation layer exists
// to close.
package auth_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/auth"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const userTable = "users"

// Compile-time check that the store satisfies the domain contract.
var _ auth.CredentialStore = (*SystemCredentialStore)(nil)

// SystemCredentialStore looks up accounts under a system bind.
type SystemCredentialStore struct {
	binder     *postgres.Binder
	selectCols []string
}

// NewSystemCredentialStore creates a credential store over the binder.
func NewSystemCredentialStore(binder *postgres.Binder) *SystemCredentialStore {
	return &SystemCredentialStore{
		binder:     binder,
		selectCols: postgres.ExtractDBColumns[auth.User](),
	}
}

// FindByEmail returns the user with the given email.
func (s *SystemCredentialStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	gc, err := s.binder.BindSystem(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	defer gc.Release(ctx)

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(s.selectCols...).
		From(userTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	user := &auth.User{}
	if err := pgxscan.Get(ctx, gc.Executor(), user, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(userTable, email)
		}
		return nil, postgres.MapError(userTable, email, err)
	}
	return user, nil
}

// HasMembership reports whether the user belongs to the organization.
func (s *SystemCredentialStore) HasMembership(ctx context.Context, userID, orgID id.ID) (bool, error) {
	gc, err := s.binder.BindSystem(ctx)
	if err != nil {
		return false, apperror.NewInternal(err)
	}
	defer gc.Release(ctx)

	var exists bool
	err = gc.Executor().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM org_memberships WHERE user_id = $1 AND organization_id = $2)`,
		userID, orgID,
	).Scan(&exists)
	if err != nil {
		return false, postgres.MapError("org_memberships", userID, err)
	}
	return exists, nil
}

// CreateUser inserts a user record. Used by seeding and by the isolation
// harness fixtures; callers pass the executor of an already-bound
// super-admin connection.
func (s *SystemCredentialStore) CreateUser(ctx context.Context, exec postgres.Executor, user *auth.User) error {
	if user.Email == "" {
		return apperror.NewValidation("user email is required")
	}
	if id.IsNil(user.ID) {
		user.ID = id.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	data := postgres.StructToMap(user)
	filtered := make(map[string]any, len(s.selectCols))
	for _, col := range s.selectCols {
		if val, ok := data[col]; ok {
			filtered[col] = val
		}
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(userTable).
		SetMap(filtered)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := exec.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(userTable, user.ID, err)
	}
	return nil
}
