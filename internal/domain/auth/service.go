package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

// CredentialStore looks up accounts during login. Login runs before any
// identity exists, so implementations execute under an explicit system
// (super-admin) bind; there is no unauthenticated path to the users table.
//
// The implementation lives in infrastructure/storage/postgres.
type CredentialStore interface {
	// FindByEmail returns the user with the given email, or apperror NotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// HasMembership reports whether the user belongs to the organization.
	HasMembership(ctx context.Context, userID, orgID id.ID) (bool, error)
}

// Service handles authentication.
type Service struct {
	store CredentialStore
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(store CredentialStore, jwt *JWTService) *Service {
	return &Service{store: store, jwt: jwt}
}

// Login validates credentials and issues an access token scoped to the
// requested organization. All failure modes return the same unauthorized
// error so login cannot be used to probe which emails or organizations
// exist.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalid := apperror.NewUnauthorized("invalid credentials")

	user, err := s.store.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Equalize timing between unknown email and wrong password.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGy2/PBTLeBIhb0Qow38yqK0ZLCGDEpa"), []byte(input.Password))
			return nil, invalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Warn(ctx, "password hash comparison failed", "error", err)
		}
		return nil, invalid
	}

	ri := identity.RequestIdentity{UserID: &user.ID, IsSuperAdmin: user.IsSuperAdmin}

	switch {
	case input.OrgID != nil:
		ok, err := s.store.HasMembership(ctx, user.ID, *input.OrgID)
		if err != nil {
			return nil, err
		}
		if !ok && !user.IsSuperAdmin {
			return nil, invalid
		}
		ri.OrgID = input.OrgID
	case !user.IsSuperAdmin:
		// Regular sessions must be scoped to one organization.
		return nil, apperror.NewValidation("organizationId is required")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(ri)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		OrgID:       ri.OrgID,
	}, nil
}
