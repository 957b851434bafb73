// Package auth provides authentication: credential validation and the
// extraction of a request identity from a JWT.
package auth

import (
	"time"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// User is a platform account. Users are not owned by a single organization;
// tenancy is expressed through org_memberships. The users table policy
// exposes a row to the user themself, to members of an organization shared
// with the current one, and to super-admins.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	IsSuperAdmin bool      `db:"is_super_admin" json:"isSuperAdmin"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// LoginInput carries a login attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// OrgID selects which organization the session is scoped to. Optional
	// for super-admins; required for everyone else.
	OrgID *id.ID `json:"organizationId,omitempty"`
}

// LoginResult is the issued session.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      id.ID     `json:"userId"`
	OrgID       *id.ID    `json:"organizationId,omitempty"`
}
