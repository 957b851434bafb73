package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

func TestSessionContextIsEmpty(t *testing.T) {
	assert.True(t, SessionContext{}.IsEmpty())
	assert.True(t, SessionContext{IsSuperAdmin: "false"}.IsEmpty())
	assert.False(t, SessionContext{OrgID: "x"}.IsEmpty())
	assert.False(t, SessionContext{UserID: "x"}.IsEmpty())
	assert.False(t, SessionContext{IsSuperAdmin: "true"}.IsEmpty())
}

func TestSessionContextMatches(t *testing.T) {
	orgID := id.New()
	userID := id.New()
	member := identity.ForUser(orgID, userID)

	tests := []struct {
		name  string
		sc    SessionContext
		ri    identity.RequestIdentity
		match bool
	}{
		{
			name:  "member state matches member identity",
			sc:    SessionContext{OrgID: orgID.String(), UserID: userID.String(), IsSuperAdmin: "false"},
			ri:    member,
			match: true,
		},
		{
			name:  "cleared state matches anonymous",
			sc:    SessionContext{IsSuperAdmin: "false"},
			ri:    identity.Anonymous(),
			match: true,
		},
		{
			name:  "stale org does not match",
			sc:    SessionContext{OrgID: id.New().String(), UserID: userID.String(), IsSuperAdmin: "false"},
			ri:    member,
			match: false,
		},
		{
			name:  "super admin flag must be set",
			sc:    SessionContext{IsSuperAdmin: "false"},
			ri:    identity.SuperAdmin(),
			match: false,
		},
		{
			name:  "super admin state matches",
			sc:    SessionContext{IsSuperAdmin: "true"},
			ri:    identity.SuperAdmin(),
			match: true,
		},
		{
			name:  "leftover super admin flag does not match member",
			sc:    SessionContext{OrgID: orgID.String(), UserID: userID.String(), IsSuperAdmin: "true"},
			ri:    member,
			match: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, tt.sc.Matches(tt.ri))
		})
	}
}
