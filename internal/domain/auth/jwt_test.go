package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

func newTestJWTService() *JWTService {
	return NewJWTService(DefaultJWTConfig("test-secret"))
}

func TestTokenRoundTripMember(t *testing.T) {
	svc := newTestJWTService()
	orgID := id.New()
	userID := id.New()

	token, expiresAt, err := svc.GenerateAccessToken(identity.ForUser(orgID, userID))
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	ri, err := svc.ExtractIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, orgID.String(), ri.OrgIDString())
	assert.Equal(t, userID.String(), ri.UserIDString())
	assert.False(t, ri.IsSuperAdmin)
}

func TestTokenRoundTripSuperAdmin(t *testing.T) {
	svc := newTestJWTService()
	userID := id.New()

	ri := identity.SuperAdmin()
	ri.UserID = &userID

	token, _, err := svc.GenerateAccessToken(ri)
	require.NoError(t, err)

	got, err := svc.ExtractIdentity(token)
	require.NoError(t, err)
	assert.True(t, got.IsSuperAdmin)
	assert.Nil(t, got.OrgID)
	assert.Equal(t, userID.String(), got.UserIDString())
}

func TestExtractIdentityWrongSecret(t *testing.T) {
	token, _, err := newTestJWTService().GenerateAccessToken(identity.ForUser(id.New(), id.New()))
	require.NoError(t, err)

	other := NewJWTService(DefaultJWTConfig("different-secret"))
	_, err = other.ExtractIdentity(token)
	assert.Error(t, err)
}

func TestExtractIdentityExpired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(identity.ForUser(id.New(), id.New()))
	require.NoError(t, err)

	_, err = svc.ExtractIdentity(token)
	assert.Error(t, err)
}

func TestExtractIdentityMalformed(t *testing.T) {
	_, err := newTestJWTService().ExtractIdentity("not.a.token")
	assert.Error(t, err)
}

func TestExtractIdentityBadIDClaimFails(t *testing.T) {
	// A token whose uid claim is not a UUID must fail outright, not fall
	// back to an anonymous identity.
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "property-management",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "admin' OR '1'='1",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = newTestJWTService().ExtractIdentity(signed)
	assert.ErrorContains(t, err, "invalid uid claim")
}
