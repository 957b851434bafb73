package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "property-management",
		AccessTokenTTL: 15 * time.Minute,
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID       string `json:"uid"`
	OrgID        string `json:"org,omitempty"`
	IsSuperAdmin bool   `json:"adm,omitempty"`
}

// JWTService turns credentials into tokens and tokens into request
// identities. It is a pure function of the token apart from signature
// validation; no I/O.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken generates a new access token for the given identity.
func (s *JWTService) GenerateAccessToken(ri identity.RequestIdentity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   ri.UserIDString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:       ri.UserIDString(),
		OrgID:        ri.OrgIDString(),
		IsSuperAdmin: ri.IsSuperAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ExtractIdentity validates a JWT and returns the request identity.
// Malformed or unparseable ID claims fail validation; they never degrade
// into an anonymous or partially-populated identity.
func (s *JWTService) ExtractIdentity(tokenString string) (identity.RequestIdentity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return identity.RequestIdentity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return identity.RequestIdentity{}, fmt.Errorf("invalid token claims")
	}

	var ri identity.RequestIdentity
	ri.IsSuperAdmin = claims.IsSuperAdmin

	if claims.UserID != "" {
		userID, err := id.Parse(claims.UserID)
		if err != nil {
			return identity.RequestIdentity{}, fmt.Errorf("invalid uid claim: %w", err)
		}
		ri.UserID = &userID
	}
	if claims.OrgID != "" {
		orgID, err := id.Parse(claims.OrgID)
		if err != nil {
			return identity.RequestIdentity{}, fmt.Errorf("invalid org claim: %w", err)
		}
		ri.OrgID = &orgID
	}

	return ri, nil
}
