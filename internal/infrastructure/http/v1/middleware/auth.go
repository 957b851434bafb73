package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

// IdentityExtractor turns a bearer token into a request identity.
type IdentityExtractor interface {
	ExtractIdentity(tokenString string) (identity.RequestIdentity, error)
}

// Auth middleware validates the bearer token and attaches the resulting
// identity to the request context. A malformed or expired token fails the
// request; it never degrades to an anonymous identity.
func Auth(extractor IdentityExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		ri, err := extractor.ExtractIdentity(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		ctx := identity.WithIdentity(c.Request.Context(), ri)
		c.Request = c.Request.WithContext(ctx)

		c.Set("org_id", ri.OrgIDString())
		c.Set("user_id", ri.UserIDString())

		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and an
// anonymous identity otherwise. Anonymous requests still get a bound
// connection; the policies make it see nothing.
func OptionalAuth(extractor IdentityExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ri := identity.Anonymous()

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				if extracted, err := extractor.ExtractIdentity(parts[1]); err == nil {
					ri = extracted
				}
			}
		}

		ctx := identity.WithIdentity(c.Request.Context(), ri)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSuperAdmin rejects requests whose identity is not a super admin.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ri, ok := identity.FromContext(c.Request.Context())
		if !ok {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		if !ri.IsSuperAdmin {
			_ = c.Error(apperror.NewForbidden("super admin required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
