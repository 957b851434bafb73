package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

// RequestBind middleware acquires a connection, binds it to the request
// identity and injects the guarded handle into the context. It MUST run
// after the auth middleware and before any database operations.
//
// The handle is released when the request finishes, whatever the outcome.
func RequestBind(binder *postgres.Binder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ri := identity.FromContextOrAnonymous(ctx)

		gc, err := binder.Bind(ctx, ri)
		if err != nil {
			logger.Warn(ctx, "request bind failed", "error", err)

			var bindErr *postgres.BindError
			if errors.As(err, &bindErr) && bindErr.Kind == postgres.BindPoolExhausted {
				appErr := apperror.NewInternal(err)
				appErr.HTTPStatus = http.StatusServiceUnavailable
				appErr.Message = "service temporarily unavailable"
				_ = c.Error(appErr)
			} else {
				_ = c.Error(apperror.NewInternal(err))
			}
			c.Abort()
			return
		}
		defer func() {
			if err := gc.Release(c.Request.Context()); err != nil {
				logger.Warn(c.Request.Context(), "connection release failed", "error", err)
			}
		}()

		ctx = postgres.WithGuardedConn(ctx, gc)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
