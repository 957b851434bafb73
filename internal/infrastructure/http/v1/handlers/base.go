package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/dto"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Bound returns the session-bound executor of the request's connection.
// RequestBind middleware guarantees it is present on protected routes.
func (h *BaseHandler) Bound(c *gin.Context) (postgres.BoundExecutor, bool) {
	exec, err := postgres.BoundFromContext(c.Request.Context())
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return nil, false
	}
	return exec, true
}

// Identity returns the request identity. Routes behind Auth always have one.
func (h *BaseHandler) Identity(c *gin.Context) identity.RequestIdentity {
	return identity.FromContextOrAnonymous(c.Request.Context())
}

// RequireOrg returns the identity's organization, failing the request for
// identities without one. Super admins administering a specific tenant
// must still present an org claim for tenant-scoped writes.
func (h *BaseHandler) RequireOrg(c *gin.Context) (id.ID, bool) {
	ri := h.Identity(c)
	if ri.OrgID == nil {
		h.Error(c, apperror.NewForbidden("organization context required"))
		return id.Nil(), false
	}
	return *ri.OrgID, true
}

// ParseID parses a path parameter as an ID.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("param", param))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ListFilter builds a domain list filter from query parameters.
func (h *BaseHandler) ListFilter(c *gin.Context) domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.OrderBy = c.Query("orderBy")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", filter.Offset)
	return filter
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, entityID string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: entityID})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

