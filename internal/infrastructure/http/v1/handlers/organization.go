package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/membership"
	"github.com/hanibalsk/property-management-sub005/internal/domain/organization"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
)

// OrganizationHandler handles organization and membership endpoints.
type OrganizationHandler struct {
	*BaseHandler
	orgs    *domain_repo.OrganizationRepo
	members *domain_repo.MembershipRepo
}

// NewOrganizationHandler creates a new organization handler.
func NewOrganizationHandler(base *BaseHandler, orgs *domain_repo.OrganizationRepo, members *domain_repo.MembershipRepo) *OrganizationHandler {
	return &OrganizationHandler{BaseHandler: base, orgs: orgs, members: members}
}

// Create handles POST /organizations. Routed behind RequireSuperAdmin;
// the organizations insert policy enforces it again at the database.
func (h *OrganizationHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug" binding:"required"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	org := &organization.Organization{Name: req.Name, Slug: req.Slug}
	if err := h.orgs.CreateBound(ctx, exec, org); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, org.ID.String())
}

// Get handles GET /organizations/:id
func (h *OrganizationHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	org, err := h.orgs.GetByIDBound(ctx, exec, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, org)
}

// List handles GET /organizations. A tenant member sees exactly one row.
func (h *OrganizationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	result, err := h.orgs.ListBound(ctx, exec, h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// AddMember handles POST /organizations/:id/members
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if !h.BindJSON(c, &req) {
		return
	}

	userID, err := id.Parse(req.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return
	}

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	m := &membership.Membership{
		OrgID:  orgID,
		UserID: userID,
		Role:   membership.Role(req.Role),
	}
	if err := h.members.CreateBound(ctx, exec, m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, m.ID.String())
}

// ListMembers handles GET /organizations/:id/members
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	ctx := c.Request.Context()

	if _, ok := h.ParseID(c, "id"); !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	// Membership rows are self-scoped for regular callers and org-wide
	// only for super admins; the path id adds nothing to the query.
	result, err := h.members.ListBound(ctx, exec, h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// RemoveMember handles DELETE /organizations/:id/members/:memberId
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	ctx := c.Request.Context()

	memberID, ok := h.ParseID(c, "memberId")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	if err := h.members.DeleteBound(ctx, exec, memberID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
