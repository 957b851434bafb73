package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/dto"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
)

// PropertyHandler handles building and unit endpoints.
type PropertyHandler struct {
	*BaseHandler
	repo *domain_repo.PropertyRepo
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(base *BaseHandler, repo *domain_repo.PropertyRepo) *PropertyHandler {
	return &PropertyHandler{BaseHandler: base, repo: repo}
}

// CreateBuilding handles POST /buildings
func (h *PropertyHandler) CreateBuilding(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBuildingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	orgID, ok := h.RequireOrg(c)
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	building := req.ToBuilding(orgID)
	if err := h.repo.CreateBuildingBound(ctx, exec, building); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, building.ID.String())
}

// GetBuilding handles GET /buildings/:id
func (h *PropertyHandler) GetBuilding(c *gin.Context) {
	ctx := c.Request.Context()

	buildingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	building, err := h.repo.GetBuildingBound(ctx, exec, buildingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, building)
}

// ListBuildings handles GET /buildings
func (h *PropertyHandler) ListBuildings(c *gin.Context) {
	ctx := c.Request.Context()

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	result, err := h.repo.ListBuildingsBound(ctx, exec, h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// CreateUnit handles POST /buildings/:id/units
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	ctx := c.Request.Context()

	buildingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateUnitRequest
	if !h.BindJSON(c, &req) {
		return
	}

	orgID, ok := h.RequireOrg(c)
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	// The building must be visible to the caller before hanging a unit
	// off it. A foreign building id reads as not found.
	if _, err := h.repo.GetBuildingBound(ctx, exec, buildingID); err != nil {
		h.Error(c, err)
		return
	}

	unit := req.ToUnit(orgID, buildingID)
	if err := h.repo.CreateUnitBound(ctx, exec, unit); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, unit.ID.String())
}

// ListUnits handles GET /units
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	ctx := c.Request.Context()

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	result, err := h.repo.ListUnitsBound(ctx, exec, h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
