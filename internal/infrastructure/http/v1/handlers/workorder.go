package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/domain/workorder"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/dto"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
)

// WorkOrderHandler handles maintenance work order endpoints.
type WorkOrderHandler struct {
	*BaseHandler
	repo  *domain_repo.WorkOrderRepo
	audit *postgres.AuditService
}

// NewWorkOrderHandler creates a new work order handler.
func NewWorkOrderHandler(base *BaseHandler, repo *domain_repo.WorkOrderRepo, audit *postgres.AuditService) *WorkOrderHandler {
	return &WorkOrderHandler{BaseHandler: base, repo: repo, audit: audit}
}

// Create handles POST /work-orders
func (h *WorkOrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateWorkOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	orgID, ok := h.RequireOrg(c)
	if !ok {
		return
	}
	ri := h.Identity(c)
	if ri.UserID == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	order, err := req.ToWorkOrder(orgID, *ri.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid unit id"))
		return
	}

	if err := h.repo.CreateBound(ctx, exec, order); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, order.ID.String())
}

// Get handles GET /work-orders/:id
func (h *WorkOrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	order, err := h.repo.GetByIDBound(ctx, exec, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// List handles GET /work-orders
func (h *WorkOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	result, err := h.repo.ListBound(ctx, exec, h.ListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// History handles GET /work-orders/:id/audit
func (h *WorkOrderHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)
	entries, err := h.audit.GetEntityHistory(ctx, exec, "work_order", orderID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, entries)
}

// UpdateStatus handles PATCH /work-orders/:id/status
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWorkOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	from := workorder.Status(req.From)
	to := workorder.Status(req.To)
	if !from.Valid() || !to.Valid() {
		h.Error(c, apperror.NewValidation("unknown work order status"))
		return
	}
	if !from.CanTransition(to) {
		h.Error(c, apperror.NewValidation("illegal status transition").
			WithDetail("from", req.From).
			WithDetail("to", req.To))
		return
	}

	gc, err := postgres.GuardedConnFromContext(ctx)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	// Status change and its audit entry commit together.
	txm := postgres.NewBoundTxManager(gc)
	err = txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		exec, err := txm.BoundExecutor(txCtx)
		if err != nil {
			return err
		}
		if err := h.repo.UpdateStatusBound(txCtx, exec, orderID, from, to); err != nil {
			return err
		}
		return h.audit.LogChange(txCtx, exec, "work_order", orderID,
			postgres.AuditActionStatusChange,
			map[string]any{"status": map[string]any{"old": req.From, "new": req.To}})
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
