package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/dto"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
)

// InvoiceHandler handles vendor invoice endpoints.
type InvoiceHandler struct {
	*BaseHandler
	repo *domain_repo.InvoiceRepo
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, repo *domain_repo.InvoiceRepo) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, repo: repo}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInvoiceRequest
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

	inv := req.ToInvoice(orgID)
	if err := h.repo.CreateBound(ctx, exec, inv); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inv.ID.String())
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	invID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	exec, ok := h.Bound(c)
	if !ok {
		return
	}

	inv, err := h.repo.GetByIDBound(ctx, exec, invID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
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
