package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/invoice"
)

// CreateInvoiceRequest is the POST /invoices body.
type CreateInvoiceRequest struct {
	VendorName    string          `json:"vendorName" binding:"required"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Currency      string          `json:"currency" binding:"required"`
	IssuedOn      time.Time       `json:"issuedOn"`
	DueOn         time.Time       `json:"dueOn"`
}

// ToInvoice converts the request into a domain model scoped to orgID.
func (r CreateInvoiceRequest) ToInvoice(orgID id.ID) *invoice.VendorInvoice {
	return &invoice.VendorInvoice{
		OrgID:         orgID,
		VendorName:    r.VendorName,
		InvoiceNumber: r.InvoiceNumber,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Status:        invoice.StatusDraft,
		IssuedOn:      r.IssuedOn,
		DueOn:         r.DueOn,
	}
}
