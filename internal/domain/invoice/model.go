// Package invoice provides vendor invoices.
package invoice

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
	StatusVoid     Status = "void"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusPaid, StatusVoid:
		return true
	}
	return false
}

// VendorInvoice is a payable invoice from a vendor, scoped to one
// organization. Financial rows have no ownership OR-clause: only
// organization membership (or super-admin) makes them visible.
type VendorInvoice struct {
	ID            id.ID           `db:"id" json:"id"`
	OrgID         id.ID           `db:"organization_id" json:"organizationId"`
	VendorName    string          `db:"vendor_name" json:"vendorName"`
	InvoiceNumber string          `db:"invoice_number" json:"invoiceNumber"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Status        Status          `db:"status" json:"status"`
	IssuedOn      time.Time       `db:"issued_on" json:"issuedOn"`
	DueOn         time.Time       `db:"due_on" json:"dueOn"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Validate checks required fields.
func (v *VendorInvoice) Validate() error {
	if id.IsNil(v.OrgID) {
		return apperror.NewValidation("invoice organization is required")
	}
	if strings.TrimSpace(v.VendorName) == "" {
		return apperror.NewValidation("invoice vendor name is required")
	}
	if v.InvoiceNumber == "" {
		return apperror.NewValidation("invoice number is required")
	}
	if v.Amount.IsNegative() {
		return apperror.NewValidation("invoice amount cannot be negative")
	}
	if len(v.Currency) != 3 {
		return apperror.NewValidation("invoice currency must be a 3-letter code").WithDetail("currency", v.Currency)
	}
	if !v.Status.Valid() {
		return apperror.NewValidation("unknown invoice status").WithDetail("status", string(v.Status))
	}
	return nil
}
