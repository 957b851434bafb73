package domain_repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain"
	"github.com/hanibalsk/property-management-sub005/internal/domain/invoice"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

const invoiceTable = "vendor_invoices"

func init() {
	postgres.RegisterLegacyCallSite("invoice.GetByIDLegacy")
	postgres.RegisterLegacyCallSite("invoice.ListLegacy")
}

// InvoiceRepo provides access to vendor invoices.
type InvoiceRepo struct {
	*BaseRepo[*invoice.VendorInvoice]
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{
		BaseRepo: NewBaseRepo(
			invoiceTable,
			[]string{"vendor_name", "invoice_number"},
			func() *invoice.VendorInvoice { return &invoice.VendorInvoice{} },
		),
	}
}

// CreateBound inserts an invoice on the bound connection.
func (r *InvoiceRepo) CreateBound(ctx context.Context, exec postgres.BoundExecutor, inv *invoice.VendorInvoice) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	stampNew(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	return r.create(ctx, exec, inv)
}

// GetByIDBound retrieves an invoice on the bound connection.
func (r *InvoiceRepo) GetByIDBound(ctx context.Context, exec postgres.BoundExecutor, invID id.ID) (*invoice.VendorInvoice, error) {
	return r.getByID(ctx, exec, invID)
}

// ListBound lists visible invoices on the bound connection.
func (r *InvoiceRepo) ListBound(ctx context.Context, exec postgres.BoundExecutor, filter domain.ListFilter) (domain.ListResult[*invoice.VendorInvoice], error) {
	return r.list(ctx, exec, filter)
}

// GetByIDLegacy retrieves an invoice on the raw pool.
func (r *InvoiceRepo) GetByIDLegacy(ctx context.Context, pool *pgxpool.Pool, invID id.ID) (*invoice.VendorInvoice, error) {
	return r.getByID(ctx, pool, invID)
}

// ListLegacy lists invoices on the raw pool; fail-closed, empty.
func (r *InvoiceRepo) ListLegacy(ctx context.Context, pool *pgxpool.Pool, filter domain.ListFilter) (domain.ListResult[*invoice.VendorInvoice], error) {
	return r.list(ctx, pool, filter)
}
