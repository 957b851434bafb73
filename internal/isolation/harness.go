package isolation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/internal/domain/invoice"
	"github.com/hanibalsk/property-management-sub005/internal/domain/membership"
	"github.com/hanibalsk/property-management-sub005/internal/domain/organization"
	"github.com/hanibalsk/property-management-sub005/internal/domain/property"
	"github.com/hanibalsk/property-management-sub005/internal/domain/workorder"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
)

// TenantFixture holds the rows seeded for one organization.
type TenantFixture struct {
	Org      *organization.Organization
	UserID   id.ID
	Member   *membership.Membership
	Building *property.Building
	Unit     *property.Unit
	Order    *workorder.WorkOrder
	Invoice  *invoice.VendorInvoice

	// ResidentID is a user who lives in the unit but holds no membership;
	// the residency relationship is their only link to the organization.
	ResidentID id.ID
	Residency  *property.Residency

	AuditID id.ID
}

// Identity returns the request identity of the fixture's member user.
func (f *TenantFixture) Identity() identity.RequestIdentity {
	return identity.ForUser(f.Org.ID, f.UserID)
}

// ResidentIdentity returns the resident's identity: a user with no
// organization bound at all.
func (f *TenantFixture) ResidentIdentity() identity.RequestIdentity {
	resID := f.ResidentID
	return identity.RequestIdentity{UserID: &resID}
}

// Violation records one disagreement between the database and the oracle.
type Violation struct {
	Table    string
	RowID    string
	Expected bool
	Observed bool
}

func (v Violation) String() string {
	if v.Expected {
		return fmt.Sprintf("%s row %s should be visible but was not returned", v.Table, v.RowID)
	}
	return fmt.Sprintf("%s row %s leaked across the tenant boundary", v.Table, v.RowID)
}

// Harness seeds fixtures across two organizations and compares what each
// identity can read against the visibility oracle. All seeding and
// teardown runs under a system bind; the reads under test run under the
// identity being verified, each on its own dedicated connection.
type Harness struct {
	binder *postgres.Binder
	oracle *Oracle
	audit  *postgres.AuditService

	TenantA *TenantFixture
	TenantB *TenantFixture
}

// NewHarness creates a harness over the binder.
func NewHarness(binder *postgres.Binder) (*Harness, error) {
	oracle, err := NewOracle()
	if err != nil {
		return nil, err
	}
	audit, err := postgres.NewAuditService()
	if err != nil {
		return nil, err
	}
	return &Harness{binder: binder, oracle: oracle, audit: audit}, nil
}

// Binder exposes the underlying binder for scenario-specific checks.
func (h *Harness) Binder() *postgres.Binder { return h.binder }

// Oracle exposes the visibility oracle.
func (h *Harness) Oracle() *Oracle { return h.oracle }

// Seed creates two organizations with one member, one building with a
// unit, one work order and one vendor invoice each. Inserts go through
// the bound repositories so the harness exercises the same write path as
// the application.
func (h *Harness) Seed(ctx context.Context) error {
	gc, err := h.binder.BindSystem(ctx)
	if err != nil {
		return fmt.Errorf("bind for seeding: %w", err)
	}
	defer gc.Release(ctx)

	a, err := h.seedTenant(ctx, gc, "Harness Org A", "harness-org-a")
	if err != nil {
		return err
	}
	b, err := h.seedTenant(ctx, gc, "Harness Org B", "harness-org-b")
	if err != nil {
		return err
	}

	h.TenantA = a
	h.TenantB = b

	// Audit entries carry the organization of the writing session, so they
	// are seeded under each tenant's own bind rather than the system one.
	for _, f := range []*TenantFixture{a, b} {
		if err := h.seedAuditEntry(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) seedAuditEntry(ctx context.Context, f *TenantFixture) error {
	gc, err := h.binder.Bind(ctx, f.Identity())
	if err != nil {
		return fmt.Errorf("bind for audit seed: %w", err)
	}
	defer gc.Release(ctx)

	f.AuditID = id.New()
	entry := postgres.AuditEntry{
		ID:         f.AuditID,
		EntityType: "work_order",
		EntityID:   f.Order.ID,
		Action:     postgres.AuditActionCreate,
		Changes:    json.RawMessage(`{"status":{"old":null,"new":"open"}}`),
	}
	if err := h.audit.Log(ctx, gc.Executor(), entry); err != nil {
		return fmt.Errorf("seed audit entry for %s: %w", f.Org.Slug, err)
	}
	return nil
}

func (h *Harness) seedTenant(ctx context.Context, gc *postgres.GuardedConn, name, slug string) (*TenantFixture, error) {
	exec := gc.Executor()

	orgRepo := domain_repo.NewOrganizationRepo()
	propRepo := domain_repo.NewPropertyRepo()
	memberRepo := domain_repo.NewMembershipRepo()
	orderRepo := domain_repo.NewWorkOrderRepo()
	invoiceRepo := domain_repo.NewInvoiceRepo()

	org := &organization.Organization{Name: name, Slug: slug}
	if err := orgRepo.CreateBound(ctx, exec, org); err != nil {
		return nil, fmt.Errorf("seed organization %s: %w", slug, err)
	}

	userID := id.New()
	if _, err := exec.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, is_super_admin, created_at, updated_at)
		 VALUES ($1, $2, 'x', $3, false, now(), now())`,
		userID, slug+"@example.test", name+" Member",
	); err != nil {
		return nil, fmt.Errorf("seed user for %s: %w", slug, err)
	}

	member := &membership.Membership{OrgID: org.ID, UserID: userID, Role: membership.RoleManager}
	if err := memberRepo.CreateBound(ctx, exec, member); err != nil {
		return nil, fmt.Errorf("seed membership for %s: %w", slug, err)
	}

	building := &property.Building{OrgID: org.ID, Name: name + " Building", AddressLine: "1 Harness St", City: "Testville"}
	if err := propRepo.CreateBuildingBound(ctx, exec, building); err != nil {
		return nil, fmt.Errorf("seed building for %s: %w", slug, err)
	}

	unit := &property.Unit{OrgID: org.ID, BuildingID: building.ID, Label: "1A"}
	if err := propRepo.CreateUnitBound(ctx, exec, unit); err != nil {
		return nil, fmt.Errorf("seed unit for %s: %w", slug, err)
	}

	// The resident user gets a residency row but no membership.
	residentID := id.New()
	if _, err := exec.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, is_super_admin, created_at, updated_at)
		 VALUES ($1, $2, 'x', $3, false, now(), now())`,
		residentID, slug+"-resident@example.test", name+" Resident",
	); err != nil {
		return nil, fmt.Errorf("seed resident for %s: %w", slug, err)
	}

	residency := &property.Residency{OrgID: org.ID, UnitID: unit.ID, UserID: residentID}
	if err := propRepo.CreateResidencyBound(ctx, exec, residency); err != nil {
		return nil, fmt.Errorf("seed residency for %s: %w", slug, err)
	}

	order := &workorder.WorkOrder{
		OrgID:     org.ID,
		UnitID:    &unit.ID,
		Title:     "Harness check",
		Status:    workorder.StatusOpen,
		Priority:  workorder.PriorityNormal,
		CreatedBy: userID,
	}
	if err := orderRepo.CreateBound(ctx, exec, order); err != nil {
		return nil, fmt.Errorf("seed work order for %s: %w", slug, err)
	}

	inv := &invoice.VendorInvoice{
		OrgID:         org.ID,
		VendorName:    "Harness Vendor",
		InvoiceNumber: slug + "-0001",
		Amount:        decimal.NewFromInt(100),
		Currency:      "EUR",
		Status:        invoice.StatusDraft,
		IssuedOn:      time.Now().UTC(),
		DueOn:         time.Now().UTC().AddDate(0, 1, 0),
	}
	if err := invoiceRepo.CreateBound(ctx, exec, inv); err != nil {
		return nil, fmt.Errorf("seed invoice for %s: %w", slug, err)
	}

	return &TenantFixture{
		Org:        org,
		UserID:     userID,
		Member:     member,
		Building:   building,
		Unit:       unit,
		Order:      order,
		Invoice:    inv,
		ResidentID: residentID,
		Residency:  residency,
	}, nil
}

// Teardown removes every row the harness seeded. It deletes by the
// fixture organizations so a shared test database is left untouched
// outside the harness's own data.
func (h *Harness) Teardown(ctx context.Context) error {
	if h.TenantA == nil && h.TenantB == nil {
		return nil
	}

	gc, err := h.binder.BindSystem(ctx)
	if err != nil {
		return fmt.Errorf("bind for teardown: %w", err)
	}
	defer gc.Release(ctx)

	exec := gc.Executor()
	orgIDs := make([]any, 0, 2)
	userIDs := make([]any, 0, 2)
	for _, f := range []*TenantFixture{h.TenantA, h.TenantB} {
		if f != nil {
			orgIDs = append(orgIDs, f.Org.ID)
			userIDs = append(userIDs, f.UserID, f.ResidentID)
		}
	}

	// Child tables first, organizations and users last.
	statements := []string{
		`DELETE FROM audit_log WHERE organization_id = ANY($1)`,
		`DELETE FROM vendor_invoices WHERE organization_id = ANY($1)`,
		`DELETE FROM work_orders WHERE organization_id = ANY($1)`,
		`DELETE FROM unit_residents WHERE organization_id = ANY($1)`,
		`DELETE FROM units WHERE organization_id = ANY($1)`,
		`DELETE FROM buildings WHERE organization_id = ANY($1)`,
		`DELETE FROM org_memberships WHERE organization_id = ANY($1)`,
		`DELETE FROM organizations WHERE id = ANY($1)`,
	}
	for _, stmt := range statements {
		if _, err := exec.Exec(ctx, stmt, orgIDs); err != nil {
			return fmt.Errorf("teardown: %w", err)
		}
	}
	if _, err := exec.Exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, userIDs); err != nil {
		return fmt.Errorf("teardown users: %w", err)
	}

	h.TenantA = nil
	h.TenantB = nil
	return nil
}

// fixtureRows returns the seeded rows of one table as oracle inputs.
func (h *Harness) fixtureRows(table string) []map[string]any {
	var rows []map[string]any
	for _, f := range []*TenantFixture{h.TenantA, h.TenantB} {
		if f == nil {
			continue
		}
		org := f.Org.ID.String()
		residents := []string{f.ResidentID.String()}
		switch table {
		case "organizations":
			rows = append(rows, map[string]any{"id": org})
		case "users":
			rows = append(rows,
				map[string]any{"id": f.UserID.String()},
				map[string]any{"id": f.ResidentID.String()},
			)
		case "org_memberships":
			rows = append(rows, map[string]any{
				"id":              f.Member.ID.String(),
				"organization_id": org,
				"user_id":         f.UserID.String(),
			})
		case "buildings":
			rows = append(rows, map[string]any{
				"id":                f.Building.ID.String(),
				"organization_id":   org,
				"resident_user_ids": residents,
			})
		case "units":
			rows = append(rows, map[string]any{
				"id":                f.Unit.ID.String(),
				"organization_id":   org,
				"resident_user_ids": residents,
			})
		case "unit_residents":
			rows = append(rows, map[string]any{
				"id":              f.Residency.ID.String(),
				"organization_id": org,
				"user_id":         f.ResidentID.String(),
			})
		case "work_orders":
			rows = append(rows, map[string]any{
				"id":              f.Order.ID.String(),
				"organization_id": org,
				"created_by":      f.UserID.String(),
			})
		case "vendor_invoices":
			rows = append(rows, map[string]any{"id": f.Invoice.ID.String(), "organization_id": org})
		case "audit_log":
			rows = append(rows, map[string]any{"id": f.AuditID.String(), "organization_id": org})
		}
	}
	return rows
}

// visibleIDs reads the id set of one table under the given identity, on a
// freshly bound connection.
func (h *Harness) visibleIDs(ctx context.Context, ri identity.RequestIdentity, table string) (map[string]bool, error) {
	gc, err := h.binder.Bind(ctx, ri)
	if err != nil {
		return nil, fmt.Errorf("bind for %s read: %w", table, err)
	}
	defer gc.Release(ctx)

	rows, err := gc.Executor().Query(ctx, fmt.Sprintf(`SELECT id::text FROM %s`, table))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var rowID string
		if err := rows.Scan(&rowID); err != nil {
			return nil, fmt.Errorf("scan %s id: %w", table, err)
		}
		ids[rowID] = true
	}
	return ids, rows.Err()
}

// VerifyIdentity compares what the identity can read against the oracle
// for every protected table with seeded fixtures. It returns one
// violation per disagreeing row.
func (h *Harness) VerifyIdentity(ctx context.Context, ri identity.RequestIdentity) ([]Violation, error) {
	if h.TenantA == nil || h.TenantB == nil {
		return nil, fmt.Errorf("harness is not seeded")
	}

	var violations []Violation
	for _, table := range ProtectedTables {
		fixture := h.fixtureRows(table.Name)
		if len(fixture) == 0 {
			continue
		}

		observed, err := h.visibleIDs(ctx, ri, table.Name)
		if err != nil {
			return nil, err
		}

		for _, row := range fixture {
			rowID, _ := row["id"].(string)
			if rowID == "" {
				continue
			}
			expected, err := h.oracle.Visible(table.Name, row, ri)
			if err != nil {
				return nil, err
			}
			if expected != observed[rowID] {
				violations = append(violations, Violation{
					Table:    table.Name,
					RowID:    rowID,
					Expected: expected,
					Observed: observed[rowID],
				})
			}
		}
	}
	return violations, nil
}
