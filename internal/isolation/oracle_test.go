package isolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

func TestOracleCompilesAllTables(t *testing.T) {
	oracle, err := NewOracle()
	require.NoError(t, err)

	for _, table := range ProtectedTables {
		_, err := oracle.Visible(table.Name, map[string]any{"id": "x", "organization_id": "y"}, identity.Anonymous())
		assert.NoError(t, err, table.Name)
	}
}

func TestOracleVisibility(t *testing.T) {
	oracle, err := NewOracle()
	require.NoError(t, err)

	orgA := id.New()
	orgB := id.New()
	userA := id.New()
	userB := id.New()
	residentID := id.New()
	member := identity.ForUser(orgA, userA)
	resident := identity.RequestIdentity{UserID: &residentID}
	forged := identity.ForUser(orgB, userA)

	tests := []struct {
		name    string
		table   string
		row     map[string]any
		ident   identity.RequestIdentity
		visible bool
	}{
		{
			name:    "member sees own org building",
			table:   "buildings",
			row:     map[string]any{"id": "b1", "organization_id": orgA.String(), "resident_user_ids": []string{residentID.String()}},
			ident:   member,
			visible: true,
		},
		{
			name:    "member does not see foreign building",
			table:   "buildings",
			row:     map[string]any{"id": "b2", "organization_id": orgB.String(), "resident_user_ids": []string{}},
			ident:   member,
			visible: false,
		},
		{
			name:    "resident sees their building without membership",
			table:   "buildings",
			row:     map[string]any{"id": "b1", "organization_id": orgA.String(), "resident_user_ids": []string{residentID.String()}},
			ident:   resident,
			visible: true,
		},
		{
			name:    "resident does not see unrelated building",
			table:   "units",
			row:     map[string]any{"id": "u2", "organization_id": orgB.String(), "resident_user_ids": []string{}},
			ident:   resident,
			visible: false,
		},
		{
			name:    "anonymous sees nothing",
			table:   "work_orders",
			row:     map[string]any{"id": "w1", "organization_id": orgA.String(), "created_by": userA.String()},
			ident:   identity.Anonymous(),
			visible: false,
		},
		{
			name:    "reporter keeps their work order across org boundary",
			table:   "work_orders",
			row:     map[string]any{"id": "w1", "organization_id": orgA.String(), "created_by": userA.String()},
			ident:   forged,
			visible: true,
		},
		{
			name:    "membership row visible to the member themself",
			table:   "org_memberships",
			row:     map[string]any{"id": "m1", "organization_id": orgA.String(), "user_id": userA.String()},
			ident:   member,
			visible: true,
		},
		{
			name:    "foreign org in the identity does not expose the roster",
			table:   "org_memberships",
			row:     map[string]any{"id": "m2", "organization_id": orgB.String(), "user_id": userB.String()},
			ident:   forged,
			visible: false,
		},
		{
			name:    "residency row visible to its resident",
			table:   "unit_residents",
			row:     map[string]any{"id": "r1", "organization_id": orgA.String(), "user_id": residentID.String()},
			ident:   resident,
			visible: true,
		},
		{
			name:    "super admin sees everything",
			table:   "vendor_invoices",
			row:     map[string]any{"id": "i1", "organization_id": orgB.String()},
			ident:   identity.SuperAdmin(),
			visible: true,
		},
		{
			name:    "member sees own organization row",
			table:   "organizations",
			row:     map[string]any{"id": orgA.String()},
			ident:   member,
			visible: true,
		},
		{
			name:    "member does not see foreign organization row",
			table:   "organizations",
			row:     map[string]any{"id": orgB.String()},
			ident:   member,
			visible: false,
		},
		{
			name:    "user sees own user row",
			table:   "users",
			row:     map[string]any{"id": userA.String()},
			ident:   member,
			visible: true,
		},
		{
			name:    "user does not see another user row",
			table:   "users",
			row:     map[string]any{"id": id.New().String()},
			ident:   member,
			visible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, err := oracle.Visible(tt.table, tt.row, tt.ident)
			require.NoError(t, err)
			assert.Equal(t, tt.visible, visible)
		})
	}
}

func TestOracleUnknownTable(t *testing.T) {
	oracle, err := NewOracle()
	require.NoError(t, err)

	_, err = oracle.Visible("unknown_table", map[string]any{}, identity.SuperAdmin())
	assert.Error(t, err)
}

func TestTableNamesMatchDeclarationOrder(t *testing.T) {
	names := TableNames()
	require.Len(t, names, len(ProtectedTables))
	assert.Equal(t, "organizations", names[0])
	assert.Contains(t, names, "audit_log")
}
