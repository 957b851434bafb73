package postgres

import (
	"context"
	"fmt"
	"strings"
)

// Row-filter policies live in the database, not here. This file is the
// application-side contract: catalog introspection the verification harness
// and the CI gate use to prove every tenant-scoped table actually has row
// security enabled, forced, and at least one active policy. A table with
// row security enabled and zero policies denies all access, which is the
// intended fail-closed default; a table with row security disabled is a
// coverage gap.

// PolicyInfo describes one active policy on a table.
type PolicyInfo struct {
	Name       string
	Command    string // ALL, SELECT, INSERT, UPDATE, DELETE
	Permissive bool
	Roles      []string
	Using      *string
	WithCheck  *string
}

// TableSecurity is the row-security posture of one table.
type TableSecurity struct {
	Table              string
	RowSecurityEnabled bool
	RowSecurityForced  bool
	Policies           []PolicyInfo
}

// Covered reports whether the table meets the coverage requirement.
func (ts TableSecurity) Covered() bool {
	return ts.RowSecurityEnabled && ts.RowSecurityForced && len(ts.Policies) > 0
}

const tableSecuritySQL = `
	SELECT c.relrowsecurity, c.relforcerowsecurity
	FROM pg_class c
	JOIN pg_namespace n ON n.oid = c.relnamespace
	WHERE n.nspname = 'public' AND c.relname = $1 AND c.relkind = 'r'`

const tablePoliciesSQL = `
	SELECT policyname, cmd, permissive, roles, qual, with_check
	FROM pg_policies
	WHERE schemaname = 'public' AND tablename = $1
	ORDER BY policyname`

// InspectTableSecurity reads the row-security posture of a single table.
func InspectTableSecurity(ctx context.Context, exec Executor, table string) (TableSecurity, error) {
	ts := TableSecurity{Table: table}

	err := exec.QueryRow(ctx, tableSecuritySQL, table).
		Scan(&ts.RowSecurityEnabled, &ts.RowSecurityForced)
	if err != nil {
		return ts, fmt.Errorf("inspect table %s: %w", table, err)
	}

	rows, err := exec.Query(ctx, tablePoliciesSQL, table)
	if err != nil {
		return ts, fmt.Errorf("list policies for %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PolicyInfo
		var permissive string
		if err := rows.Scan(&p.Name, &p.Command, &permissive, &p.Roles, &p.Using, &p.WithCheck); err != nil {
			return ts, fmt.Errorf("scan policy for %s: %w", table, err)
		}
		p.Permissive = strings.EqualFold(permissive, "PERMISSIVE")
		ts.Policies = append(ts.Policies, p)
	}
	if err := rows.Err(); err != nil {
		return ts, fmt.Errorf("iterate policies for %s: %w", table, err)
	}

	return ts, nil
}

// CoverageViolation is one table failing the coverage requirement.
type CoverageViolation struct {
	Table  string
	Reason string
}

// CoverageError aggregates all coverage gaps found in one pass.
type CoverageError struct {
	Violations []CoverageViolation
}

func (e *CoverageError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Table+": "+v.Reason)
	}
	return "row-security coverage gaps: " + strings.Join(parts, "; ")
}

// VerifyCoverage checks every listed table for enabled + forced row
// security with at least one policy. Returns *CoverageError naming every
// gap, or nil when coverage is complete. Intended as a CI gate, not an
// optional check: a new tenant-scoped table without a policy is a silent
// isolation hole until this fails.
func VerifyCoverage(ctx context.Context, exec Executor, tables []string) error {
	var gaps []CoverageViolation

	for _, table := range tables {
		ts, err := InspectTableSecurity(ctx, exec, table)
		if err != nil {
			gaps = append(gaps, CoverageViolation{Table: table, Reason: err.Error()})
			continue
		}
		switch {
		case !ts.RowSecurityEnabled:
			gaps = append(gaps, CoverageViolation{Table: table, Reason: "row security not enabled"})
		case !ts.RowSecurityForced:
			gaps = append(gaps, CoverageViolation{Table: table, Reason: "row security not forced (owner bypass possible)"})
		case len(ts.Policies) == 0:
			gaps = append(gaps, CoverageViolation{Table: table, Reason: "no active policies (fail-closed, but denies legitimate access too)"})
		}
	}

	if len(gaps) > 0 {
		return &CoverageError{Violations: gaps}
	}
	return nil
}

const protocolFunctionSQL = `
	SELECT EXISTS (
		SELECT 1 FROM pg_proc p
		JOIN pg_namespace n ON p.pronamespace = n.oid
		WHERE n.nspname = 'public' AND p.proname = $1
	)`

// VerifySessionProtocol checks that the session-state functions the binder
// depends on are installed. A missing function means migrations were not
// applied; binding would fail on every request.
func VerifySessionProtocol(ctx context.Context, exec Executor) error {
	required := []string{"set_request_context", "clear_request_context", "app_is_super_admin", "current_org_id", "current_user_id"}
	for _, fn := range required {
		var exists bool
		if err := exec.QueryRow(ctx, protocolFunctionSQL, fn).Scan(&exists); err != nil {
			return fmt.Errorf("check function %s: %w", fn, err)
		}
		if !exists {
			return fmt.Errorf("session-context function %s not installed", fn)
		}
	}
	return nil
}
