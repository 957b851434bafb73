package isolation

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
)

// newTestHarness connects to the database named by TEST_DATABASE_URL,
// seeds the fixtures and registers teardown. The database must already
// have migrations applied.
func newTestHarness(t *testing.T) *Harness {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	harness, err := NewHarness(postgres.NewBinder(pool))
	require.NoError(t, err)

	require.NoError(t, harness.Seed(ctx))
	t.Cleanup(func() {
		require.NoError(t, harness.Teardown(context.Background()))
	})

	return harness
}

func TestVerifyIdentity_TenantMember(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	violations, err := h.VerifyIdentity(ctx, h.TenantA.Identity())
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

func TestVerifyIdentity_OtherTenantSeesNothingOfA(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	violations, err := h.VerifyIdentity(ctx, h.TenantB.Identity())
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

func TestVerifyIdentity_Anonymous(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	violations, err := h.VerifyIdentity(ctx, identity.Anonymous())
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

func TestVerifyIdentity_SuperAdminSeesUnion(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	violations, err := h.VerifyIdentity(ctx, identity.SuperAdmin())
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

// Binding a user with a foreign organization injected into the identity
// must return zero or only-self rows from the membership table: membership,
// not the org field the identity carries, governs roster visibility.
func TestForeignOrgInIdentityConfinesMembershipReads(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	forged := identity.ForUser(h.TenantB.Org.ID, h.TenantA.UserID)

	ids, err := h.visibleIDs(ctx, forged, "org_memberships")
	require.NoError(t, err)
	assert.False(t, ids[h.TenantB.Member.ID.String()], "org B roster must stay hidden from a non-member")
	for rowID := range ids {
		assert.Equal(t, h.TenantA.Member.ID.String(), rowID, "only the caller's own membership rows may come back")
	}

	violations, err := h.VerifyIdentity(ctx, forged)
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

// A resident with no membership at all sees their unit and its building
// through the residency relationship, and nothing else of either tenant.
func TestResidentSeesTheirBuildingWithoutMembership(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resident := h.TenantA.ResidentIdentity()

	buildings, err := h.visibleIDs(ctx, resident, "buildings")
	require.NoError(t, err)
	assert.True(t, buildings[h.TenantA.Building.ID.String()])
	assert.False(t, buildings[h.TenantB.Building.ID.String()])

	units, err := h.visibleIDs(ctx, resident, "units")
	require.NoError(t, err)
	assert.True(t, units[h.TenantA.Unit.ID.String()])

	invoices, err := h.visibleIDs(ctx, resident, "vendor_invoices")
	require.NoError(t, err)
	assert.Empty(t, invoices)

	violations, err := h.VerifyIdentity(ctx, resident)
	require.NoError(t, err)
	for _, v := range violations {
		t.Errorf("%s", v)
	}
}

// A membership row pointing at a foreign organization must not widen what
// the member can see. The row is injected under a system bind, bypassing
// the application write path on purpose.
func TestInjectedForeignMembershipDoesNotWidenVisibility(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	gc, err := h.Binder().BindSystem(ctx)
	require.NoError(t, err)
	_, err = gc.Executor().Exec(ctx,
		`INSERT INTO org_memberships (id, organization_id, user_id, role, created_at, updated_at)
		 VALUES (gen_random_uuid(), $1, $2, 'viewer', now(), now())`,
		h.TenantB.Org.ID, h.TenantA.UserID,
	)
	require.NoError(t, gc.Release(ctx))
	require.NoError(t, err)

	// Tenant A's user is now legitimately a member of both organizations,
	// but a single request still carries exactly one org. Bound to org A,
	// org B's building must stay invisible.
	ids, err := h.visibleIDs(ctx, h.TenantA.Identity(), "buildings")
	require.NoError(t, err)
	assert.True(t, ids[h.TenantA.Building.ID.String()])
	assert.False(t, ids[h.TenantB.Building.ID.String()])
}

// Rebinding a pooled connection must fully replace the previous session
// state. The pool is sized down so the second bind reuses the first
// connection.
func TestRebindReplacesSessionState(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.MaxConns = 1
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	harness, err := NewHarness(postgres.NewBinder(pool))
	require.NoError(t, err)
	require.NoError(t, harness.Seed(ctx))
	t.Cleanup(func() {
		require.NoError(t, harness.Teardown(context.Background()))
	})

	gc, err := harness.Binder().Bind(ctx, harness.TenantA.Identity())
	require.NoError(t, err)
	sc, err := postgres.ReadSessionContext(ctx, gc.Executor())
	require.NoError(t, err)
	assert.Equal(t, harness.TenantA.Org.ID.String(), sc.OrgID)
	require.NoError(t, gc.Release(ctx))

	gc, err = harness.Binder().Bind(ctx, harness.TenantB.Identity())
	require.NoError(t, err)
	defer gc.Release(ctx)

	sc, err = postgres.ReadSessionContext(ctx, gc.Executor())
	require.NoError(t, err)
	assert.Equal(t, harness.TenantB.Org.ID.String(), sc.OrgID)
	assert.Equal(t, harness.TenantB.UserID.String(), sc.UserID)

	ids, err := harness.visibleIDs(ctx, harness.TenantB.Identity(), "buildings")
	require.NoError(t, err)
	assert.False(t, ids[harness.TenantA.Building.ID.String()])
}

// The session state protocol itself must be injection-proof: identity
// values travel as bind parameters, so a hostile org value is stored
// verbatim and matches nothing.
func TestBindRejectsInjectionAttempts(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	hostileOrg := "' OR '1'='1"
	// Raw string state, bypassing the typed identity, via the same
	// set_request_context function the binder calls.
	gc, err := h.Binder().BindSystem(ctx)
	require.NoError(t, err)
	defer gc.Release(ctx)

	_, err = gc.Executor().Exec(ctx, `SELECT set_request_context($1, $2, $3)`, hostileOrg, "", false)
	require.NoError(t, err)

	sc, err := postgres.ReadSessionContext(ctx, gc.Executor())
	require.NoError(t, err)
	assert.Equal(t, hostileOrg, sc.OrgID)

	var count int
	err = gc.Executor().QueryRow(ctx, `SELECT count(*) FROM buildings`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count, "hostile org value must match no rows")
}

func TestReleaseIsIdempotent(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	gc, err := h.Binder().Bind(ctx, h.TenantA.Identity())
	require.NoError(t, err)

	require.NoError(t, gc.Release(ctx))
	require.NoError(t, gc.Release(ctx))

	_, err = gc.Executor().Exec(ctx, `SELECT 1`)
	assert.ErrorIs(t, err, postgres.ErrReleased)
}

// A saturated pool must fail the bind after the configured acquire
// timeout instead of blocking for the request's lifetime.
func TestBindTimesOutWhenPoolSaturated(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.MaxConns = 1
	cfg.MinConns = 1
	cfg.AcquireTimeout = 200 * time.Millisecond
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	binder := postgres.NewBinder(pool)

	held, err := binder.BindSystem(ctx)
	require.NoError(t, err)
	defer held.Release(ctx)

	start := time.Now()
	_, err = binder.BindSystem(ctx)
	require.Error(t, err)

	var bindErr *postgres.BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, postgres.BindPoolExhausted, bindErr.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// An org-less super-admin session writes audit entries attributed to no
// tenant; they stay invisible to organization members.
func TestAuditWriteWithoutOrgSession(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	svc, err := postgres.NewAuditService()
	require.NoError(t, err)

	gc, err := h.Binder().BindSystem(ctx)
	require.NoError(t, err)
	defer gc.Release(ctx)

	err = svc.LogChange(ctx, gc.Executor(), "work_order", h.TenantA.Order.ID,
		postgres.AuditActionUpdate, map[string]any{"priority": map[string]any{"old": "normal", "new": "urgent"}})
	require.NoError(t, err)

	adminView, err := svc.GetEntityHistory(ctx, gc.Executor(), "work_order", h.TenantA.Order.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, adminView)

	memberGC, err := h.Binder().Bind(ctx, h.TenantA.Identity())
	require.NoError(t, err)
	defer memberGC.Release(ctx)

	memberView, err := svc.GetEntityHistory(ctx, memberGC.Executor(), "work_order", h.TenantA.Order.ID, 10)
	require.NoError(t, err)
	for _, e := range memberView {
		assert.NotEqual(t, postgres.AuditActionUpdate, e.Action, "tenant members must not see org-less audit entries")
	}

	// The org-less entry is outside the org-keyed teardown.
	_, err = gc.Executor().Exec(ctx,
		`DELETE FROM audit_log WHERE entity_id = $1 AND organization_id IS NULL`, h.TenantA.Order.ID)
	require.NoError(t, err)
}

func TestCoverageGatePasses(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	gc, err := h.Binder().BindSystem(ctx)
	require.NoError(t, err)
	defer gc.Release(ctx)

	require.NoError(t, postgres.VerifySessionProtocol(ctx, gc.Executor()))
	require.NoError(t, postgres.VerifyCoverage(ctx, gc.Executor(), TableNames()))
}
