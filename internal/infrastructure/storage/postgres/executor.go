// Package postgres provides PostgreSQL infrastructure components.
//
// The package implements the tenant isolation layer: a security context
// binder that writes the request identity into session-local state on one
// dedicated connection, a guarded handle that guarantees the state is
// cleared before the connection is pooled again, and the executor types
// repositories are written against.
package postgres

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is the query-execution capability every repository method accepts.
// It is satisfied by *pgxpool.Pool (legacy mode, no bound identity), by
// BoundExecutor (obtained from a live GuardedConn), and by pgx.Tx.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BoundExecutor is an Executor whose queries are guaranteed to run on a
// connection with the request identity already set in session state.
//
// Implementations live behind GuardedConn.Executor() and the bound
// TxManager; the unexported marker method keeps callers from forging one
// around a raw pool. Repository methods that must be policy-enforced take
// BoundExecutor instead of Executor.
type BoundExecutor interface {
	Executor

	// sessionBound marks implementations produced by a GuardedConn.
	sessionBound()
}

// boundExec is the sole BoundExecutor implementation. It delegates to the
// guarded connection so that use after release fails instead of silently
// running without an identity.
type boundExec struct {
	gc *GuardedConn
}

func (e boundExec) sessionBound() {}

func (e boundExec) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	conn, err := e.gc.live()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return conn.Exec(ctx, sql, arguments...)
}

func (e boundExec) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	conn, err := e.gc.live()
	if err != nil {
		return nil, err
	}
	return conn.Query(ctx, sql, args...)
}

func (e boundExec) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	conn, err := e.gc.live()
	if err != nil {
		return errRow{err: err}
	}
	return conn.QueryRow(ctx, sql, args...)
}

// errRow satisfies pgx.Row for the released-handle path.
type errRow struct{ err error }

func (r errRow) Scan(dest ...any) error { return r.err }

// --- Legacy call-site registry ---

// Legacy repository variants execute on the raw pool with no bound identity.
// The row-level policies fail closed for them, but they are a migration
// seam, not a steady state. Each one registers itself here so the
// verification harness can enumerate what still bypasses the bound path.

var (
	legacyMu    sync.Mutex
	legacySites = map[string]struct{}{}
)

// RegisterLegacyCallSite records a repository method that accepts the raw
// pool. Called from init funcs so the registry is complete before any query
// runs.
func RegisterLegacyCallSite(site string) {
	legacyMu.Lock()
	defer legacyMu.Unlock()
	legacySites[site] = struct{}{}
}

// LegacyCallSites returns the sorted list of repository methods still
// offering a pool-executor variant.
func LegacyCallSites() []string {
	legacyMu.Lock()
	defer legacyMu.Unlock()
	sites := make([]string, 0, len(legacySites))
	for s := range legacySites {
		sites = append(sites, s)
	}
	sort.Strings(sites)
	return sites
}
