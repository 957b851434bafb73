package postgres

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

// ErrReleased is returned when a guarded connection is used after Release.
var ErrReleased = errors.New("guarded connection already released")

// releaseTimeout bounds the clear-state round trip during release. Release
// runs on a detached context: a cancelled request must still clear its
// connection before the pool can hand it to anyone else.
const releaseTimeout = 5 * time.Second

// GuardedConn owns one checked-out connection whose session state carries a
// request identity. It is created by Binder.Bind and must be released on
// every exit path:
//
//	gc, err := binder.Bind(ctx, ri)
//	if err != nil { ... }
//	defer gc.Release(ctx)
//
// The handle is not safe for concurrent use; one handle serves one request.
// Release is idempotent, so defer plus an early explicit Release is fine.
type GuardedConn struct {
	mu       sync.Mutex
	conn     *pgxpool.Conn
	ident    identity.RequestIdentity
	released bool
}

// Identity returns the identity this connection is bound to.
func (gc *GuardedConn) Identity() identity.RequestIdentity {
	return gc.ident
}

// Executor returns the bound executor for this connection. It is the only
// way to obtain a BoundExecutor. The executor keeps a reference to the
// handle, so use after Release yields ErrReleased rather than running a
// query with no identity.
func (gc *GuardedConn) Executor() BoundExecutor {
	return boundExec{gc: gc}
}

// BeginTx starts a transaction on the bound connection. Session-level
// security state remains visible inside the transaction.
func (gc *GuardedConn) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	conn, err := gc.live()
	if err != nil {
		return nil, err
	}
	return conn.BeginTx(ctx, opts)
}

// live returns the underlying connection or ErrReleased.
func (gc *GuardedConn) live() (*pgxpool.Conn, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.released || gc.conn == nil {
		return nil, ErrReleased
	}
	return gc.conn, nil
}

// Release clears the session security state and returns the connection to
// the pool. Idempotent: the second and later calls are no-ops.
//
// If clearing fails the physical connection is destroyed instead of pooled;
// a connection with unknown session state must never be reused.
func (gc *GuardedConn) Release(ctx context.Context) error {
	gc.mu.Lock()
	if gc.released {
		gc.mu.Unlock()
		return nil
	}
	gc.released = true
	conn := gc.conn
	gc.conn = nil
	gc.mu.Unlock()

	if conn == nil {
		return nil
	}

	// Detached context: the request may already be cancelled.
	clearCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	_, err := conn.Exec(clearCtx, clearRequestContextSQL)
	if err != nil {
		logger.Warn(ctx, "clear request context failed, destroying connection",
			"org_id", gc.ident.OrgIDString(),
			"error", err,
		)
		// Closing the underlying connection makes the pool destroy it on
		// Release instead of returning it for reuse.
		_ = conn.Conn().Close(clearCtx)
		conn.Release()
		return err
	}

	conn.Release()
	return nil
}
