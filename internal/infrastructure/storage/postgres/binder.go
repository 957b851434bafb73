package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

var tracer = otel.Tracer("property-management/postgres")

// BindErrorKind classifies binder failures.
type BindErrorKind string

const (
	// BindPoolExhausted: no connection could be acquired (saturation or
	// acquire timeout).
	BindPoolExhausted BindErrorKind = "pool_exhausted"

	// BindSetStateFailed: a connection was acquired but writing the identity
	// into its session state failed. The connection is discarded, never
	// pooled with unknown state.
	BindSetStateFailed BindErrorKind = "set_state_failed"
)

// BindError is returned by Binder.Bind. Bind failures are fatal to the
// request: no query may execute without a confirmed-set identity.
type BindError struct {
	Kind BindErrorKind
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind security context (%s): %v", e.Kind, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Binder checks out dedicated connections and writes request identities
// into their session-local security state.
//
// One Binder serves the whole process; each Bind call produces an
// independent GuardedConn on its own physical connection.
type Binder struct {
	pool *pgxpool.Pool

	// acquireTimeout bounds how long Bind blocks on a saturated pool
	// before failing with BindPoolExhausted.
	acquireTimeout time.Duration
}

// NewBinder creates a Binder over the shared pool.
func NewBinder(pool *Pool) *Binder {
	return &Binder{pool: pool.Pool, acquireTimeout: pool.AcquireTimeout()}
}

// NewBinderFromRawPool creates a Binder from a raw pgxpool.Pool.
func NewBinderFromRawPool(pool *pgxpool.Pool) *Binder {
	return &Binder{pool: pool, acquireTimeout: DefaultPoolConfig("").AcquireTimeout}
}

// Bind acquires one connection and sets the identity's three fields in a
// single round trip. On success the returned handle is the exclusive owner
// of the connection until Release.
func (b *Binder) Bind(ctx context.Context, ri identity.RequestIdentity) (*GuardedConn, error) {
	ctx, span := tracer.Start(ctx, "security_context.bind",
		trace.WithAttributes(
			attribute.String("identity.org_id", ri.OrgIDString()),
			attribute.Bool("identity.super_admin", ri.IsSuperAdmin),
		))
	defer span.End()

	acquireCtx := ctx
	if b.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, b.acquireTimeout)
		defer cancel()
	}

	conn, err := b.pool.Acquire(acquireCtx)
	if err != nil {
		return nil, &BindError{Kind: BindPoolExhausted, Err: err}
	}

	// Identities travel as plain text; set_request_context(text, text,
	// boolean) stores them verbatim and the policies compare in text space.
	_, err = conn.Exec(ctx, setRequestContextSQL, ri.OrgIDString(), ri.UserIDString(), ri.IsSuperAdmin)
	if err != nil {
		// The session state is unknown; destroy the physical connection
		// rather than returning it to the pool.
		_ = conn.Conn().Close(ctx)
		conn.Release()
		return nil, &BindError{Kind: BindSetStateFailed, Err: err}
	}

	return &GuardedConn{conn: conn, ident: ri}, nil
}

// BindSystem binds an explicit super-admin identity. Migrations, scheduled
// jobs and fixture seeding go through here; there is no implicit
// "no identity means unrestricted" mode anywhere.
func (b *Binder) BindSystem(ctx context.Context) (*GuardedConn, error) {
	return b.Bind(ctx, identity.SuperAdmin())
}
