package postgres

import (
	"context"
	"errors"
)

// ErrNoBoundConn is returned when a handler reaches a repository without the
// request-bind middleware having run.
var ErrNoBoundConn = errors.New("no bound connection in context")

type guardedConnKey struct{}

// WithGuardedConn stores the request's guarded connection in context.
// Set by the request-bind middleware, read by handlers.
func WithGuardedConn(ctx context.Context, gc *GuardedConn) context.Context {
	return context.WithValue(ctx, guardedConnKey{}, gc)
}

// GuardedConnFromContext retrieves the request's guarded connection.
func GuardedConnFromContext(ctx context.Context) (*GuardedConn, error) {
	gc, ok := ctx.Value(guardedConnKey{}).(*GuardedConn)
	if !ok || gc == nil {
		return nil, ErrNoBoundConn
	}
	return gc, nil
}

// BoundFromContext returns the request's bound executor.
func BoundFromContext(ctx context.Context) (BoundExecutor, error) {
	gc, err := GuardedConnFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return gc.Executor(), nil
}

// MustBound returns the bound executor or panics.
// Use in handlers where a missing bind is a programming error (middleware
// ordering bug), not a runtime condition.
func MustBound(ctx context.Context) BoundExecutor {
	exec, err := BoundFromContext(ctx)
	if err != nil {
		panic("bound executor not in context: " + err.Error())
	}
	return exec
}
