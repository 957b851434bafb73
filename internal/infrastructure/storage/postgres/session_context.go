package postgres

import (
	"context"

	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

// Session-state protocol. These three database functions are the only
// statements the binder and the guarded handle issue outside of normal
// business queries. set_request_context writes all three identity fields in
// a single round trip so a connection never sits half-populated while a
// default-deny predicate evaluates.
const (
	setRequestContextSQL   = `SELECT set_request_context($1, $2, $3)`
	clearRequestContextSQL = `SELECT clear_request_context()`

	// readSessionContextSQL reads the raw session settings back. The second
	// argument to current_setting suppresses the error when the setting was
	// never defined on this connection, yielding NULL instead.
	readSessionContextSQL = `SELECT
		COALESCE(current_setting('app.current_org_id', true), ''),
		COALESCE(current_setting('app.current_user_id', true), ''),
		COALESCE(current_setting('app.is_super_admin', true), '')`
)

// SessionContext is the raw connection-local security state as the database
// reports it. Empty strings are the cleared sentinel.
type SessionContext struct {
	OrgID        string
	UserID       string
	IsSuperAdmin string
}

// IsEmpty reports whether the session carries no identity at all.
func (sc SessionContext) IsEmpty() bool {
	return sc.OrgID == "" && sc.UserID == "" && (sc.IsSuperAdmin == "" || sc.IsSuperAdmin == "false")
}

// Matches reports whether the session state mirrors the given identity.
func (sc SessionContext) Matches(ri identity.RequestIdentity) bool {
	if sc.OrgID != ri.OrgIDString() || sc.UserID != ri.UserIDString() {
		return false
	}
	if ri.IsSuperAdmin {
		return sc.IsSuperAdmin == "true"
	}
	return sc.IsSuperAdmin == "" || sc.IsSuperAdmin == "false"
}

// ReadSessionContext returns the current session security state of the
// connection behind exec. Meant for the verification harness; production
// code never needs to read the state back.
func ReadSessionContext(ctx context.Context, exec Executor) (SessionContext, error) {
	var sc SessionContext
	err := exec.QueryRow(ctx, readSessionContextSQL).Scan(&sc.OrgID, &sc.UserID, &sc.IsSuperAdmin)
	if err != nil {
		return SessionContext{}, err
	}
	return sc, nil
}
