// Package identity defines the resolved request identity and its context plumbing.
//
// A RequestIdentity is the (organization, user, super-admin) triple extracted
// from the request credential. It is the only value the database session
// context is ever populated from, so everything downstream of the binder
// treats it as immutable.
package identity

import (
	"context"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

// RequestIdentity is the resolved identity of one request.
//
// OrgID and UserID are pointers so that "no organization" and "no user" are
// representable: an identity with both nil and IsSuperAdmin false is
// anonymous, and row-level policies deny it all tenant-scoped access. The
// application never special-cases anonymous identities; denial is the
// database's job.
type RequestIdentity struct {
	OrgID        *id.ID
	UserID       *id.ID
	IsSuperAdmin bool
}

// Anonymous returns the empty identity. Binding it is legal; the policies
// make every tenant-scoped table invisible to it.
func Anonymous() RequestIdentity {
	return RequestIdentity{}
}

// SuperAdmin returns an identity that bypasses row filtering.
// System-level work (migrations, scheduled jobs, fixture seeding) must bind
// this explicitly; running with no identity at all is policy-denied.
func SuperAdmin() RequestIdentity {
	return RequestIdentity{IsSuperAdmin: true}
}

// ForUser returns the identity of a regular user inside an organization.
func ForUser(orgID, userID id.ID) RequestIdentity {
	return RequestIdentity{OrgID: &orgID, UserID: &userID}
}

// IsAnonymous reports whether this identity carries no principal at all.
func (ri RequestIdentity) IsAnonymous() bool {
	return ri.OrgID == nil && ri.UserID == nil && !ri.IsSuperAdmin
}

// OrgIDString returns the organization ID or "" when unset. Used for logging.
func (ri RequestIdentity) OrgIDString() string {
	if ri.OrgID == nil {
		return ""
	}
	return ri.OrgID.String()
}

// UserIDString returns the user ID or "" when unset. Used for logging.
func (ri RequestIdentity) UserIDString() string {
	if ri.UserID == nil {
		return ""
	}
	return ri.UserID.String()
}

type identityKey struct{}

// WithIdentity adds RequestIdentity to context.
// Used by middleware to propagate the authenticated identity to the binder.
func WithIdentity(ctx context.Context, ri RequestIdentity) context.Context {
	return context.WithValue(ctx, identityKey{}, ri)
}

// FromContext returns the RequestIdentity from context.
// The second return is false when no identity was set; callers that reach
// the binder without one get the anonymous identity, never an implicit
// unrestricted mode.
func FromContext(ctx context.Context) (RequestIdentity, bool) {
	ri, ok := ctx.Value(identityKey{}).(RequestIdentity)
	return ri, ok
}

// FromContextOrAnonymous returns the identity from context, or Anonymous.
func FromContextOrAnonymous(ctx context.Context) RequestIdentity {
	if ri, ok := FromContext(ctx); ok {
		return ri
	}
	return Anonymous()
}
