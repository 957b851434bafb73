package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

func TestAnonymous(t *testing.T) {
	ri := Anonymous()

	assert.True(t, ri.IsAnonymous())
	assert.Nil(t, ri.OrgID)
	assert.Nil(t, ri.UserID)
	assert.False(t, ri.IsSuperAdmin)
	assert.Equal(t, "", ri.OrgIDString())
	assert.Equal(t, "", ri.UserIDString())
}

func TestSuperAdmin(t *testing.T) {
	ri := SuperAdmin()

	assert.False(t, ri.IsAnonymous())
	assert.True(t, ri.IsSuperAdmin)
	assert.Nil(t, ri.OrgID)
	assert.Nil(t, ri.UserID)
}

func TestForUser(t *testing.T) {
	orgID := id.New()
	userID := id.New()

	ri := ForUser(orgID, userID)

	assert.False(t, ri.IsAnonymous())
	assert.False(t, ri.IsSuperAdmin)
	assert.Equal(t, orgID.String(), ri.OrgIDString())
	assert.Equal(t, userID.String(), ri.UserIDString())
}

func TestContextRoundTrip(t *testing.T) {
	ri := ForUser(id.New(), id.New())

	ctx := WithIdentity(context.Background(), ri)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, ri, got)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ri := FromContextOrAnonymous(context.Background())
	assert.True(t, ri.IsAnonymous())
}

func TestTraceContext(t *testing.T) {
	trace := NewTraceContext()
	assert.NotEmpty(t, trace.TraceID)
	assert.NotEmpty(t, trace.RequestID)
	assert.Len(t, trace.SpanID, 16)

	ctx := WithTrace(context.Background(), trace)
	assert.Equal(t, trace, GetTrace(ctx))
	assert.Equal(t, trace.RequestID, GetRequestID(ctx))

	assert.Nil(t, GetTrace(context.Background()))
	assert.Equal(t, "", GetRequestID(context.Background()))
}
