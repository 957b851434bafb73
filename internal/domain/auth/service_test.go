package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hanibalsk/property-management-sub005/internal/core/apperror"
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
)

type fakeCredentialStore struct {
	users       map[string]*User
	memberships map[id.ID]map[id.ID]bool
}

func (f *fakeCredentialStore) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (f *fakeCredentialStore) HasMembership(_ context.Context, userID, orgID id.ID) (bool, error) {
	return f.memberships[userID][orgID], nil
}

func newLoginFixture(t *testing.T) (*Service, *User, id.ID) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	orgID := id.New()
	user := &User{
		ID:           id.New(),
		Email:        "manager@example.com",
		PasswordHash: string(hash),
		DisplayName:  "Manager",
	}

	store := &fakeCredentialStore{
		users: map[string]*User{user.Email: user},
		memberships: map[id.ID]map[id.ID]bool{
			user.ID: {orgID: true},
		},
	}

	return NewService(store, newTestJWTService()), user, orgID
}

func TestLoginSuccess(t *testing.T) {
	svc, user, orgID := newLoginFixture(t)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct-horse",
		OrgID:    &orgID,
	})
	require.NoError(t, err)

	assert.Equal(t, user.ID, result.UserID)
	require.NotNil(t, result.OrgID)
	assert.Equal(t, orgID, *result.OrgID)

	ri, err := newTestJWTService().ExtractIdentity(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, orgID.String(), ri.OrgIDString())
	assert.Equal(t, user.ID.String(), ri.UserIDString())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, user, orgID := newLoginFixture(t)
	foreignOrg := id.New()

	tests := []struct {
		name  string
		input LoginInput
	}{
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "correct-horse", OrgID: &orgID}},
		{"wrong password", LoginInput{Email: user.Email, Password: "wrong", OrgID: &orgID}},
		{"no membership", LoginInput{Email: user.Email, Password: "correct-horse", OrgID: &foreignOrg}},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.input)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
			messages = append(messages, appErr.Message)
		})
	}

	for _, msg := range messages {
		assert.Equal(t, messages[0], msg)
	}
}

func TestLoginRequiresOrgForRegularUser(t *testing.T) {
	svc, user, _ := newLoginFixture(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLoginSuperAdminWithoutOrg(t *testing.T) {
	svc, user, _ := newLoginFixture(t)
	user.IsSuperAdmin = true

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Nil(t, result.OrgID)

	ri, err := newTestJWTService().ExtractIdentity(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, ri.IsSuperAdmin)
}

func TestLoginSuperAdminMaySelectForeignOrg(t *testing.T) {
	svc, user, _ := newLoginFixture(t)
	user.IsSuperAdmin = true
	foreignOrg := id.New()

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    user.Email,
		Password: "correct-horse",
		OrgID:    &foreignOrg,
	})
	require.NoError(t, err)
	require.NotNil(t, result.OrgID)
	assert.Equal(t, foreignOrg, *result.OrgID)
}
