package usecase

import (
	"context"
	"testing"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceSignUpSignIn(t *testing.T) {
	f := newFixture(t)
	s := NewAuthService(f.auth, f.jwt)
	ctx := context.Background()

	token, err := s.SignUp(ctx, domain.AuthCredentials{Username: " Emil ", Password: "sicher123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Access)
	assert.NotEmpty(t, token.Refresh)

	claims, err := f.jwt.ParseAccess(token.Access)
	require.NoError(t, err)
	me, err := s.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "emil", me.Username)
	assert.Equal(t, domain.RoleUser, me.Role)

	_, err = s.SignUp(ctx, domain.AuthCredentials{Username: "emil", Password: "sicher123"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.SignUp(ctx, domain.AuthCredentials{Username: "x", Password: "sicher123"})
	assert.True(t, domain.IsValidation(err))
	_, err = s.SignUp(ctx, domain.AuthCredentials{Username: "frieda", Password: "kurz"})
	assert.True(t, domain.IsValidation(err))

	_, err = s.SignIn(ctx, "EMIL", "sicher123")
	require.NoError(t, err)
	_, err = s.SignIn(ctx, "emil", "falsch123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthServicePromoteAndSignOut(t *testing.T) {
	f := newFixture(t)
	s := NewAuthService(f.auth, f.jwt)
	ctx := context.Background()
	u := f.user(t, "gerda")

	promoted, err := s.Promote(ctx, "gerda")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)
	_, err = s.Promote(ctx, "niemand")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	token, err := s.SignIn(ctx, "gerda", "passwort123")
	require.NoError(t, err)
	claims, err := f.jwt.ParseAccess(token.Access)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())

	require.NoError(t, s.SignOut(ctx, u.ID))
	_, err = s.Refresh(ctx, token.Refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	_, err = s.Me(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
