package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenCarriesIdentity(t *testing.T) {
	f := newFixture(t)

	token, err := f.jwt.GenerateAccess(&domain.User{ID: 42, Role: domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := f.jwt.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin())

	ok, err := f.jwt.IsAccessTokenValid(token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessTokenRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "bernd")

	refresh, err := f.jwt.GenerateRefresh(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.jwt.ParseAccess(refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "refresh token is not an access token")

	_, err = f.jwt.ParseAccess("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other := NewJWTAuth(f.auth, "another-secret", "refresh-secret", "verben-test", time.Hour, time.Minute)
	foreign, err := other.GenerateAccess(u)
	require.NoError(t, err)
	_, err = f.jwt.ParseAccess(foreign)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired := NewJWTAuth(f.auth, "access-secret", "refresh-secret", "verben-test", time.Hour, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateAccess(u)
	require.NoError(t, err)
	_, err = f.jwt.ParseAccess(old)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "clara")

	first, err := f.jwt.Issue(ctx, u)
	require.NoError(t, err)
	ok, err := f.jwt.IsRefreshTokenValid(ctx, first.Refresh)
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := f.jwt.RefreshRefreshToken(ctx, first.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, first.Refresh, second.Refresh)

	_, err = f.jwt.RefreshRefreshToken(ctx, first.Refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "a rotated refresh token is spent")

	require.NoError(t, f.jwt.Revoke(ctx, u.ID))
	ok, err = f.jwt.IsRefreshTokenValid(ctx, second.Refresh)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefreshTokenOfRemovedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "dora")

	pair, err := f.jwt.Issue(ctx, u)
	require.NoError(t, err)
	require.NoError(t, f.auth.RemoveUser(ctx, u.ID))

	ok, err := f.jwt.IsRefreshTokenValid(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.False(t, ok)
}
