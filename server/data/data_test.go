package data

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/server/db"
	"github.com/UnifyEM/uemauth/server/global"
)

func newTestData(t *testing.T) *Data {
	dir := t.TempDir()
	t.Setenv("UEMAUTH_DB", filepath.Join(dir, "db", "test.db"))
	t.Setenv("UEMAUTH_JWT_KEY", "test-key")

	conf, err := global.Config(filepath.Join(dir, "none.env"))
	require.NoError(t, err)

	d, err := New(conf, null.Logger())
	require.NoError(t, err)
	t.Cleanup(d.Close)

	randomDelay = func() {}
	return d
}

func registerAlice(t *testing.T, d *Data) schema.UserMeta {
	meta, err := d.Register(schema.RegistrationRequest{Login: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)
	return meta
}

func TestRegisterAndLogin(t *testing.T) {
	d := newTestData(t)
	meta := registerAlice(t, d)

	_, err := d.Register(schema.RegistrationRequest{Login: "Alice", Password: "x", Name: "Other"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = d.Register(schema.RegistrationRequest{Login: "bob", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = d.Register(schema.RegistrationRequest{Login: "bad login", Password: "x", Name: "Bad"})
	assert.ErrorIs(t, err, ErrInvalidLogin)

	resp, err := d.Login("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, meta.UserID, resp.UserID)
	assert.True(t, resp.Pair().Complete())

	claims, err := d.ValidateToken(resp.AccessToken, schema.TokenPurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, meta.UserID, claims.Subject)

	_, err = d.ValidateToken(resp.AccessToken, schema.TokenPurposeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "purpose is checked")

	_, err = d.Login("alice", "wrong")
	assert.ErrorIs(t, err, db.ErrInvalidPassword)

	user, err := d.CurrentUser(meta.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
}

func TestRefreshRotates(t *testing.T) {
	d := newTestData(t)
	registerAlice(t, d)

	resp, err := d.Login("alice", "secret")
	require.NoError(t, err)

	pair, err := d.Refresh(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, pair.RefreshToken)

	// The first refresh token is now revoked
	_, err = d.Refresh(resp.RefreshToken)
	assert.ErrorIs(t, err, db.ErrRefreshRevoked)

	// An access token is not a refresh token
	_, err = d.Refresh(pair.AccessToken)
	assert.Error(t, err)

	_, err = d.Refresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	d := newTestData(t)
	meta := registerAlice(t, d)

	resp, err := d.Login("alice", "secret")
	require.NoError(t, err)

	d.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = d.ValidateToken(resp.AccessToken, schema.TokenPurposeAccess)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	// Expired refresh records are pruned
	d.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	count, err := d.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, d.Logout(meta.UserID))
}

func TestLogoutRevokesRefresh(t *testing.T) {
	d := newTestData(t)
	meta := registerAlice(t, d)

	resp, err := d.Login("alice", "secret")
	require.NoError(t, err)
	require.NoError(t, d.Logout(meta.UserID))

	_, err = d.Refresh(resp.RefreshToken)
	assert.ErrorIs(t, err, db.ErrRefreshRevoked)
}
