package db

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/common/schema"
)

func openTest(t *testing.T) *DB {
	d, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestHash(t *testing.T) {
	h, err := GenerateHash("secret")
	require.NoError(t, err)

	ok, err := VerifyHash("secret", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyHash("Secret", h)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyHash("secret", "garbage")
	assert.Error(t, err)
}

func TestAuth(t *testing.T) {
	d := openTest(t)

	require.NoError(t, d.AddAuth("Alice", "secret", "U-1"))
	assert.ErrorIs(t, d.AddAuth("alice", "other", "U-2"), ErrUserExists, "logins are case-insensitive")

	id, err := d.CheckAuth("ALICE", "secret")
	require.NoError(t, err)
	assert.Equal(t, "U-1", id)

	_, err = d.CheckAuth("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	info, err := d.GetAuth("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, info.FailCount)

	_, err = d.CheckAuth("nobody", "secret")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, d.SetPassword("alice", "new"))
	_, err = d.CheckAuth("alice", "new")
	assert.NoError(t, err)
}

func TestUserMeta(t *testing.T) {
	d := openTest(t)

	_, err := d.GetUserMeta("U-1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, d.UserActive("U-1"))

	require.NoError(t, d.SetUserMeta(schema.UserMeta{UserID: "U-1", Login: "alice", Active: true}))
	assert.True(t, d.UserActive("U-1"))
}

func TestConsumeRefreshOnce(t *testing.T) {
	d := openTest(t)
	require.NoError(t, d.AddRefresh("R-1", RefreshRecord{UserID: "U-1", Expires: time.Now().Add(time.Hour)}))

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := d.ConsumeRefresh("R-1")
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				assert.Equal(t, "U-1", rec.UserID)
			} else {
				assert.ErrorIs(t, err, ErrRefreshRevoked)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPruneAndRevoke(t *testing.T) {
	d := openTest(t)
	now := time.Now()
	require.NoError(t, d.AddRefresh("R-old", RefreshRecord{UserID: "U-1", Expires: now.Add(-time.Minute)}))
	require.NoError(t, d.AddRefresh("R-new", RefreshRecord{UserID: "U-1", Expires: now.Add(time.Minute)}))
	require.NoError(t, d.AddRefresh("R-bob", RefreshRecord{UserID: "U-2", Expires: now.Add(time.Minute)}))

	count, err := d.PruneRefresh(now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = d.RevokeUserRefresh("U-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	exists, err := d.KeyExists(BucketRefreshTokens, "R-bob")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestValidLogin(t *testing.T) {
	assert.True(t, ValidLogin("alice"))
	assert.True(t, ValidLogin(" Alice@Example.com "))
	assert.False(t, ValidLogin(""))
	assert.False(t, ValidLogin("a b"))
	assert.False(t, ValidLogin("-alice"))
}
