//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/cli/global"
	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/schema"
)

func testConfig(t *testing.T, server string) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("UEMAUTH_SERVER", "")
	t.Setenv("UEMAUTH_TOKEN_DB", filepath.Join(home, "tokens.db"))
	require.NoError(t, os.WriteFile(filepath.Join(home, global.ConfigFile),
		[]byte("UEMAUTH_SERVER="+server+"\nUEMAUTH_TIMEOUT=5\n"), 0600))
}

func TestLoadRequiresServer(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("UEMAUTH_SERVER", "")

	_, err := Load()
	assert.ErrorIs(t, err, global.ErrNoServer)
}

func TestForcedLogoutPrintsNotice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)
	testConfig(t, server.URL)

	var out bytes.Buffer
	old := display.Out
	display.Out = &out
	t.Cleanup(func() { display.Out = old })

	c, err := Load()
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, credentials.SetTokens(c.Store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, err = c.Auth.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, out.String(), "Session expired")
	assert.False(t, c.Session.LoggedIn())
}

func TestTokensPersistAcrossClients(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(schema.LoginResponse{
			AccessToken: "a1", RefreshToken: "r1", Login: "alice", UserID: "u1"})
	}))
	t.Cleanup(server.Close)
	testConfig(t, server.URL)

	c, err := Load()
	require.NoError(t, err)
	_, err = c.Auth.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	c.Close()

	c, err = Load()
	require.NoError(t, err)
	defer c.Close()
	assert.True(t, c.Session.LoggedIn())
}
