package oauth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/schema"
)

func TestHandleCallbackStoresAndStrips(t *testing.T) {
	store := credentials.NewMemory()
	u, err := url.Parse("https://app.example.com/auth?accessToken=a1&refreshToken=r1&next=%2Fhome")
	require.NoError(t, err)

	clean, err := HandleCallback(store, u)
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/auth?next=%2Fhome", clean.String())
	assert.Contains(t, u.RawQuery, "accessToken", "input URL is not modified")

	pair, err := credentials.GetTokens(store)
	require.NoError(t, err)
	assert.Equal(t, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}, pair)
}

func TestHandleCallbackOnlyTokens(t *testing.T) {
	store := credentials.NewMemory()
	u, _ := url.Parse("http://127.0.0.1:9999/auth?accessToken=a1&refreshToken=r1")

	clean, err := HandleCallback(store, u)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999/auth", clean.String())
}

func TestHandleCallbackMissingToken(t *testing.T) {
	for _, raw := range []string{
		"https://app.example.com/auth",
		"https://app.example.com/auth?accessToken=a1",
		"https://app.example.com/auth?refreshToken=r1",
		"https://app.example.com/auth?accessToken=&refreshToken=r1",
	} {
		store := credentials.NewMemory()
		u, _ := url.Parse(raw)

		_, err := HandleCallback(store, u)
		assert.ErrorIs(t, err, ErrMissingTokens, raw)

		pair, _ := credentials.GetTokens(store)
		assert.Equal(t, schema.TokenPair{}, pair, raw)
	}
}

func TestListener(t *testing.T) {
	store := credentials.NewMemory()
	l, err := NewListener(store, "127.0.0.1:0", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	callbackURL, err := l.Start(ctx)
	require.NoError(t, err)

	resp, err := http.Get(callbackURL + "?accessToken=a1&refreshToken=r1")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Login complete")

	require.NoError(t, l.Wait(ctx))

	pair, _ := credentials.GetTokens(store)
	assert.Equal(t, "r1", pair.RefreshToken)
}

func TestListenerRejectsIncompleteCallback(t *testing.T) {
	store := credentials.NewMemory()
	l, err := NewListener(store, "127.0.0.1:0", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	callbackURL, err := l.Start(ctx)
	require.NoError(t, err)

	resp, err := http.Get(callbackURL + "?accessToken=a1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.ErrorIs(t, l.Wait(ctx), ErrMissingTokens)
}
