package communications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/schema"
)

// fakeRefresher records every refresh token it is given
type fakeRefresher struct {
	mu     sync.Mutex
	seen   []string
	result func(token string) (schema.TokenPair, error)
}

func (f *fakeRefresher) Refresh(_ context.Context, token string) (schema.TokenPair, error) {
	f.mu.Lock()
	f.seen = append(f.seen, token)
	f.mu.Unlock()
	return f.result(token)
}

func (f *fakeRefresher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// fakeLogout clears the store the way session.Session does and counts resets
type fakeLogout struct {
	store  *credentials.Memory
	resets atomic.Int32
}

func (f *fakeLogout) ForceLogout() {
	_ = credentials.ClearTokens(f.store)
	f.resets.Add(1)
}

// tokenServer answers 200 for any bearer token in valid and 401 otherwise
type tokenServer struct {
	*httptest.Server
	hits   atomic.Int32
	mu     sync.Mutex
	valid  map[string]bool
	auths  []string
	bodies []string
}

func newTokenServer(t *testing.T, valid ...string) *tokenServer {
	ts := &tokenServer{valid: make(map[string]bool)}
	for _, v := range valid {
		ts.valid[v] = true
	}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		body, _ := io.ReadAll(r.Body)
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		ts.mu.Lock()
		ts.auths = append(ts.auths, r.Header.Get("Authorization"))
		ts.bodies = append(ts.bodies, string(body))
		ok := ts.valid[token]
		ts.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"expired"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *tokenServer) authHeaders() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.auths...)
}

func rotateTo(access, refresh string) func(string) (schema.TokenPair, error) {
	return func(string) (schema.TokenPair, error) {
		return schema.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
	}
}

func newComms(t *testing.T, ts *tokenServer, options ...func(*Communications) error) (*Communications, *credentials.Memory) {
	store := credentials.NewMemory()
	options = append([]func(*Communications) error{WithStore(store), WithBaseURL(ts.URL)}, options...)
	c, err := New(options...)
	require.NoError(t, err)
	return c, store
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(WithStore(credentials.NewMemory()), WithBaseURL("ftp://nope"))
	assert.Error(t, err)
}

func TestDoAttachesStoredToken(t *testing.T) {
	ts := newTokenServer(t, "a1")
	c, store := newComms(t, ts)
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	status, body, err := c.Get(context.Background(), "/users/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.Equal(t, []string{"Bearer a1"}, ts.authHeaders())
}

func TestDoWithoutTokenIsUnauthenticated(t *testing.T) {
	ts := newTokenServer(t)
	c, _ := newComms(t, ts)

	_, _, err := c.Get(context.Background(), "/public")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, []string{""}, ts.authHeaders())
}

func TestDefaultTokenUsedWhenStoreIsEmpty(t *testing.T) {
	ts := newTokenServer(t, "d1")
	c, _ := newComms(t, ts)
	c.SetToken("d1")

	_, _, err := c.Get(context.Background(), "/users/me")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer d1"}, ts.authHeaders())
}

func TestRefreshAndReplay(t *testing.T) {
	ts := newTokenServer(t, "a2")
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	c, store := newComms(t, ts, WithRefresher(refresher))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	status, _, err := c.Post(context.Background(), "/items", map[string]string{"name": "widget"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, []string{"r1"}, refresher.calls())
	assert.Equal(t, []string{"Bearer a1", "Bearer a2"}, ts.authHeaders())

	// The body is sent again on the replay
	require.Len(t, ts.bodies, 2)
	assert.JSONEq(t, `{"name":"widget"}`, ts.bodies[1])
	assert.Equal(t, ts.bodies[0], ts.bodies[1])

	pair, err := credentials.GetTokens(store)
	require.NoError(t, err)
	assert.Equal(t, schema.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, pair)

	// Later requests use the new token without refreshing
	_, _, err = c.Get(context.Background(), "/users/me")
	require.NoError(t, err)
	assert.Len(t, refresher.calls(), 1)
	assert.Equal(t, "Bearer a2", ts.authHeaders()[2])
}

func TestRetriedAtMostOnce(t *testing.T) {
	ts := newTokenServer(t) // rejects everything
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	logout := &fakeLogout{}
	c, store := newComms(t, ts, WithRefresher(refresher))
	logout.store = store
	c.logout = logout
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	ex := NewExchange(http.MethodGet, "/users/me", nil)
	resp, err := c.Do(context.Background(), ex)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, ex.Retried())

	assert.Len(t, refresher.calls(), 1)
	assert.Equal(t, int32(2), ts.hits.Load())
	assert.Equal(t, int32(0), logout.resets.Load())

	// The refreshed pair is kept; only the replay's error is surfaced
	pair, _ := credentials.GetTokens(store)
	assert.Equal(t, "r2", pair.RefreshToken)

	// Sending the same exchange again does not start another refresh
	_, err = c.Do(context.Background(), ex)
	assert.True(t, IsUnauthorized(err))
	assert.Len(t, refresher.calls(), 1)
}

func TestNoRefreshWithoutRefreshToken(t *testing.T) {
	ts := newTokenServer(t)
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	logout := &fakeLogout{}
	c, store := newComms(t, ts, WithRefresher(refresher))
	logout.store = store
	c.logout = logout
	require.NoError(t, store.Set(schema.AccessTokenName, "a1"))

	_, _, err := c.Get(context.Background(), "/users/me")
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, refresher.calls())
	assert.Equal(t, int32(0), logout.resets.Load())

	// Nothing was deleted
	v, _ := store.Get(schema.AccessTokenName)
	assert.Equal(t, "a1", v)
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	ts := newTokenServer(t)
	refreshErr := errors.New("refresh token revoked")
	refresher := &fakeRefresher{result: func(string) (schema.TokenPair, error) {
		return schema.TokenPair{}, refreshErr
	}}
	logout := &fakeLogout{}
	c, store := newComms(t, ts, WithRefresher(refresher))
	logout.store = store
	c.logout = logout
	c.SetToken("stale")
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, _, err := c.Get(context.Background(), "/users/me")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, refreshErr)
	assert.True(t, IsUnauthorized(err), "original 401 is still reachable")

	assert.Equal(t, int32(1), logout.resets.Load())
	assert.Equal(t, int32(1), ts.hits.Load(), "no replay after a failed refresh")
	assert.Equal(t, "", c.defaultToken())

	pair, _ := credentials.GetTokens(store)
	assert.Equal(t, schema.TokenPair{}, pair)
}

func TestRefreshFailureWithoutHandlerClearsStore(t *testing.T) {
	ts := newTokenServer(t)
	refresher := &fakeRefresher{result: rotateTo("", "")} // incomplete pair
	c, store := newComms(t, ts, WithRefresher(refresher))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, _, err := c.Get(context.Background(), "/users/me")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)

	pair, _ := credentials.GetTokens(store)
	assert.Equal(t, schema.TokenPair{}, pair)
}

func TestMissingRefresherLogsOut(t *testing.T) {
	ts := newTokenServer(t)
	c, store := newComms(t, ts)
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, _, err := c.Get(context.Background(), "/users/me")
	assert.ErrorIs(t, err, ErrNoRefresher)

	v, _ := store.Get(schema.RefreshTokenName)
	assert.Equal(t, "", v)
}

func TestOtherErrorsPassThrough(t *testing.T) {
	for _, code := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope\nsecond line", code)
		}))

		refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
		store := credentials.NewMemory()
		require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
		c, err := New(WithStore(store), WithBaseURL(server.URL), WithRefresher(refresher))
		require.NoError(t, err)

		status, _, err := c.Get(context.Background(), "/thing")
		assert.Equal(t, code, status)
		assert.Equal(t, code, StatusCode(err))
		assert.NotContains(t, err.Error(), "\n")
		assert.Empty(t, refresher.calls())

		pair, _ := credentials.GetTokens(store)
		assert.Equal(t, "a1", pair.AccessToken)
		server.Close()
	}
}

func TestNetworkErrorPassesThrough(t *testing.T) {
	ts := newTokenServer(t)
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	c, store := newComms(t, ts, WithRefresher(refresher))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	ts.Close()

	resp, err := c.Do(context.Background(), NewExchange(http.MethodGet, "/users/me", nil))
	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
	assert.Empty(t, refresher.calls())
}

func TestNoRefreshExchange(t *testing.T) {
	ts := newTokenServer(t)
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	c, store := newComms(t, ts, WithRefresher(refresher))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, err := c.PostJSON(context.Background(), schema.EndpointLogin, schema.LoginRequest{Login: "alice"}, nil, SkipRefresh)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, refresher.calls())
}

func TestConcurrentRequestsRefreshIndependently(t *testing.T) {
	ts := newTokenServer(t, "a2")
	refresher := &fakeRefresher{result: rotateTo("a2", "r2")}
	c, store := newComms(t, ts, WithRefresher(refresher), WithSingleFlight(false))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	const n = 10
	exchanges := make([]*Exchange, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		exchanges[i] = NewExchange(http.MethodGet, "/users/me", nil)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Do(context.Background(), exchanges[i])
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.NoError(t, errs[i])
	}
	calls := refresher.calls()
	assert.GreaterOrEqual(t, len(calls), 1)
	assert.LessOrEqual(t, len(calls), n, "at most one refresh per request")
	assert.LessOrEqual(t, int(ts.hits.Load()), 2*n, "at most one replay per request")
}

func TestConcurrentRefreshIsCoalesced(t *testing.T) {
	const n = 10

	// Hold every first attempt until all of them are in flight
	var arrived sync.WaitGroup
	arrived.Add(n)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "a1" {
			arrived.Done()
			arrived.Wait()
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	// Single-use refresh tokens, as the server rotates them
	var mu sync.Mutex
	used := make(map[string]bool)
	next := 1
	refresher := &fakeRefresher{result: func(token string) (schema.TokenPair, error) {
		mu.Lock()
		defer mu.Unlock()
		if used[token] {
			return schema.TokenPair{}, errors.New("refresh token reused")
		}
		used[token] = true
		next++
		return schema.TokenPair{
			AccessToken:  "a" + strconv.Itoa(next),
			RefreshToken: "r" + strconv.Itoa(next),
		}, nil
	}}

	store := credentials.NewMemory()
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))
	c, err := New(WithStore(store), WithBaseURL(server.URL), WithRefresher(refresher))
	require.NoError(t, err)

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = c.Get(context.Background(), "/users/me")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.NoError(t, errs[i])
	}

	r1 := 0
	for _, token := range refresher.calls() {
		if token == "r1" {
			r1++
		}
	}
	assert.Equal(t, 1, r1, "the original refresh token is exchanged exactly once")
}

func TestCancelledRefreshKeepsCredentials(t *testing.T) {
	ts := newTokenServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	refresher := &fakeRefresher{result: func(string) (schema.TokenPair, error) {
		cancel()
		return schema.TokenPair{}, context.Canceled
	}}
	c, store := newComms(t, ts, WithRefresher(refresher), WithSingleFlight(false))
	require.NoError(t, credentials.SetTokens(store, schema.TokenPair{AccessToken: "a1", RefreshToken: "r1"}))

	_, _, err := c.Get(ctx, "/users/me")
	assert.ErrorIs(t, err, context.Canceled)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))

	pair, _ := credentials.GetTokens(store)
	assert.Equal(t, "r1", pair.RefreshToken)
}

func TestGetJSONDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "b=2", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"userId":"u1","login":"alice","name":"Alice"}`))
	}))
	defer server.Close()

	c, err := New(WithStore(credentials.NewMemory()), WithBaseURL(server.URL+"/"))
	require.NoError(t, err)

	var user schema.CurrentUser
	status, err := c.GetJSON(context.Background(), "users/me?b=2", &user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", user.Login)
}
