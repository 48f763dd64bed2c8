/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package communications is the authenticated request pipeline. Every
// outbound call goes through Communications.Do, which attaches the stored
// access token, and on a 401 refreshes the credentials once and replays the
// request. When refresh is impossible or rejected, the session is logged out.
package communications

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/UnifyEM/uemauth/common"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
)

const defaultTimeout = 30 * time.Second

type Communications struct {
	baseURL   string
	userAgent string
	client    *http.Client
	store     interfaces.TokenStore
	refresher interfaces.Refresher
	logout    interfaces.LogoutHandler
	logger    interfaces.Logger
	coalesce  bool
	group     singleflight.Group
	mu        sync.RWMutex
	token     string                      // default authorization, updated after a refresh
	rotated   map[string]schema.TokenPair // refresh tokens already exchanged by this client
}

// maxRotations bounds the memory of exchanged refresh tokens
const maxRotations = 16

// New returns a Communications object. A token store is mandatory; the
// refresher may be supplied later with SetRefresher.
func New(options ...func(*Communications) error) (*Communications, error) {
	c := &Communications{
		userAgent: "uemauth/" + common.Version,
		logger:    null.Logger(),
		coalesce:  true,
		rotated:   make(map[string]schema.TokenPair),
	}
	for _, option := range options {
		err := option(c)
		if err != nil {
			return nil, err
		}
	}

	if c.store == nil {
		return nil, errors.New("token store is required")
	}

	if c.client == nil {
		c.client = &http.Client{Timeout: defaultTimeout}
	}
	return c, nil
}

func WithStore(store interfaces.TokenStore) func(*Communications) error {
	return func(c *Communications) error {
		if store == nil {
			return errors.New("token store is nil")
		}
		c.store = store
		return nil
	}
}

// WithBaseURL sets the prefix for request paths that are not absolute URLs
func WithBaseURL(baseURL string) func(*Communications) error {
	return func(c *Communications) error {
		if baseURL == "" {
			return errors.New("base URL is empty")
		}
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return errors.New("base URL must start with http:// or https://")
		}
		c.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

func WithHTTPClient(client *http.Client) func(*Communications) error {
	return func(c *Communications) error {
		if client == nil {
			return errors.New("http client is nil")
		}
		c.client = client
		return nil
	}
}

func WithLogger(logger interfaces.Logger) func(*Communications) error {
	return func(c *Communications) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		c.logger = logger
		return nil
	}
}

func WithRefresher(refresher interfaces.Refresher) func(*Communications) error {
	return func(c *Communications) error {
		if refresher == nil {
			return errors.New("refresher is nil")
		}
		c.refresher = refresher
		return nil
	}
}

func WithLogoutHandler(handler interfaces.LogoutHandler) func(*Communications) error {
	return func(c *Communications) error {
		if handler == nil {
			return errors.New("logout handler is nil")
		}
		c.logout = handler
		return nil
	}
}

// WithSingleFlight controls whether concurrent 401s that hold the same
// refresh token share one refresh call. Enabled by default.
func WithSingleFlight(enabled bool) func(*Communications) error {
	return func(c *Communications) error {
		c.coalesce = enabled
		return nil
	}
}

func WithUserAgent(userAgent string) func(*Communications) error {
	return func(c *Communications) error {
		c.userAgent = userAgent
		return nil
	}
}

// SetRefresher is used when the refresher itself needs a Communications object
func (c *Communications) SetRefresher(refresher interfaces.Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = refresher
}

// SetToken sets the default authorization used when the store has no access token
func (c *Communications) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the default authorization
func (c *Communications) ClearToken() {
	c.SetToken("")
}

func (c *Communications) defaultToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Communications) getRefresher() interfaces.Refresher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresher
}

// Store returns the token store used by the pipeline
func (c *Communications) Store() interfaces.TokenStore {
	return c.store
}

// BaseURL returns the server prefix, without a trailing slash
func (c *Communications) BaseURL() string {
	return c.baseURL
}
