/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package session owns the logged-in state: the stored credential pair and
// the application state that must be reset when it is lost.
package session

import (
	"errors"

	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
)

var _ interfaces.LogoutHandler = (*Session)(nil)

type Session struct {
	store  interfaces.TokenStore
	logger interfaces.Logger
	reset  func()
}

func New(options ...func(*Session) error) (*Session, error) {
	s := &Session{logger: null.Logger()}
	for _, option := range options {
		err := option(s)
		if err != nil {
			return nil, err
		}
	}

	if s.store == nil {
		return nil, errors.New("token store is required")
	}
	return s, nil
}

func WithStore(store interfaces.TokenStore) func(*Session) error {
	return func(s *Session) error {
		if store == nil {
			return errors.New("token store is nil")
		}
		s.store = store
		return nil
	}
}

func WithLogger(logger interfaces.Logger) func(*Session) error {
	return func(s *Session) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithResetFunc sets the function that returns the application to its
// initial, logged-out state
func WithResetFunc(reset func()) func(*Session) error {
	return func(s *Session) error {
		s.reset = reset
		return nil
	}
}

// ForceLogout deletes both tokens and resets the application state. It is
// called by the request pipeline when credentials cannot be recovered.
func (s *Session) ForceLogout() {
	s.clear(4001)
	s.logger.Info(4002, "session ended, resetting application state", nil)
	if s.reset != nil {
		s.reset()
	}
}

// Logout deletes both tokens without resetting the application state
func (s *Session) Logout() {
	s.clear(4003)
	s.logger.Info(4004, "logged out", nil)
}

// LoggedIn reports whether a refresh token is stored
func (s *Session) LoggedIn() bool {
	token, err := s.store.Get(schema.RefreshTokenName)
	return err == nil && token != ""
}

// Deletion failures are logged; the reset still runs
func (s *Session) clear(eid uint32) {
	if err := credentials.ClearTokens(s.store); err != nil {
		s.logger.Error(eid, "unable to delete credentials",
			fields.NewFields(fields.NewField("error", err.Error())))
	}
}
