/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package auth is the client for the Auth service: login, registration,
// token refresh and the current user lookup.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/UnifyEM/uemauth/common/communications"
	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
)

var _ interfaces.Refresher = (*Service)(nil)

var (
	ErrLoginRequired    = errors.New("login is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrNameRequired     = errors.New("name is required")
	ErrTokenRequired    = errors.New("refresh token is required")
	ErrEmptyToken       = errors.New("server returned an empty token")
)

type Service struct {
	comms  *communications.Communications
	logger interfaces.Logger
}

// New returns a Service that sends its requests through comms and installs
// itself as the refresher for comms.
func New(comms *communications.Communications, options ...func(*Service) error) (*Service, error) {
	if comms == nil {
		return nil, errors.New("communications is required")
	}

	s := &Service{comms: comms, logger: null.Logger()}
	for _, option := range options {
		err := option(s)
		if err != nil {
			return nil, err
		}
	}

	comms.SetRefresher(s)
	return s, nil
}

func WithLogger(logger interfaces.Logger) func(*Service) error {
	return func(s *Service) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// Login authenticates with login and password and stores the returned tokens
func (s *Service) Login(ctx context.Context, login, password string) (schema.LoginResponse, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return schema.LoginResponse{}, ErrLoginRequired
	}
	if password == "" {
		return schema.LoginResponse{}, ErrPasswordRequired
	}

	var resp schema.LoginResponse
	_, err := s.comms.PostJSON(ctx, schema.EndpointLogin,
		schema.LoginRequest{Login: login, Password: password}, &resp, communications.SkipRefresh)
	if err != nil {
		return schema.LoginResponse{}, fmt.Errorf("login failed: %w", err)
	}

	if !resp.Pair().Complete() {
		return schema.LoginResponse{}, ErrEmptyToken
	}

	if err = credentials.SetTokens(s.comms.Store(), resp.Pair()); err != nil {
		return schema.LoginResponse{}, err
	}

	s.logger.Info(5001, "logged in",
		fields.NewFields(
			fields.NewField("login", resp.Login),
			fields.NewField("userId", resp.UserID)))
	return resp, nil
}

// Register creates an account. The server normally answers 204 with no body;
// if it does return a credential pair, the pair is stored.
func (s *Service) Register(ctx context.Context, login, password, name string) error {
	login = strings.TrimSpace(login)
	name = strings.TrimSpace(name)
	if login == "" {
		return ErrLoginRequired
	}
	if password == "" {
		return ErrPasswordRequired
	}
	if name == "" {
		return ErrNameRequired
	}

	var pair schema.TokenPair
	_, err := s.comms.PostJSON(ctx, schema.EndpointRegistration,
		schema.RegistrationRequest{Login: login, Password: password, Name: name}, &pair, communications.SkipRefresh)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	logInfo := fields.NewFields(fields.NewField("login", login))
	if pair.Complete() {
		if err = credentials.SetTokens(s.comms.Store(), pair); err != nil {
			return err
		}
		logInfo.AppendKV("loggedIn", true)
	}

	s.logger.Info(5002, "registered", logInfo)
	return nil
}

// Refresh exchanges refreshToken for a new pair. It never persists the result;
// the request pipeline does that. The request is sent without the refresh
// protocol so a rejected refresh cannot recurse.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (schema.TokenPair, error) {
	if refreshToken == "" {
		return schema.TokenPair{}, ErrTokenRequired
	}

	var pair schema.TokenPair
	_, err := s.comms.PostJSON(ctx, schema.EndpointRefresh,
		schema.RefreshRequest{Token: refreshToken}, &pair, communications.SkipRefresh)
	if err != nil {
		return schema.TokenPair{}, fmt.Errorf("refresh failed: %w", err)
	}

	if !pair.Complete() {
		return schema.TokenPair{}, ErrEmptyToken
	}
	return pair, nil
}

// CurrentUser returns the account the stored credentials belong to
func (s *Service) CurrentUser(ctx context.Context) (schema.CurrentUser, error) {
	var user schema.CurrentUser
	status, err := s.comms.GetJSON(ctx, schema.EndpointCurrentUser, &user)
	if err != nil {
		return schema.CurrentUser{}, err
	}
	if status == http.StatusNoContent || user.UserID == "" {
		return schema.CurrentUser{}, errors.New("server returned no user")
	}
	return user, nil
}

// Logout asks the server to revoke the user's refresh tokens and then
// deletes the local credentials. The local credentials are removed even if
// the server cannot be reached.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.comms.PostJSON(ctx, schema.EndpointLogout, nil, nil, communications.SkipRefresh)
	if err != nil {
		s.logger.Warning(5005, "server logout failed", fields.NewFields(fields.NewField("error", err.Error())))
	}

	s.comms.ClearToken()
	if clearErr := credentials.ClearTokens(s.comms.Store()); clearErr != nil {
		return fmt.Errorf("unable to delete stored tokens: %w", clearErr)
	}

	s.logger.Info(5006, "logged out", nil)
	return nil
}
