//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
	"github.com/UnifyEM/uemauth/server/data"
	"github.com/UnifyEM/uemauth/server/global"
)

type API struct {
	logger interfaces.Logger
	conf   *global.ServerConfig
	data   *data.Data
	server *userver.HServer
}

// New opens the data layer and prepares the HTTP server
func New(config *global.ServerConfig, logger interfaces.Logger) (*API, error) {
	d, err := data.New(config, logger)
	if err != nil {
		return nil, err
	}

	a := &API{logger: logger, conf: config, data: d}
	if err = a.newServer(); err != nil {
		d.Close()
		return nil, err
	}
	return a, nil
}

func (a *API) newServer() error {
	sc := a.conf.SC
	s, err := userver.New(
		userver.WithLogger(a.logger),
		userver.WithSEid(2500),
		userver.WithListen(sc.Get(global.ConfigListen).String()),
		userver.WithHTTPTimeout(sc.Get(global.ConfigHTTPTimeout).Int()),
		userver.WithHTTPIdleTimeout(sc.Get(global.ConfigHTTPIdleTimeout).Int()),
		userver.WithHandlerTimeout(sc.Get(global.ConfigHandlerTimeout).Int()),
		userver.WithMaxConcurrent(sc.Get(global.ConfigMaxConcurrent).Int()),
		userver.WithPenaltyBox(
			sc.Get(global.ConfigPenaltyBoxMin).Int(),
			sc.Get(global.ConfigPenaltyBoxMax).Int()),
		userver.WithDebug(global.Debug))
	if err != nil {
		return err
	}
	if s == nil {
		return errors.New("userver.New() returned nil")
	}

	s.AddRoutes(userver.Routes{
		{
			Name:     "login",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointLogin,
			JHandler: a.postLogin,
		},
		{
			Name:     "registration",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointRegistration,
			JHandler: a.postRegistration,
		},
		{
			Name:     "refresh",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointRefresh,
			JHandler: a.postRefresh,
		},
		{
			Name:     "logout",
			Methods:  []string{http.MethodPost},
			Pattern:  schema.EndpointLogout,
			JHandler: a.postLogout,
			AuthFunc: a.NewAuthFunc(),
		},
		{
			Name:     "me",
			Methods:  []string{http.MethodGet},
			Pattern:  schema.EndpointCurrentUser,
			JHandler: a.getCurrentUser,
			AuthFunc: a.NewAuthFunc(),
		},
	})

	a.server = s
	return nil
}

// Start serves the API until Stop is called
func (a *API) Start() error {
	a.logger.Infof(2001, "Starting API")
	err := a.server.Start()
	if errors.Is(err, http.ErrServerClosed) {
		a.logger.Infof(2002, "API stopped")
		return nil
	}
	return err
}

// Handler returns the API router without listening, for tests
func (a *API) Handler() (http.Handler, error) {
	return a.server.Handler()
}

// Stop shuts the server down and closes the database
func (a *API) Stop(ctx context.Context) {
	if err := a.server.Stop(ctx); err != nil {
		a.logger.Warningf(2005, "API shutdown: %s", err.Error())
	}
	a.Close()
}

// Close the data layer
func (a *API) Close() {
	a.data.Close()
}

// Tasks runs periodic maintenance
func (a *API) Tasks() {
	count, err := a.data.Prune()
	if err != nil {
		a.logger.Errorf(2006, "refresh token prune failed: %s", err.Error())
		return
	}
	if count > 0 {
		a.logger.Infof(2007, "pruned %d expired refresh tokens", count)
	}
}

// Data exposes the data layer to administrative commands
func (a *API) Data() *data.Data {
	return a.data
}
