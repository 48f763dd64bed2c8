//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

// Package client assembles the request pipeline used by every CLI command:
// the persistent token store, the session, communications and the auth
// service.
package client

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/cli/global"
	"github.com/UnifyEM/uemauth/common/auth"
	"github.com/UnifyEM/uemauth/common/communications"
	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/params"
	"github.com/UnifyEM/uemauth/common/session"
	"github.com/UnifyEM/uemauth/common/ulogger"
)

type Client struct {
	Conf    *params.Params
	Logger  interfaces.Logger
	Store   *credentials.Bolt
	Session *session.Session
	Comms   *communications.Communications
	Auth    *auth.Service
}

// New builds a Client from conf. Close must be called to release the token
// database.
func New(conf *params.Params) (*Client, error) {
	c := &Client{Conf: conf, Logger: null.Logger()}

	if conf.Get(global.ConfigDebug).Bool() {
		logger, err := ulogger.New(
			ulogger.WithPrefix(global.Name),
			ulogger.WithConsole(os.Stderr),
			ulogger.WithLogStdout(true),
			ulogger.WithRetention(0),
			ulogger.WithDebug(true))
		if err != nil {
			return nil, err
		}
		c.Logger = logger
	}

	store, err := credentials.OpenBolt(conf.Get(global.ConfigTokenDB).String())
	if err != nil {
		return nil, fmt.Errorf("unable to open token store: %w", err)
	}
	c.Store = store

	c.Session, err = session.New(
		session.WithStore(store),
		session.WithLogger(c.Logger),
		session.WithResetFunc(sessionExpired))
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Comms, err = communications.New(
		communications.WithStore(store),
		communications.WithBaseURL(conf.Get(global.ConfigServer).String()),
		communications.WithHTTPClient(&http.Client{Timeout: conf.Get(global.ConfigTimeout).Duration(time.Second)}),
		communications.WithLogger(c.Logger),
		communications.WithLogoutHandler(c.Session),
		communications.WithUserAgent(fmt.Sprintf("%s/%s", global.Name, global.Version)))
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Auth, err = auth.New(c.Comms, auth.WithLogger(c.Logger))
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Load reads the configuration and builds a Client
func Load() (*Client, error) {
	conf, err := global.Config()
	if err != nil {
		return nil, err
	}
	return New(conf)
}

func (c *Client) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// sessionExpired is the reset action for a forced logout
func sessionExpired() {
	display.Message("Session expired. Please log in again.")
}
