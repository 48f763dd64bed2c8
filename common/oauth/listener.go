/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
)

const (
	pageSuccess = "<html><body><h3>Login complete.</h3><p>You may close this window.</p></body></html>\n"
	pageFailure = "<html><body><h3>Login failed.</h3><p>%s</p></body></html>\n"
)

// Listener accepts the provider redirect on a loopback address
type Listener struct {
	store  interfaces.TokenStore
	logger interfaces.Logger
	server *userver.HServer
	result chan error
	once   sync.Once
	errCh  chan error
}

// NewListener prepares a listener on listen, for example "127.0.0.1:0"
func NewListener(store interfaces.TokenStore, listen string, logger interfaces.Logger) (*Listener, error) {
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if logger == nil {
		logger = null.Logger()
	}

	server, err := userver.New(
		userver.WithListen(listen),
		userver.WithLogger(logger),
		userver.WithSEid(6000),
		userver.WithMaxConcurrent(4),
		userver.WithHTTPTimeout(30),
		userver.WithHealthHandler(false))
	if err != nil {
		return nil, err
	}

	l := &Listener{
		store:  store,
		logger: logger,
		server: server,
		result: make(chan error, 1),
		errCh:  make(chan error, 1),
	}

	server.AddRoute(userver.Route{
		Name:    "oauth",
		Methods: []string{http.MethodGet},
		Pattern: schema.EndpointOAuthReturn,
		Handler: http.HandlerFunc(l.callback),
	})
	return l, nil
}

// Start begins listening and returns the callback URL to give the provider
func (l *Listener) Start(ctx context.Context) (string, error) {
	go func() {
		if err := l.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.errCh <- err
		}
	}()

	addrCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	addr := make(chan string, 1)
	go func() { addr <- l.server.Addr(addrCtx) }()

	select {
	case err := <-l.errCh:
		return "", fmt.Errorf("unable to start callback listener: %w", err)
	case a := <-addr:
		if a == "" {
			return "", errors.New("callback listener did not start")
		}
		return "http://" + a + schema.EndpointOAuthReturn, nil
	}
}

// Wait blocks until a callback has been handled or ctx ends, then stops the
// listener. The first callback decides the result.
func (l *Listener) Wait(ctx context.Context) error {
	var err error
	select {
	case err = <-l.result:
	case err = <-l.errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.server.Stop(stopCtx)
	return err
}

func (l *Listener) callback(w http.ResponseWriter, req *http.Request) {
	_, err := HandleCallback(l.store, req.URL)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		l.logger.Warning(6020, "OAuth callback rejected",
			fields.NewFields(fields.NewField("error", err.Error())))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintf(w, pageFailure, html.EscapeString(err.Error()))
	} else {
		l.logger.Info(6021, "OAuth callback accepted", nil)
		_, _ = w.Write([]byte(pageSuccess))
	}

	l.once.Do(func() { l.result <- err })
}
