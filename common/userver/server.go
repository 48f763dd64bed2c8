/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package userver is the HTTP server shared by the development Auth service
// and the OAuth callback listener. Routes are served by gorilla/mux; each
// handler is either a plain http.Handler or a JHandler whose result is
// marshalled to JSON.
package userver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/ulogger"
)

// New returns a HServer struct with default values and options applied
func New(options ...func(*HServer) error) (*HServer, error) {
	s := &HServer{
		Listen:           "127.0.0.1:8080",
		HTTPTimeout:      60,
		HTTPIdleTimeout:  60,
		HandlerTimeout:   60,
		PenaltyBoxMin:    0,
		PenaltyBoxMax:    0,
		MaxConcurrent:    100,
		LogFile:          "", // Default to stdout
		DownFile:         "",
		SEid:             0,
		HealthHandler:    true,
		DefaultHeaders:   true,
		TLS:              false,
		TLSStrongCiphers: true,
		Debug:            false,
		ready:            make(chan struct{}),
	}

	// Process options (see options.go)
	for _, op := range options {
		err := op(s)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler builds the router from the configured routes. Start uses it; tests
// can serve it with httptest.
func (s *HServer) Handler() (http.Handler, error) {
	var err error

	// If there is no logger, create a new one and include stdout
	if s.Logger == nil {
		s.Logger, err = ulogger.New(
			ulogger.WithLogFile(s.LogFile),
			ulogger.WithLogStdout(true),
			ulogger.WithRetention(0),
			ulogger.WithDebug(s.Debug))
		if err != nil {
			return nil, err
		}
	}

	// Add default headers if requested
	if s.DefaultHeaders {
		s.AddHeader("Cache-Control", "no-cache, no-store, must-revalidate")
		s.AddHeader("Pragma", "no-cache")
		s.AddHeader("Expires", "0")
	}

	router := mux.NewRouter()

	if s.HealthHandler {
		router.Handle("/health", s.Wrapper("health", s.JWrapper("health", s.HandlerHealth), nil)).Methods(http.MethodGet)
	}

	// Wrap each handler with Wrapper() for logging and authentication
	for _, route := range s.Routes {
		if route.JHandler != nil {
			handler := s.Wrapper(route.Name, s.JWrapper(route.Name, route.JHandler), route.AuthFunc)
			router.Handle(route.Pattern, handler).Methods(route.Methods...)
		} else if route.Handler != nil {
			handler := s.Wrapper(route.Name, route.Handler, route.AuthFunc)
			router.Handle(route.Pattern, handler).Methods(route.Methods...)
		}
	}

	router.NotFoundHandler = s.Wrapper("Handler404", s.JWrapper("Handler404", s.Handler404), s.AuthFunc)
	router.MethodNotAllowedHandler = s.Wrapper("Handler405", s.JWrapper("Handler405", s.Handler405), s.AuthFunc)
	return router, nil
}

// Start serves until Stop is called. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *HServer) Start() error {
	router, err := s.Handler()
	if err != nil {
		return err
	}

	s.Logger.Info(s.SEid+1,
		"Starting server", fields.NewFields(fields.NewField("listen", s.Listen)))

	serv := &http.Server{
		Addr:              s.Listen,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(s.HTTPTimeout) * time.Second,
		ReadTimeout:       time.Duration(s.HTTPTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.HTTPTimeout) * time.Second,
		IdleTimeout:       time.Duration(s.HTTPIdleTimeout) * time.Second,
	}

	if s.TLS {
		cert, err := tls.LoadX509KeyPair(s.TLSCertFile, s.TLSKeyFile)
		if err != nil {
			return err
		}

		tlsConfig := tls.Config{Certificates: []tls.Certificate{cert}}
		tlsConfig.MinVersion = tls.VersionTLS12

		if s.TLSStrongCiphers {
			tlsConfig.CipherSuites = []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
				tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			}
		}
		serv.TLSConfig = &tlsConfig
	}

	return s.listen(serv)
}

// Stop shuts the server down, waiting for active requests until ctx expires
func (s *HServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return errors.New("server is not running")
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Addr blocks until the server is listening and returns the bound address.
// It returns "" if ctx ends first.
func (s *HServer) Addr(ctx context.Context) string {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener.Addr().String()
}

// AddRoutes adds routes to the router
func (s *HServer) AddRoutes(routes Routes) {
	for _, route := range routes {
		s.AddRoute(route)
	}
}

// AddRoute adds a route to the router
func (s *HServer) AddRoute(route Route) {
	s.Routes = append(s.Routes, route)
}

// AddHeader adds a header to the list
func (s *HServer) AddHeader(key, value string) {
	s.Headers = append(s.Headers, Header{key, value})
}

// listen is a replacement for ListenAndServe that implements a concurrent session limit
// using netutil.LimitListener. If maxConcurrent is 0, no limit is imposed.
func (s *HServer) listen(server *http.Server) error {
	addr := server.Addr
	if addr == "" {
		addr = ":http"
	}

	rawListener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	var listener net.Listener
	if s.MaxConcurrent > 0 {
		listener = netutil.LimitListener(rawListener, s.MaxConcurrent)
	} else {
		listener = rawListener
	}

	// Store the server to allow for a graceful shutdown
	s.mu.Lock()
	s.server = server
	s.listener = listener
	s.mu.Unlock()
	close(s.ready)

	if s.TLS {
		// This will use the previously configured TLS information
		return server.ServeTLS(listener, "", "")
	}
	return server.Serve(listener)
}
