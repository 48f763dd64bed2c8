//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package userver

import (
	"errors"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

// Functional options

func WithLogger(logger interfaces.Logger) func(*HServer) error {
	return func(e *HServer) error {
		if logger == nil {
			return errors.New("logger is nil")
		}
		e.Logger = logger
		return nil
	}
}

// WithListen sets the listen address. A port of 0 picks a free port; see Addr.
func WithListen(listen string) func(*HServer) error {
	return func(e *HServer) error {
		e.Listen = listen
		return nil
	}
}

func WithHTTPTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HTTPTimeout = t
		return nil
	}
}

func WithHTTPIdleTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HTTPIdleTimeout = t
		return nil
	}
}

func WithHandlerTimeout(t int) func(*HServer) error {
	return func(e *HServer) error {
		e.HandlerTimeout = t
		return nil
	}
}

// WithPenaltyBox delays failed authentication by min to max milliseconds
func WithPenaltyBox(min, max int) func(*HServer) error {
	return func(e *HServer) error {
		if min < 0 || max < min {
			return errors.New("invalid penalty box range")
		}
		e.PenaltyBoxMin = min
		e.PenaltyBoxMax = max
		return nil
	}
}

func WithMaxConcurrent(m int) func(*HServer) error {
	return func(e *HServer) error {
		e.MaxConcurrent = m
		return nil
	}
}

func WithLogFile(logfile string) func(*HServer) error {
	return func(e *HServer) error {
		e.LogFile = logfile
		return nil
	}
}

func WithDownFile(down string) func(*HServer) error {
	return func(e *HServer) error {
		e.DownFile = down
		return nil
	}
}

func WithSEid(seid uint32) func(*HServer) error {
	return func(e *HServer) error {
		e.SEid = seid
		return nil
	}
}

func WithHealthHandler(h bool) func(*HServer) error {
	return func(e *HServer) error {
		e.HealthHandler = h
		return nil
	}
}

func WithDefaultHeaders(d bool) func(*HServer) error {
	return func(e *HServer) error {
		e.DefaultHeaders = d
		return nil
	}
}

// WithTLS enables TLS with the given certificate and key files
func WithTLS(certFile, keyFile string) func(*HServer) error {
	return func(e *HServer) error {
		if certFile == "" || keyFile == "" {
			return errors.New("TLS cert or key file not specified")
		}
		e.TLS = true
		e.TLSCertFile = certFile
		e.TLSKeyFile = keyFile
		return nil
	}
}

func WithTLSStrongCiphers(c bool) func(*HServer) error {
	return func(e *HServer) error {
		e.TLSStrongCiphers = c
		return nil
	}
}

func WithDebug(d bool) func(*HServer) error {
	return func(e *HServer) error {
		e.Debug = d
		return nil
	}
}

func WithAuthFunc(authFunc AuthFunc) func(*HServer) error {
	return func(e *HServer) error {
		e.AuthFunc = authFunc
		return nil
	}
}
