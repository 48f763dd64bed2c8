/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"net"
	"net/http"
	"sync"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

type HServer struct {
	Headers          Headers
	Routes           Routes
	Listen           string
	HTTPTimeout      int
	HTTPIdleTimeout  int
	HandlerTimeout   int
	MaxConcurrent    int
	PenaltyBoxMin    int
	PenaltyBoxMax    int
	LogFile          string // Optional, defaults to stdout
	DownFile         string
	HealthHandler    bool
	DefaultHeaders   bool
	TLS              bool
	TLSCertFile      string
	TLSKeyFile       string
	TLSStrongCiphers bool
	Debug            bool
	AuthFunc         AuthFunc // Used for not found and method not allowed handlers
	Logger           interfaces.Logger
	SEid             uint32 // Starting event ID for logging

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	ready    chan struct{}
}

// AuthFunc is used as a callback to authenticate requests. It receives the
// source IP and the Authorization header. On success it returns the details
// to pass to the handler and a nil failure. On failure it returns the
// response to send; its Code is used as the HTTP status.
type AuthFunc func(src string, authorization string) (details any, fail *Response)

// Route defines a route for the HTTP router. It can include a
// standard handler that returns a http.Handler or a JHandler
// that returns a JResponse structure.
type Route struct {
	Name     string
	Methods  []string
	Pattern  string
	Handler  http.Handler
	JHandler JHandler
	AuthFunc AuthFunc
}

type Routes []Route

type Header struct {
	Key   string
	Value string
}

type Headers []Header

// Response provides a consistent set of fields for API responses
type Response struct {
	Status  string `json:"status"`            // Text Status
	Code    int    `json:"code"`              // HTTP status code
	Details string `json:"details,omitempty"` // optional response details
}

// JHandler is the type of the function to be wrapped
type JHandler func(req *http.Request) JResponse

// JResponse is the structure returned by the wrapped function. A nil
// JSONData sends the status with an empty body.
type JResponse struct {
	HTTPCode int
	JSONData any
}
