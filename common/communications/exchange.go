/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import "net/http"

// Exchange describes one logical request. The body is held in memory so that
// the request can be sent again after a refresh.
type Exchange struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte

	// NoRefresh marks requests that must never start a refresh, such as
	// login, registration and the refresh call itself
	NoRefresh bool

	// set once the exchange has been through a refresh; never cleared
	retried bool

	// access token attached to the most recent attempt
	sentToken string
}

// NewExchange returns an Exchange for method and path. Path may be relative to
// the base URL or an absolute URL.
func NewExchange(method, path string, body []byte) *Exchange {
	return &Exchange{
		Method: method,
		Path:   path,
		Header: make(http.Header),
		Body:   body,
	}
}

// Retried reports whether the exchange has already been replayed after a refresh
func (e *Exchange) Retried() bool {
	return e.retried
}

// Response is a completed HTTP exchange with the body already read
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
