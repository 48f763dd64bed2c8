/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/UnifyEM/uemauth/common"
)

// ErrNoRefresher is returned inside an AuthError when a refresh was needed
// but nothing was configured to perform it
var ErrNoRefresher = errors.New("no refresher configured")

// HTTPError is returned for any non-2xx status
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, common.SingleLine(string(e.Body)))
}

// AuthError reports an authorization failure that could not be recovered
// because the refresh failed. The session has been logged out.
type AuthError struct {
	Original error
	Refresh  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization failed and refresh was rejected: %v (refresh: %v)", e.Original, e.Refresh)
}

func (e *AuthError) Unwrap() []error {
	return []error{e.Original, e.Refresh}
}

// IsUnauthorized reports whether err carries a 401 status
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
