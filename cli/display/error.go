/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/UnifyEM/uemauth/common/communications"
)

var Out io.Writer = os.Stdout

// ErrorWrapper is a simple wrapper for CLI error handling.
// If there is an error, it prints it to the console.
func ErrorWrapper(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", Describe(err))
	}
}

// Describe returns a short explanation of err for the console
func Describe(err error) string {
	var authErr *communications.AuthError
	if errors.As(err, &authErr) {
		return "your session has expired and could not be renewed; please log in again"
	}

	var httpErr *communications.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("server returned HTTP %d", httpErr.StatusCode)
	}
	return err.Error()
}
