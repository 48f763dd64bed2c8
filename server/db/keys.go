/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"regexp"
	"strings"
)

var validLogin = regexp.MustCompile(`^[a-z0-9][a-z0-9._@+-]{0,127}$`)

// LoginKey normalizes a login for use as a key. Logins are case-insensitive.
func LoginKey(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// ValidLogin reports whether the normalized login is acceptable
func ValidLogin(login string) bool {
	return validLogin.MatchString(LoginKey(login))
}
