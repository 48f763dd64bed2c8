/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package common

import (
	"strings"
)

// maxSnippet bounds how much of a server response body ends up in an error or log line
const maxSnippet = 256

// SingleLine normalizes a server response body for error messages and logging:
//   - trims leading/trailing whitespace
//   - replaces newlines with a visible marker
//   - collapses runs of whitespace into single spaces
//   - truncates anything longer than maxSnippet characters
func SingleLine(s string) string {
	if s == "" {
		return s
	}

	s = strings.TrimSpace(s)

	replacer := strings.NewReplacer(
		"\r\n", " ⏎ ",
		"\n", " ⏎ ",
		"\r", " ⏎ ",
	)
	s = strings.Join(strings.Fields(replacer.Replace(s)), " ")

	if r := []rune(s); len(r) > maxSnippet {
		s = string(r[:maxSnippet]) + "…"
	}
	return s
}
