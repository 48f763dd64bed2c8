//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package params

import (
	"strconv"
	"strings"
	"time"
)

type Value string

// String converts a Value to a string type
func (v Value) String() string {
	return string(v)
}

// Int converts a Value to an int type
func (v Value) Int() int {
	i, err := strconv.Atoi(v.String())
	if err != nil {
		return 0
	}
	return i
}

// Bool converts a Value to a bool type
func (v Value) Bool() bool {
	b, err := strconv.ParseBool(v.String())
	if err != nil {
		return false
	}
	return b
}

// Duration interprets an integer Value as a count of unit
func (v Value) Duration(unit time.Duration) time.Duration {
	return time.Duration(v.Int()) * unit
}

// SplitList converts a comma-separated Value to a []string, dropping empty entries
func (v Value) SplitList() []string {
	var list []string
	for _, part := range strings.Split(v.String(), ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}
