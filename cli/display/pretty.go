/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"encoding/json"
	"fmt"
)

func Pretty(v any) {

	// Marshal the interface into a JSON string with indentation
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(Out, "Error marshalling to JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(Out, string(jsonData))
}

// Message prints a line to Out
func Message(format string, v ...any) {
	_, _ = fmt.Fprintf(Out, format+"\n", v...)
}
