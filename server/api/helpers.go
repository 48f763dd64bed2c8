/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
)

const maxBody = 64 * 1024

// failureResponse provides a consistent response to failed authentication attempts
var failureResponse = userver.Reply(http.StatusUnauthorized, schema.APIStatusError, "authentication failed")

var badRequestResponse = userver.Reply(http.StatusBadRequest, schema.APIStatusError, "invalid request")

// readJSON reads a bounded request body into v
func readJSON(req *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxBody+1))
	if err != nil {
		return fmt.Errorf("failed reading body: %w", err)
	}
	if len(body) > maxBody {
		return fmt.Errorf("request body exceeds %d bytes", maxBody)
	}
	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("deserialization error: %w", err)
	}
	return nil
}
