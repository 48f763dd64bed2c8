//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package api

import (
	"net/http"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
)

// getCurrentUser returns the user the access token was issued to
func (a *API) getCurrentUser(req *http.Request) userver.JResponse {
	info, ok := GetAuthDetails(req)
	if !ok {
		return failureResponse
	}

	user, err := a.data.CurrentUser(info.UserID)
	if err != nil {
		a.logger.Warning(2871, "current user lookup failed", fields.NewFields(
			fields.NewField("id", info.UserID),
			fields.NewField("error", err.Error())))

		// A token for a deleted or disabled user is no longer acceptable
		return userver.Reply(http.StatusUnauthorized, schema.APIStatusError, "user not found")
	}

	return userver.JResponse{HTTPCode: http.StatusOK, JSONData: user}
}
