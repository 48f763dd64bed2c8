/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"net/http"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
)

// postRefresh exchanges a refresh token for a new pair. The presented
// refresh token is revoked.
func (a *API) postRefresh(req *http.Request) userver.JResponse {
	logInfo := fields.NewFields(fields.NewField("src_ip", userver.RemoteIP(req)))

	var refreshRequest schema.RefreshRequest
	if err := readJSON(req, &refreshRequest); err != nil {
		logInfo.Append(fields.NewField("error", err.Error()))
		a.logger.Error(2864, "invalid refresh request", logInfo)
		return failureResponse
	}

	pair, err := a.data.Refresh(refreshRequest.Token)
	if err != nil {
		logInfo.Append(fields.NewField("refresh-result", "failed"), fields.NewField("error", err.Error()))
		a.logger.Error(2865, "access token refresh failed", logInfo)
		return failureResponse
	}

	logInfo.Append(fields.NewField("refresh-result", "success"))
	a.logger.Info(2866, "successful access token refresh", logInfo)

	return userver.JResponse{HTTPCode: http.StatusOK, JSONData: pair}
}
