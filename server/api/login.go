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

// postLogin authenticates a user and returns access and refresh tokens
func (a *API) postLogin(req *http.Request) userver.JResponse {
	remoteIP := userver.RemoteIP(req)

	var loginRequest schema.LoginRequest
	if err := readJSON(req, &loginRequest); err != nil {
		a.logger.Error(2860, err.Error(), fields.NewFields(fields.NewField("src_ip", remoteIP)))
		return failureResponse
	}

	logInfo := fields.NewFields(
		fields.NewField("src_ip", remoteIP),
		fields.NewField("login", loginRequest.Login))

	if loginRequest.Login == "" || loginRequest.Password == "" {
		a.logger.Error(2861, "login missing required fields", logInfo)
		return failureResponse
	}

	resp, err := a.data.Login(loginRequest.Login, loginRequest.Password)
	if err != nil {
		logInfo.Append(fields.NewField("auth-result", "failed"), fields.NewField("error", err.Error()))
		a.logger.Error(2862, "login failed", logInfo)
		return failureResponse
	}

	logInfo.Append(fields.NewField("auth-result", "success"), fields.NewField("id", resp.UserID))
	a.logger.Info(2863, "successful login", logInfo)

	return userver.JResponse{HTTPCode: http.StatusOK, JSONData: resp}
}

// postLogout revokes the caller's refresh tokens
func (a *API) postLogout(req *http.Request) userver.JResponse {
	info, ok := GetAuthDetails(req)
	if !ok {
		return failureResponse
	}

	if err := a.data.Logout(info.UserID); err != nil {
		a.logger.Error(2867, "logout failed", fields.NewFields(
			fields.NewField("id", info.UserID),
			fields.NewField("error", err.Error())))
		return userver.Reply(http.StatusInternalServerError, schema.APIStatusError, "logout failed")
	}

	a.logger.Info(2868, "logged out", fields.NewFields(fields.NewField("id", info.UserID)))
	return userver.JResponse{HTTPCode: http.StatusNoContent}
}
