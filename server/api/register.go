/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package api

import (
	"errors"
	"net/http"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
	"github.com/UnifyEM/uemauth/server/data"
)

// postRegistration creates an account. It answers 204 and does not log the user in.
func (a *API) postRegistration(req *http.Request) userver.JResponse {
	remoteIP := userver.RemoteIP(req)

	var regRequest schema.RegistrationRequest
	if err := readJSON(req, &regRequest); err != nil {
		a.logger.Error(2811, err.Error(), fields.NewFields(fields.NewField("src_ip", remoteIP)))
		return badRequestResponse
	}

	logInfo := fields.NewFields(
		fields.NewField("src_ip", remoteIP),
		fields.NewField("login", regRequest.Login))

	meta, err := a.data.Register(regRequest)
	switch {
	case errors.Is(err, data.ErrMissingFields), errors.Is(err, data.ErrInvalidLogin):
		a.logger.Error(2813, "registration rejected: "+err.Error(), logInfo)
		return userver.Reply(http.StatusBadRequest, schema.APIStatusError, err.Error())
	case errors.Is(err, data.ErrUserExists):
		a.logger.Error(2814, "registration rejected: "+err.Error(), logInfo)
		return userver.Reply(http.StatusConflict, schema.APIStatusError, err.Error())
	case err != nil:
		a.logger.Error(2816, "registration failed: "+err.Error(), logInfo)
		return userver.Reply(http.StatusInternalServerError, schema.APIStatusError, "registration failed")
	}

	logInfo.Append(fields.NewField("id", meta.UserID))
	a.logger.Info(2815, "registered", logInfo)
	return userver.JResponse{HTTPCode: http.StatusNoContent}
}
