//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/common/userver"
)

// AuthInfo is attached to authenticated requests
type AuthInfo struct {
	UserID string
}

// NewAuthFunc returns an AuthFunc that accepts a valid access token. An
// expired token is answered with status "expired" so that clients know a
// refresh is worthwhile.
func (a *API) NewAuthFunc() userver.AuthFunc {
	return func(ip, authHeader string) (any, *userver.Response) {
		logFields := fields.NewFields(fields.NewField("src_ip", ip))

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			a.logger.Warning(2831, "authentication failure: missing or malformed Authorization header", logFields)
			return nil, authFail(false)
		}

		claims, err := a.data.ValidateToken(tokenString, schema.TokenPurposeAccess)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				a.logger.Info(2833, "authentication expired", logFields)
				return nil, authFail(true)
			}
			a.logger.Warning(2834, fmt.Sprintf("authentication failure: %s", err.Error()), logFields)
			return nil, authFail(false)
		}

		logFields.Append(fields.NewField("id", claims.Subject))
		a.logger.Debug(2835, "authentication success", logFields)
		return AuthInfo{UserID: claims.Subject}, nil
	}
}

func authFail(expired bool) *userver.Response {
	if expired {
		return &userver.Response{Status: schema.APIStatusExpired, Code: http.StatusUnauthorized, Details: "token expired"}
	}
	return &userver.Response{Status: schema.APIStatusError, Code: http.StatusUnauthorized, Details: "authentication failed"}
}

// GetAuthDetails returns the AuthInfo attached by the AuthFunc
func GetAuthDetails(req *http.Request) (AuthInfo, bool) {
	details, ok := userver.AuthDetails(req).(AuthInfo)
	return details, ok
}
