/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

const (
	EndpointLogin        = "/auth/login"
	EndpointRegistration = "/auth/registration"
	EndpointRefresh      = "/auth/refresh"
	EndpointLogout       = "/auth/logout"
	EndpointCurrentUser  = "/users/me"
	EndpointOAuthReturn  = "/auth"
)

//goland:noinspection ALL
const (
	APIStatusOK      = "ok"
	APIStatusError   = "error"
	APIStatusExpired = "expired"
)

// Names of the two credential entries kept in a token store
const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"
)

// Query parameters carrying tokens on the OAuth return URL
const (
	OAuthAccessTokenParam  = "accessToken"
	OAuthRefreshTokenParam = "refreshToken"
)

// JWT purposes issued by the development server
const (
	TokenPurposeAccess  = "access"
	TokenPurposeRefresh = "refresh"
)
