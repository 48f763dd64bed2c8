/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package oauth completes an OAuth login. The provider redirects back with
// the credential pair in the query string; HandleCallback stores the pair
// and returns the address with the tokens removed.
package oauth

import (
	"errors"
	"net/url"

	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/schema"
)

// ErrMissingTokens is returned when the callback lacks either token
var ErrMissingTokens = errors.New("callback is missing the access or refresh token")

// HandleCallback reads both tokens from the callback URL. If either is
// missing nothing is stored and ErrMissingTokens is returned. Otherwise the
// pair is stored and a copy of u without the token parameters is returned.
func HandleCallback(store interfaces.TokenStore, u *url.URL) (*url.URL, error) {
	if u == nil {
		return nil, ErrMissingTokens
	}

	query := u.Query()
	pair := schema.TokenPair{
		AccessToken:  query.Get(schema.OAuthAccessTokenParam),
		RefreshToken: query.Get(schema.OAuthRefreshTokenParam),
	}
	if !pair.Complete() {
		return nil, ErrMissingTokens
	}

	if err := credentials.SetTokens(store, pair); err != nil {
		return nil, err
	}

	query.Del(schema.OAuthAccessTokenParam)
	query.Del(schema.OAuthRefreshTokenParam)

	clean := *u
	clean.RawQuery = query.Encode()
	clean.ForceQuery = false
	return &clean, nil
}
