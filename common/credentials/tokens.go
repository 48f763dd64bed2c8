//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package credentials

import (
	"errors"
	"fmt"

	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/schema"
)

// ErrIncompletePair is returned when asked to store a pair with an empty token
var ErrIncompletePair = errors.New("both access and refresh tokens are required")

// SetTokens stores both tokens of a pair. Nothing is written unless both are present.
func SetTokens(store interfaces.TokenStore, pair schema.TokenPair) error {
	if !pair.Complete() {
		return ErrIncompletePair
	}
	if err := store.Set(schema.AccessTokenName, pair.AccessToken); err != nil {
		return fmt.Errorf("unable to store access token: %w", err)
	}
	if err := store.Set(schema.RefreshTokenName, pair.RefreshToken); err != nil {
		return fmt.Errorf("unable to store refresh token: %w", err)
	}
	return nil
}

// GetTokens returns whatever is currently stored. Either value may be empty.
func GetTokens(store interfaces.TokenStore) (schema.TokenPair, error) {
	access, err := store.Get(schema.AccessTokenName)
	if err != nil {
		return schema.TokenPair{}, fmt.Errorf("unable to read access token: %w", err)
	}
	refresh, err := store.Get(schema.RefreshTokenName)
	if err != nil {
		return schema.TokenPair{}, fmt.Errorf("unable to read refresh token: %w", err)
	}
	return schema.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ClearTokens deletes both tokens. Both deletes are attempted even if the first fails.
func ClearTokens(store interfaces.TokenStore) error {
	return errors.Join(
		store.Delete(schema.AccessTokenName),
		store.Delete(schema.RefreshTokenName))
}
