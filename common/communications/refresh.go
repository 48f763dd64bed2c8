/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnifyEM/uemauth/common/credentials"
	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
)

// afterResponse implements the refresh protocol for a completed attempt
func (c *Communications) afterResponse(ctx context.Context, ex *Exchange, resp *Response, err error) (*Response, error) {
	if !IsUnauthorized(err) {
		return resp, err
	}

	logInfo := fields.NewFields(
		fields.NewField("method", ex.Method),
		fields.NewField("path", ex.Path))

	// One refresh per exchange, ever
	if ex.retried || ex.NoRefresh {
		return resp, err
	}

	pair, sErr := credentials.GetTokens(c.store)
	if sErr != nil {
		logInfo.AppendKV("error", sErr.Error())
		c.logger.Warning(3010, "unable to read credentials", logInfo)
		return resp, err
	}

	// Not logged in, or the pair is already gone. Nothing to clear.
	if pair.RefreshToken == "" {
		c.logger.Debug(3011, "authorization rejected and no refresh token is stored", logInfo)
		return resp, err
	}

	ex.retried = true

	// Another request refreshed while this one was in flight
	if c.coalesce && pair.AccessToken != "" && ex.sentToken != "" && pair.AccessToken != ex.sentToken {
		c.logger.Debug(3018, "credentials changed in flight, replaying request", logInfo)
		return c.Do(ctx, ex)
	}

	if c.getRefresher() == nil {
		c.logger.Error(3012, "authorization rejected and no refresher is configured", logInfo)
		c.forceLogout()
		return resp, &AuthError{Original: err, Refresh: ErrNoRefresher}
	}

	c.logger.Info(3013, "access token rejected, refreshing", logInfo)

	_, rErr := c.refresh(ctx, pair.RefreshToken)
	if rErr != nil {
		// The caller gave up. The stored credentials may still be good.
		if ctx.Err() != nil {
			return resp, fmt.Errorf("refresh interrupted: %w", ctx.Err())
		}

		logInfo.AppendKV("error", rErr.Error())
		c.logger.Warning(3014, "refresh failed, logging out", logInfo)
		c.forceLogout()
		return resp, &AuthError{Original: err, Refresh: rErr}
	}

	c.logger.Info(3015, "refresh succeeded, replaying request", logInfo)
	return c.Do(ctx, ex)
}

// refresh exchanges refreshToken for a new pair. With coalescing enabled,
// concurrent callers holding the same refresh token share one call, and a
// refresh token that this client already exchanged is not sent again.
func (c *Communications) refresh(ctx context.Context, refreshToken string) (schema.TokenPair, error) {
	if !c.coalesce {
		return c.exchangeRefresh(ctx, refreshToken)
	}

	// Detached from the first caller so that its cancellation does not fail the others
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshToken, func() (any, error) {
		if pair, ok := c.previousRotation(refreshToken); ok {
			return pair, nil
		}

		pair, err := c.exchangeRefresh(shared, refreshToken)
		if err != nil {
			return nil, err
		}
		c.recordRotation(refreshToken, pair)
		return pair, nil
	})

	select {
	case <-ctx.Done():
		return schema.TokenPair{}, ctx.Err()
	case result := <-ch:
		if result.Err != nil {
			return schema.TokenPair{}, result.Err
		}
		return result.Val.(schema.TokenPair), nil
	}
}

func (c *Communications) previousRotation(refreshToken string) (schema.TokenPair, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pair, ok := c.rotated[refreshToken]
	return pair, ok
}

func (c *Communications) recordRotation(refreshToken string, pair schema.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.rotated) >= maxRotations {
		clear(c.rotated)
	}
	c.rotated[refreshToken] = pair
}

// exchangeRefresh calls the refresher and persists the result
func (c *Communications) exchangeRefresh(ctx context.Context, refreshToken string) (schema.TokenPair, error) {
	refresher := c.getRefresher()
	if refresher == nil {
		return schema.TokenPair{}, ErrNoRefresher
	}

	pair, err := refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return schema.TokenPair{}, err
	}
	if !pair.Complete() {
		return schema.TokenPair{}, errors.New("refresh returned an incomplete credential pair")
	}

	// Without the new pair in the store the replay would carry the old token
	if err = credentials.SetTokens(c.store, pair); err != nil {
		return schema.TokenPair{}, fmt.Errorf("unable to persist refreshed credentials: %w", err)
	}

	c.SetToken(pair.AccessToken)

	c.logger.Debug(3016, "credentials refreshed",
		fields.NewFields(fields.NewSecretField("access_token", pair.AccessToken)))
	return pair, nil
}

// forceLogout clears the default authorization and hands off to the logout
// handler. Without a handler the stored tokens are deleted directly.
func (c *Communications) forceLogout() {
	c.mu.Lock()
	c.token = ""
	clear(c.rotated)
	c.mu.Unlock()

	if c.logout != nil {
		c.logout.ForceLogout()
		return
	}

	if err := credentials.ClearTokens(c.store); err != nil {
		c.logger.Error(3017, "unable to clear credentials",
			fields.NewFields(fields.NewField("error", err.Error())))
	}
}
