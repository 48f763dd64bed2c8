//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package interfaces

import (
	"context"

	"github.com/UnifyEM/uemauth/common/schema"
)

// Refresher exchanges a refresh token for a new credential pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (schema.TokenPair, error)
}

// LogoutHandler is invoked when credentials can no longer be recovered
type LogoutHandler interface {
	ForceLogout()
}
