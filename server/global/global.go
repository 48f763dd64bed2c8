//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package global

import "github.com/UnifyEM/uemauth/common"

const (
	Version     = common.Version
	Build       = common.Build
	Name        = "UEMAuthServer"
	LogName     = "uemauth-server"
	Description = "UEMAuth Development Server"
	EnvPrefix   = "UEMAUTH_"
	EnvFile     = ".env"
	TaskTicker  = 60 // seconds between maintenance tasks
	TokenLength = 64 // Length of the generated JWT key prior to base-64 encoding
)

var Debug = false
