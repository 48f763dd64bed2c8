/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import "github.com/UnifyEM/uemauth/common"

//goland:noinspection GoUnusedConst
const (
	Version         = common.Version
	Build           = common.Build
	Name            = "uemauth"
	Description     = "UEMAuth CLI"
	LongDescription = "UEMAuth command line interface: login, registration and authenticated requests"
	EnvPrefix       = "UEMAUTH_"
	ConfigFile      = ".uemauth"
)

// Set by persistent flags
var (
	ServerFlag string
	DebugFlag  bool
)
