//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package global

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/UnifyEM/uemauth/common/params"
)

const (
	ConfigServer  = "server"
	ConfigLogin   = "login"
	ConfigPass    = "pass"
	ConfigTokenDB = "token_db"
	ConfigTimeout = "timeout" // seconds
	ConfigDebug   = "debug"
)

var ErrNoServer = errors.New(EnvPrefix + "SERVER is not set; use --server or add it to ~/" + ConfigFile)

// Config loads ~/.uemauth and the environment, then applies the persistent
// flags. Extra env files are read after ~/.uemauth.
func Config(envFiles ...string) (*params.Params, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := params.New(EnvPrefix)
	c.SetConstraint(ConfigServer, 0, 0, "")
	c.SetConstraint(ConfigLogin, 0, 0, "")
	c.SetConstraint(ConfigPass, 0, 0, "")
	c.SetConstraint(ConfigTokenDB, 0, 0, filepath.Join(homeDir, ConfigFile+".db"))
	c.SetConstraint(ConfigTimeout, 1, 600, 30)
	c.SetConstraint(ConfigDebug, 0, 0, false)
	c.SetSecret(ConfigPass)

	files := append([]string{filepath.Join(homeDir, ConfigFile)}, envFiles...)
	if err = c.LoadEnv(files...); err != nil {
		return nil, err
	}

	if ServerFlag != "" {
		c.Set(ConfigServer, ServerFlag)
	}
	if DebugFlag {
		c.Set(ConfigDebug, true)
	}

	if c.Get(ConfigServer).String() == "" {
		return nil, ErrNoServer
	}
	return c, nil
}
