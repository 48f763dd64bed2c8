/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package global

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/UnifyEM/uemauth/common/params"
)

const (
	ConfigListen          = "listen"
	ConfigDBPath          = "db"
	ConfigJWTKey          = "jwt_key"
	ConfigAccessLife      = "access_life"  // minutes
	ConfigRefreshLife     = "refresh_life" // minutes
	ConfigLogFile         = "log_file"
	ConfigLogStdout       = "log_stdout"
	ConfigLogRetention    = "log_retention"
	ConfigHTTPTimeout     = "http_timeout"
	ConfigHTTPIdleTimeout = "http_idle_timeout"
	ConfigHandlerTimeout  = "handler_timeout"
	ConfigMaxConcurrent   = "max_concurrent"
	ConfigPenaltyBoxMin   = "penalty_box_min"
	ConfigPenaltyBoxMax   = "penalty_box_max"
	ConfigDebug           = "debug"
)

type ServerConfig struct {
	SC *params.Params
}

// Config sets defaults and constraints and then loads .env and the
// environment. A JWT key is generated for the life of the process if none
// is configured, which invalidates all tokens on restart.
func Config(envFiles ...string) (*ServerConfig, error) {
	sc := params.New(EnvPrefix)
	setDefaults(sc)

	if len(envFiles) == 0 {
		envFiles = []string{EnvFile}
	}
	if err := sc.LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	if sc.Get(ConfigJWTKey).String() == "" {
		key, err := GenerateToken()
		if err != nil {
			return nil, fmt.Errorf("unable to generate JWT key: %w", err)
		}
		sc.Set(ConfigJWTKey, key)
	}

	dbPath := sc.Get(ConfigDBPath).String()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("unable to create database directory: %w", err)
	}

	Debug = sc.Get(ConfigDebug).Bool()
	return &ServerConfig{SC: sc}, nil
}

func setDefaults(sc *params.Params) {
	sc.SetConstraint(ConfigListen, 0, 0, "127.0.0.1:8080")
	sc.SetConstraint(ConfigDBPath, 0, 0, filepath.Join("data", "uemauth.db"))
	sc.SetConstraint(ConfigJWTKey, 0, 0, "")
	sc.SetConstraint(ConfigAccessLife, 1, 1440, 15)     // minutes
	sc.SetConstraint(ConfigRefreshLife, 1, 43200, 1440) // minutes
	sc.SetConstraint(ConfigLogFile, 0, 0, "")           // stdout only
	sc.SetConstraint(ConfigLogStdout, 0, 0, true)
	sc.SetConstraint(ConfigLogRetention, 1, 365, 30) // days
	sc.SetConstraint(ConfigHTTPTimeout, 1, 300, 30)  // seconds
	sc.SetConstraint(ConfigHTTPIdleTimeout, 1, 300, 30)
	sc.SetConstraint(ConfigHandlerTimeout, 1, 300, 30)
	sc.SetConstraint(ConfigMaxConcurrent, 0, 10000, 100)
	sc.SetConstraint(ConfigPenaltyBoxMin, 0, 0, 0) // milliseconds
	sc.SetConstraint(ConfigPenaltyBoxMax, 0, 0, 0)
	sc.SetConstraint(ConfigDebug, 0, 0, false)
	sc.SetSecret(ConfigJWTKey)
}

// GenerateToken creates a new random key
func GenerateToken() (string, error) {
	token := make([]byte, TokenLength)
	if _, err := io.ReadFull(rand.Reader, token); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(token), nil
}
