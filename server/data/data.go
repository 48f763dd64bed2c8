//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/server/db"
	"github.com/UnifyEM/uemauth/server/global"
)

type Data struct {
	logger      interfaces.Logger
	database    *db.DB
	jwtKey      []byte
	accessLife  time.Duration
	refreshLife time.Duration
	now         func() time.Time
}

// New opens the database named in the configuration
func New(conf *global.ServerConfig, logger interfaces.Logger) (*Data, error) {
	jwtKey := conf.SC.Get(global.ConfigJWTKey).String()
	if jwtKey == "" {
		return nil, errors.New("JWT key missing from configuration")
	}

	dbPath := conf.SC.Get(global.ConfigDBPath).String()
	if dbPath == "" {
		return nil, errors.New("database path missing from configuration")
	}

	dbInstance, err := db.Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("unable to open or create database: %w", err)
	}

	return &Data{
		logger:      logger,
		database:    dbInstance,
		jwtKey:      []byte(jwtKey),
		accessLife:  conf.SC.Get(global.ConfigAccessLife).Duration(time.Minute),
		refreshLife: conf.SC.Get(global.ConfigRefreshLife).Duration(time.Minute),
		now:         time.Now,
	}, nil
}

// Close anything data-related that requires it.
func (d *Data) Close() {
	if d == nil {
		return
	}
	if d.database != nil {
		d.database.Close()
	}
}
