/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/UnifyEM/uemauth/common/interfaces"
	"github.com/UnifyEM/uemauth/common/null"
)

// A separate package with a struct are used for looser coupling with the database

type DB struct {
	db     *bbolt.DB
	logger interfaces.Logger
}

const BucketAuth = "Auth"
const BucketUserMeta = "UserMeta"
const BucketRefreshTokens = "RefreshTokens"

var bucketList = []string{BucketAuth, BucketUserMeta, BucketRefreshTokens}

// Open opens (or creates) a Bolt DB at the specified path and creates the
// buckets if they do not already exist.
func Open(filePath string, logger interfaces.Logger) (*DB, error) {
	if logger == nil {
		logger = null.Logger()
	}

	logger.Infof(2201, "Opening database: %s", filePath)

	// The Timeout option allows Bolt to wait if the file is locked by another process.
	db, err := bbolt.Open(filePath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucketName := range bucketList {
			_, createErr := tx.CreateBucketIfNotExists([]byte(bucketName))
			if createErr != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucketName, createErr)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db, logger: logger}, nil
}

// Close the database, ignore any errors
func (d *DB) Close() {
	_ = d.db.Close()
}
