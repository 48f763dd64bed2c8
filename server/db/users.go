//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package db

import (
	"errors"

	"github.com/UnifyEM/uemauth/common/schema"
)

// SetUserMeta stores the user record keyed by user ID
func (d *DB) SetUserMeta(meta schema.UserMeta) error {
	return d.SetData(BucketUserMeta, meta.UserID, meta)
}

// GetUserMeta returns the user record or ErrUserNotFound
func (d *DB) GetUserMeta(userID string) (schema.UserMeta, error) {
	var meta schema.UserMeta
	err := d.GetData(BucketUserMeta, userID, &meta)
	if errors.Is(err, ErrKeyNotFound) {
		return meta, ErrUserNotFound
	}
	return meta, err
}

// UserActive checks if a user exists and is active. Errors are treated as inactive.
func (d *DB) UserActive(userID string) bool {
	meta, err := d.GetUserMeta(userID)
	if err != nil {
		return false
	}
	return meta.Active
}
