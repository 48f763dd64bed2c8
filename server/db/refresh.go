/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrRefreshRevoked is returned for a refresh token ID that was never
// issued, was already used, or was pruned
var ErrRefreshRevoked = errors.New("refresh token revoked")

// RefreshRecord tracks a live refresh token by its JWT ID
type RefreshRecord struct {
	UserID  string    `json:"user_id"`
	Issued  time.Time `json:"issued"`
	Expires time.Time `json:"expires"`
}

// AddRefresh records a newly issued refresh token
func (d *DB) AddRefresh(id string, rec RefreshRecord) error {
	return d.SetData(BucketRefreshTokens, id, rec)
}

// ConsumeRefresh removes the record for id and returns it. A refresh token
// can be consumed once.
func (d *DB) ConsumeRefresh(id string) (RefreshRecord, error) {
	var rec RefreshRecord
	err := d.TakeData(BucketRefreshTokens, id, &rec)
	if errors.Is(err, ErrKeyNotFound) {
		return rec, ErrRefreshRevoked
	}
	return rec, err
}

// RevokeUserRefresh removes every live refresh token for a user
func (d *DB) RevokeUserRefresh(userID string) (int, error) {
	return d.DeleteWhere(BucketRefreshTokens, func(_, value []byte) bool {
		var rec RefreshRecord
		return json.Unmarshal(value, &rec) == nil && rec.UserID == userID
	})
}

// PruneRefresh removes records that expired before now
func (d *DB) PruneRefresh(now time.Time) (int, error) {
	return d.DeleteWhere(BucketRefreshTokens, func(_, value []byte) bool {
		var rec RefreshRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return true
		}
		return !rec.Expires.IsZero() && rec.Expires.Before(now)
	})
}
