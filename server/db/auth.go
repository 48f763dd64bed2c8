/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrAccountDisabled = errors.New("account disabled")
	ErrInvalidPassword = errors.New("invalid password")
)

// AuthInfo is keyed by the normalized login
type AuthInfo struct {
	UserID     string    `json:"user_id"`
	Active     bool      `json:"active"`
	HashedPass string    `json:"hashed_pass"`
	FailCount  int       `json:"fail_count"`
	LastUpdate time.Time `json:"time_added"`
	LastAuth   time.Time `json:"last_auth"`
	LastFail   time.Time `json:"last_fail"`
}

// AddAuth creates the credentials for a new login. It fails with
// ErrUserExists if the login is taken.
func (d *DB) AddAuth(login string, pass string, userID string) error {
	hashedPass, err := GenerateHash(pass)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}

	info := AuthInfo{
		UserID:     userID,
		Active:     true,
		HashedPass: hashedPass,
		LastUpdate: time.Now(),
	}

	err = d.InsertData(BucketAuth, LoginKey(login), info)
	if errors.Is(err, ErrKeyExists) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("failed to store auth info: %w", err)
	}
	return nil
}

// SetPassword replaces the password of an existing login
func (d *DB) SetPassword(login string, pass string) error {
	info, err := d.GetAuth(login)
	if err != nil {
		return err
	}

	info.HashedPass, err = GenerateHash(pass)
	if err != nil {
		return fmt.Errorf("hash error: %w", err)
	}
	info.LastUpdate = time.Now()
	return d.SetData(BucketAuth, LoginKey(login), info)
}

// GetAuth retrieves authentication information for a given login
func (d *DB) GetAuth(login string) (AuthInfo, error) {
	var result AuthInfo
	err := d.GetData(BucketAuth, LoginKey(login), &result)
	if errors.Is(err, ErrKeyNotFound) {
		return result, ErrUserNotFound
	}
	return result, err
}

// CheckAuth verifies the password and returns the user ID. It also updates
// LastAuth and FailCount depending on success or failure.
func (d *DB) CheckAuth(login, pass string) (string, error) {
	info, err := d.GetAuth(login)
	if err != nil {
		_, _ = VerifyHash(pass, dummyHash)
		return "", err
	}

	if !info.Active {
		return "", ErrAccountDisabled
	}

	auth, err := VerifyHash(pass, info.HashedPass)
	if err != nil {
		return "", fmt.Errorf("VerifyHash error: %w", err)
	}

	if auth {
		info.FailCount = 0
		info.LastAuth = time.Now()

		// If this fails something is wrong - fail authorization
		if err = d.SetData(BucketAuth, LoginKey(login), info); err != nil {
			return "", err
		}
		return info.UserID, nil
	}

	info.FailCount++
	info.LastFail = time.Now()
	if err = d.SetData(BucketAuth, LoginKey(login), info); err != nil {
		return "", err
	}
	return "", ErrInvalidPassword
}

// DeleteAuth removes the credentials for a login
func (d *DB) DeleteAuth(login string) error {
	return d.DeleteData(BucketAuth, LoginKey(login))
}
