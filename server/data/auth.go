/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/server/db"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidLogin  = errors.New("invalid login")
	ErrUserExists    = db.ErrUserExists
)

// Login authenticates a user and returns a new credential pair
func (d *Data) Login(login string, pass string) (schema.LoginResponse, error) {
	userID, err := d.database.CheckAuth(login, pass)
	if err != nil {
		// Impose a random delay to make brute force attacks take longer
		randomDelay()
		return schema.LoginResponse{}, err
	}

	if !d.database.UserActive(userID) {
		return schema.LoginResponse{}, db.ErrAccountDisabled
	}

	pair, err := d.issuePair(userID)
	if err != nil {
		return schema.LoginResponse{}, err
	}

	return schema.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Login:        db.LoginKey(login),
		UserID:       userID,
	}, nil
}

// Register creates a user. Registration does not log the user in.
func (d *Data) Register(req schema.RegistrationRequest) (schema.UserMeta, error) {
	name := strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.Login) == "" || req.Password == "" || name == "" {
		return schema.UserMeta{}, ErrMissingFields
	}
	if !db.ValidLogin(req.Login) {
		return schema.UserMeta{}, ErrInvalidLogin
	}

	meta := schema.UserMeta{
		UserID:    "U-" + uuid.NewString(),
		Login:     db.LoginKey(req.Login),
		Name:      name,
		Active:    true,
		CreatedAt: d.now(),
	}

	// The auth record claims the login atomically; the meta record follows
	if err := d.database.AddAuth(req.Login, req.Password, meta.UserID); err != nil {
		return schema.UserMeta{}, err
	}

	if err := d.database.SetUserMeta(meta); err != nil {
		_ = d.database.DeleteAuth(req.Login)
		return schema.UserMeta{}, fmt.Errorf("unable to store user: %w", err)
	}
	return meta, nil
}

// CurrentUser returns the public view of an active user
func (d *Data) CurrentUser(userID string) (schema.CurrentUser, error) {
	meta, err := d.database.GetUserMeta(userID)
	if err != nil {
		return schema.CurrentUser{}, err
	}
	if !meta.Active {
		return schema.CurrentUser{}, db.ErrAccountDisabled
	}
	return meta.CurrentUser(), nil
}

// Logout revokes all refresh tokens of a user
func (d *Data) Logout(userID string) error {
	_, err := d.database.RevokeUserRefresh(userID)
	return err
}

// randomDelay imposes a random delay between 0 and 1000ms
var randomDelay = func() {
	time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)
}
