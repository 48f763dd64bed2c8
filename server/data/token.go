/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/UnifyEM/uemauth/common/schema"
	"github.com/UnifyEM/uemauth/server/db"
	"github.com/UnifyEM/uemauth/server/global"
)

var ErrInvalidToken = errors.New("invalid token")

// CustomClaims includes jwt.RegisteredClaims and adds the token purpose
type CustomClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// createToken returns a signed token for subject and its ID
func (d *Data) createToken(subject string, purpose string) (string, *CustomClaims, error) {
	var lifeTime time.Duration
	var prefix string

	switch purpose {
	case schema.TokenPurposeAccess:
		lifeTime = d.accessLife
		prefix = "A-"
	case schema.TokenPurposeRefresh:
		lifeTime = d.refreshLife
		prefix = "R-"
	default:
		return "", nil, errors.New("invalid token purpose")
	}

	// Set NotBefore 5 minutes in the past to allow for clock skew
	now := d.now()
	claims := &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifeTime)),
			Issuer:    global.Name,
			ID:        prefix + uuid.NewString(),
		},
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(d.jwtKey)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// ValidateToken checks the signature, lifetime and purpose of tokenString.
// An expired token returns an error wrapping jwt.ErrTokenExpired.
func (d *Data) ValidateToken(tokenString string, purpose string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		return d.jwtKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(global.Name),
		jwt.WithTimeFunc(d.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Purpose != purpose || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// issuePair creates an access and refresh token for userID and records the
// refresh token as live
func (d *Data) issuePair(userID string) (schema.TokenPair, error) {
	accessToken, _, err := d.createToken(userID, schema.TokenPurposeAccess)
	if err != nil {
		return schema.TokenPair{}, err
	}

	refreshToken, claims, err := d.createToken(userID, schema.TokenPurposeRefresh)
	if err != nil {
		return schema.TokenPair{}, err
	}

	err = d.database.AddRefresh(claims.ID, db.RefreshRecord{
		UserID:  userID,
		Issued:  claims.IssuedAt.Time,
		Expires: claims.ExpiresAt.Time,
	})
	if err != nil {
		return schema.TokenPair{}, fmt.Errorf("unable to record refresh token: %w", err)
	}

	return schema.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a refresh token. The presented token is revoked whether or
// not the rest of the exchange succeeds.
func (d *Data) Refresh(refreshToken string) (schema.TokenPair, error) {
	claims, err := d.ValidateToken(refreshToken, schema.TokenPurposeRefresh)
	if err != nil {
		return schema.TokenPair{}, err
	}

	rec, err := d.database.ConsumeRefresh(claims.ID)
	if err != nil {
		return schema.TokenPair{}, err
	}

	if rec.UserID != claims.Subject {
		return schema.TokenPair{}, ErrInvalidToken
	}

	if !d.database.UserActive(claims.Subject) {
		return schema.TokenPair{}, fmt.Errorf("subject disabled in database: %s", claims.Subject)
	}

	return d.issuePair(claims.Subject)
}

// Prune removes refresh token records that have expired
func (d *Data) Prune() (int, error) {
	return d.database.PruneRefresh(d.now())
}
