/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package db

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Bcrypt is limited to 72 characters, so scrypt is used instead.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// dummyHash is verified against when a login does not exist so that unknown
// users take as long as wrong passwords
var dummyHash, _ = GenerateHash("uemauth-dummy-password")

// GenerateHash returns "salt$hash", both base64 encoded
func GenerateHash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash: %w", err)
	}

	return fmt.Sprintf("%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyHash verifies the given password against the stored hash.
func VerifyHash(password, encodedHash string) (bool, error) {
	salt, hash, ok := strings.Cut(encodedHash, "$")
	if !ok {
		return false, fmt.Errorf("invalid hash format")
	}

	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	hashBytes, err := base64.RawStdEncoding.DecodeString(hash)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	comparisonHash, err := scrypt.Key([]byte(password), saltBytes, scryptN, scryptR, scryptP, len(hashBytes))
	if err != nil {
		return false, fmt.Errorf("failed to generate comparison hash: %w", err)
	}

	return subtle.ConstantTimeCompare(hashBytes, comparisonHash) == 1, nil
}
