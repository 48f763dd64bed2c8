/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package interfaces

// TokenStore is a named key/value store for credentials.
// A missing entry is reported as an empty string with a nil error.
// There are no transactional guarantees beyond last-write-wins.
type TokenStore interface {
	Get(name string) (string, error)
	Set(name string, value string) error
	Delete(name string) error
}
