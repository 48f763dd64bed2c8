/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

var _ interfaces.TokenStore = (*Bolt)(nil)

const bucketTokens = "Tokens"

// Bolt is a TokenStore persisted in a bbolt file readable only by the owner.
// It is the command line equivalent of a browser cookie jar.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the token database at path
func OpenBolt(path string) (*Bolt, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	// The timeout lets a second CLI invocation wait briefly for the file lock
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, cErr := tx.CreateBucketIfNotExists([]byte(bucketTokens))
		return cErr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketTokens, err)
	}

	return &Bolt{db: db}, nil
}

// Close the database, ignore any errors
func (b *Bolt) Close() {
	_ = b.db.Close()
}

func (b *Bolt) Get(name string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTokens))
		if bucket == nil {
			return errors.New("bucket not found")
		}

		// A missing key is not an error
		if data := bucket.Get([]byte(name)); data != nil {
			value = string(data)
		}
		return nil
	})
	return value, err
}

func (b *Bolt) Set(name string, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTokens))
		if bucket == nil {
			return errors.New("bucket not found")
		}
		if err := bucket.Put([]byte(name), []byte(value)); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		return nil
	})
}

func (b *Bolt) Delete(name string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketTokens))
		if bucket == nil {
			return errors.New("bucket not found")
		}
		if err := bucket.Delete([]byte(name)); err != nil {
			return fmt.Errorf("error deleting %s: %w", name, err)
		}
		return nil
	})
}
