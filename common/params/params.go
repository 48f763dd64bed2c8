/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package params is a key/value configuration set with defaults and
// min/max constraints. Values are loaded from env files and the process
// environment, with the environment taking precedence.
package params

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

type Element struct {
	Value   Value
	Default Value
	Min     int
	Max     int
	Secret  bool
}

type Params struct {
	mu     sync.RWMutex
	prefix string
	data   map[string]Element
}

// New returns an empty set. Keys are looked up in the environment as
// prefix + upper case key, for example UEMAUTH_ + server.
func New(prefix string) *Params {
	return &Params{prefix: prefix, data: make(map[string]Element)}
}

// SetConstraint sets a min and max constraint and a default for a key.
// A min or max of 0 is not enforced.
func (p *Params) SetConstraint(key string, min, max int, def any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	element := p.data[key]
	element.Default = Value(fmt.Sprintf("%v", def))
	element.Min = min
	element.Max = max
	p.data[key] = element
}

// SetSecret marks a key whose value must not appear in Dump
func (p *Params) SetSecret(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	element := p.data[key]
	element.Secret = true
	p.data[key] = element
}

// Set a value. Empty strings and out of range integers fall back to the default.
func (p *Params) Set(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	element := p.data[key]
	element.Value = Value(fmt.Sprintf("%v", value))
	element.Value = enforce(element)
	p.data[key] = element
}

// Get returns the value for key with constraints applied
func (p *Params) Get(key string) Value {
	p.mu.RLock()
	defer p.mu.RUnlock()
	element, ok := p.data[key]
	if !ok {
		return ""
	}
	return enforce(element)
}

// EnvName returns the environment variable that sets key
func (p *Params) EnvName(key string) string {
	return p.prefix + strings.ToUpper(key)
}

// LoadEnv reads every known key from the env files, in order, and then from
// the process environment. Missing files and empty variables are skipped.
func (p *Params) LoadEnv(files ...string) error {
	fileValues := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("unable to read %s: %w", file, err)
		}
		for k, v := range values {
			fileValues[k] = v
		}
	}

	for _, key := range p.Keys() {
		name := p.EnvName(key)
		if v := os.Getenv(name); v != "" {
			p.Set(key, v)
		} else if v, ok := fileValues[name]; ok {
			p.Set(key, v)
		}
	}
	return nil
}

// Keys returns the known keys in sorted order
func (p *Params) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.data))
	for k := range p.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dump returns the effective configuration with secrets redacted
func (p *Params) Dump() map[string]string {
	r := make(map[string]string)
	for _, key := range p.Keys() {
		p.mu.RLock()
		secret := p.data[key].Secret
		p.mu.RUnlock()

		v := p.Get(key).String()
		if secret && v != "" {
			v = "[redacted]"
		}
		r[key] = v
	}
	return r
}

// enforce applies the default to an empty value and, for integers, the
// min and max. Out of range integers are replaced by the default.
func enforce(e Element) Value {
	if e.Value == "" {
		return e.Default
	}

	intValue, err := strconv.Atoi(string(e.Value))
	if err == nil {
		if e.Min != 0 && intValue < e.Min {
			return e.Default
		}
		if e.Max != 0 && intValue > e.Max {
			return e.Default
		}
	}
	return e.Value
}
