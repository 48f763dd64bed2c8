/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package credentials manages the access and refresh tokens. Memory keeps
// them for the life of the process; Bolt persists them between runs.
package credentials

import (
	"sync"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

var _ interfaces.TokenStore = (*Memory)(nil)

// Memory is a process-local TokenStore that is safe for concurrent use
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

func (m *Memory) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens[name], nil
}

func (m *Memory) Set(name string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[name] = value
	return nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, name)
	return nil
}
