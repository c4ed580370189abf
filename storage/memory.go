// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"strings"
	"sync"
)

type memory struct {
	sync.Mutex
	items map[string][]byte
}

func newMemory() engine {
	return &memory{
		items: make(map[string][]byte),
	}
}

func (m *memory) get(key []byte) ([]byte, error) {
	m.Lock()
	defer m.Unlock()
	return clone(m.items[string(key)]), nil
}

func (m *memory) put(key []byte, value []byte) error {
	m.Lock()
	defer m.Unlock()
	if nil == value {
		value = []byte{}
	}
	m.items[string(key)] = clone(value)
	return nil
}

func (m *memory) delete(key []byte) error {
	m.Lock()
	defer m.Unlock()
	delete(m.items, string(key))
	return nil
}

func (m *memory) clear() error {
	m.Lock()
	defer m.Unlock()
	m.items = make(map[string][]byte)
	return nil
}

func (m *memory) keys(prefix []byte) ([][]byte, error) {
	m.Lock()
	defer m.Unlock()
	p := string(prefix)
	result := [][]byte{}
	for k := range m.items {
		if strings.HasPrefix(k, p) {
			result = append(result, []byte(k))
		}
	}
	return result, nil
}

func (m *memory) close() error {
	return nil
}
