// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"
)

// wraps an engine so that storage failures never reach the caller
type handle struct {
	sync.RWMutex
	log      *logger.L
	engine   engine
	cache    Cache
	readOnly bool
	closed   bool
}

func newHandle(log *logger.L, e engine, useCache bool, readOnly bool) *handle {
	h := &handle{
		log:      log,
		engine:   e,
		readOnly: readOnly,
	}
	if useCache {
		h.cache = newCache()
	}
	return h
}

// Get - read a value for a given key
//
// returns nil if the key is absent or the store could not be read
// the returned slice is a copy and may be kept by the caller
func (h *handle) Get(key string) []byte {
	h.RLock()
	defer h.RUnlock()

	if h.closed {
		return nil
	}

	if nil != h.cache {
		if value, found := h.cache.Get(key); found {
			return clone(value)
		}
	}

	value, err := h.engine.get([]byte(key))
	if nil != err {
		h.log.Errorf("get: %q  error: %s", key, err)
		return nil
	}
	if nil != value && nil != h.cache {
		h.cache.Set(dbPut, key, clone(value))
	}
	return value
}

// Put - store a key/value bytes pair
func (h *handle) Put(key string, value []byte) {
	h.RLock()
	defer h.RUnlock()

	if h.closed || h.readOnly {
		h.log.Warnf("put: %q  ignored on closed or read only store", key)
		return
	}

	err := h.engine.put([]byte(key), value)
	if nil != err {
		h.log.Errorf("put: %q  error: %s", key, err)
		if nil != h.cache {
			h.cache.Set(dbDelete, key, nil)
		}
		return
	}
	if nil != h.cache {
		h.cache.Set(dbPut, key, clone(value))
	}
}

// Delete - remove a key
func (h *handle) Delete(key string) {
	h.RLock()
	defer h.RUnlock()

	if h.closed || h.readOnly {
		h.log.Warnf("delete: %q  ignored on closed or read only store", key)
		return
	}

	if nil != h.cache {
		h.cache.Set(dbDelete, key, nil)
	}
	err := h.engine.delete([]byte(key))
	if nil != err {
		h.log.Errorf("delete: %q  error: %s", key, err)
	}
}

// Clear - remove every key
func (h *handle) Clear() {
	h.Lock()
	defer h.Unlock()

	if h.closed || h.readOnly {
		h.log.Warn("clear: ignored on closed or read only store")
		return
	}

	if nil != h.cache {
		h.cache.Clear()
	}
	err := h.engine.clear()
	if nil != err {
		h.log.Errorf("clear: error: %s", err)
	}
}

// Keys - all keys with the given prefix in ascending order
func (h *handle) Keys(prefix string) []string {
	h.RLock()
	defer h.RUnlock()

	if h.closed {
		return nil
	}

	keys, err := h.engine.keys([]byte(prefix))
	if nil != err {
		h.log.Errorf("keys: %q  error: %s", prefix, err)
		return nil
	}

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, string(k))
	}
	sort.Strings(result)
	return result
}

// GetNumber - read a record and decode as big endian int64
//
// second parameter is false if record was not found or truncated
func (h *handle) GetNumber(key string) (int64, bool) {
	buffer := h.Get(key)
	if 8 != len(buffer) {
		if nil != buffer {
			h.log.Warnf("get number: %q  truncated record: %x", key, buffer)
		}
		return 0, false
	}
	return int64(binary.BigEndian.Uint64(buffer)), true
}

// PutNumber - store an int64 as 8 big endian bytes
func (h *handle) PutNumber(key string, value int64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, uint64(value))
	h.Put(key, buffer)
}

// GetBoolean - read a single byte boolean
func (h *handle) GetBoolean(key string) (bool, bool) {
	buffer := h.Get(key)
	if 1 != len(buffer) {
		return false, false
	}
	return 0 != buffer[0], true
}

// PutBoolean - store a single byte boolean
func (h *handle) PutBoolean(key string, value bool) {
	b := byte(0)
	if value {
		b = 1
	}
	h.Put(key, []byte{b})
}

// Close - release the engine; later calls are ignored
func (h *handle) Close() error {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if nil != h.cache {
		h.cache.Clear()
	}
	return h.engine.close()
}

func clone(value []byte) []byte {
	if nil == value {
		return nil
	}
	c := make([]byte, len(value))
	copy(c, value)
	return c
}

// the first key that does not have the prefix, nil if none exists
func prefixLimit(prefix []byte) []byte {
	limit := clone(prefix)
	for i := len(limit) - 1; i >= 0; i -= 1 {
		if limit[i] < 0xff {
			limit[i] += 1
			return limit[:i+1]
		}
	}
	return nil
}
