// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the durable local key/value store
//
// A single process-wide store holding string keys and binary values.
// Every namespace of cached wallet state lives inside the same store,
// the namespace being the leading part of the key:
//
//	<namespace> ++ "/" ++ <canonical key>   - encoded record
//
// plus a few reserved keys that start with a 0x00 byte so they never
// collide with a namespace:
//
//	0x00 ++ "VERSION"                      - schema version (big endian int64)
//
// Notes:
//  1. all calls are synchronous
//  2. storage errors are logged and never returned; a failed read
//     looks exactly like an absent key
//  3. numbers are stored as big endian int64 (8 bytes)
//  4. booleans are stored as a single 0x00 or 0x01 byte
//
// Engines:
//
//	leveldb  - github.com/syndtr/goleveldb (default)
//	pebble   - github.com/cockroachdb/pebble
//	memory   - process memory only, for tests and dry runs
package storage
