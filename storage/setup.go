// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/fault"
)

// names of the supported engines
const (
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
	EngineMemory  = "memory"
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Configuration - structure for configuration file
type Configuration struct {
	Engine    string `gluamapper:"engine" json:"engine"`
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
	ReadOnly  bool   `gluamapper:"read_only" json:"read_only"`
}

// Handle - the keyed store
type Handle interface {
	Get(key string) []byte
	Put(key string, value []byte)
	Delete(key string)
	Clear()
	Keys(prefix string) []string

	GetNumber(key string) (int64, bool)
	PutNumber(key string, value int64)
	GetBoolean(key string) (bool, bool)
	PutBoolean(key string, value bool)

	Close() error
}

// operations every engine must provide
//
// get returns nil, nil for a missing key
type engine interface {
	get(key []byte) ([]byte, error)
	put(key []byte, value []byte) error
	delete(key []byte) error
	clear() error
	keys(prefix []byte) ([][]byte, error)
	close() error
}

// Open - open a store with the configured engine
func Open(log *logger.L, configuration Configuration) (Handle, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}

	name := strings.ToLower(strings.TrimSpace(configuration.Engine))
	if "" == name {
		name = EngineLevelDB
	}

	path := filepath.Join(configuration.Directory, configuration.Name)
	readOnly := configuration.ReadOnly

	var e engine
	var err error
	useCache := false

	switch name {
	case EngineLevelDB:
		e, err = openLevelDB(path, readOnly)
		useCache = true
	case EnginePebble:
		e, err = openPebble(path, readOnly)
	case EngineMemory:
		e = newMemory()
	default:
		log.Criticalf("unsupported storage engine: %q", configuration.Engine)
		return nil, fault.ErrInvalidEngine
	}
	if nil != err {
		log.Criticalf("open %s database: %q  error: %s", name, path, err)
		return nil, err
	}

	log.Infof("opened %s database: %q  read only: %t", name, path, readOnly)

	return newHandle(log, e, useCache, readOnly), nil
}

// NewMemory - a store that only lives in process memory
func NewMemory(log *logger.L) Handle {
	return newHandle(log, newMemory(), false, ReadWrite)
}
