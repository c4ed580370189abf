// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

type pebbleDB struct {
	db *pebble.DB
}

func openPebble(path string, readOnly bool) (engine, error) {
	opts := &pebble.Options{
		ReadOnly:         readOnly,
		ErrorIfNotExists: readOnly,
	}

	db, err := pebble.Open(path, opts)
	if nil != err {
		return nil, err
	}
	return &pebbleDB{db: db}, nil
}

func (p *pebbleDB) get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if nil != err {
		return nil, err
	}
	defer closer.Close()

	// value is only valid until closer is called
	return clone(value), nil
}

func (p *pebbleDB) put(key []byte, value []byte) error {
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleDB) delete(key []byte) error {
	return p.db.Delete(key, pebble.Sync)
}

func (p *pebbleDB) clear() error {
	keys, err := p.keys(nil)
	if nil != err {
		return err
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	for _, k := range keys {
		if err := batch.Delete(k, nil); nil != err {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *pebbleDB) keys(prefix []byte) ([][]byte, error) {
	opts := &pebble.IterOptions{}
	if 0 != len(prefix) {
		opts.LowerBound = prefix
		opts.UpperBound = prefixLimit(prefix)
	}

	iter, err := p.db.NewIter(opts)
	if nil != err {
		return nil, err
	}

	result := [][]byte{}
	for iter.First(); iter.Valid(); iter.Next() {
		result = append(result, clone(iter.Key()))
	}
	if err := iter.Error(); nil != err {
		iter.Close()
		return nil, err
	}
	return result, iter.Close()
}

func (p *pebbleDB) close() error {
	return p.db.Close()
}
