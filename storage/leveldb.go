// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

type levelDB struct {
	db *leveldb.DB
}

func openLevelDB(path string, readOnly bool) (engine, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(path, opt)
	if nil != err {
		return nil, err
	}
	return &levelDB{db: db}, nil
}

func (l *levelDB) get(key []byte) ([]byte, error) {
	value, err := l.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

func (l *levelDB) put(key []byte, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *levelDB) delete(key []byte) error {
	return l.db.Delete(key, nil)
}

// remove everything in a single batch
func (l *levelDB) clear() error {
	batch := new(leveldb.Batch)

	iter := l.db.NewIterator(nil, nil)
	for iter.Next() {
		batch.Delete(clone(iter.Key()))
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}

	return l.db.Write(batch, nil)
}

func (l *levelDB) keys(prefix []byte) ([][]byte, error) {
	var searchRange *ldb_util.Range
	if 0 != len(prefix) {
		searchRange = ldb_util.BytesPrefix(prefix)
	}

	result := [][]byte{}
	iter := l.db.NewIterator(searchRange, nil)
	for iter.Next() {
		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		result = append(result, clone(iter.Key()))
	}
	iter.Release()
	return result, iter.Error()
}

func (l *levelDB) close() error {
	return l.db.Close()
}
