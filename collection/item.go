// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package collection

import (
	"sync"

	"github.com/bitmark-inc/walletstate/observable"
)

// Item - one record of a collection and its observable cell
type Item[V any] struct {
	sync.Mutex
	physical string
	col      *access[V]
	cell     *observable.Cell[*V]
}

// Value - current value, nil if absent
//
// the record is shared with every subscriber and must not be modified
func (item *Item[V]) Value() *V {
	return item.cell.Get()
}

// Set - replace the value; nil removes the record
func (item *Item[V]) Set(value *V) error {
	return item.Update(func(*V) (*V, error) {
		return value, nil
	})
}

// Update - read, modify and write the record
//
// fn is given a private copy of the stored value (nil if absent) and
// returns the new value, nil to remove the record; if fn or encoding
// fails nothing is written and the error is returned
func (item *Item[V]) Update(fn func(*V) (*V, error)) error {
	item.Lock()

	current := item.col.read(item.physical)
	next, err := fn(current)
	if nil != err {
		item.Unlock()
		return err
	}

	// the cell holds what the store now holds, never the caller's pointer
	var stored *V
	if nil == next {
		item.col.store.Delete(item.physical)
	} else {
		buffer, err := item.col.codec.Encode(*next)
		if nil != err {
			item.Unlock()
			item.col.log.Warnf("reject record: %q  error: %s", item.physical, err)
			return err
		}
		item.col.store.Put(item.physical, buffer)
		stored = item.col.decode(item.physical, buffer)
	}

	notify := item.cell.Stage(stored)
	item.Unlock()

	notify()
	return nil
}

// For - call fn with the current value and after every change
func (item *Item[V]) For(fn func(*V)) (cancel func()) {
	return item.cell.Subscribe(fn)
}

// Atom - the observable cell itself
func (item *Item[V]) Atom() *observable.Cell[*V] {
	return item.cell
}
