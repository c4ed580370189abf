// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package collection - typed records of one namespace in the keyed store
//
// physical key of a record:
//
//	<namespace> "/" <canonical key>
//
// every write goes through an Item so that the store and the item's
// observable cell always change together
package collection

import (
	"strings"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/codec"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/observable"
	"github.com/bitmark-inc/walletstate/storage"
)

const namespaceSeparator = "/"

// Environment - what every collection of a registry shares
type Environment struct {
	Log     *logger.L
	Store   storage.Handle
	Testnet bool
}

// Collection - a namespace of records of type V keyed by K
type Collection[K any, V any] struct {
	sync.Mutex
	log       *logger.L
	store     storage.Handle
	namespace string
	prefix    string
	key       func(K) string
	access    *access[V]
	items     map[string]*Item[V]
}

// New - a collection with an explicit key function and codec
func New[K any, V any](log *logger.L, store storage.Handle, namespace string, key func(K) string, c codec.Codec[V]) (*Collection[K, V], error) {
	col := &Collection[K, V]{}
	err := col.initialise(log, store, namespace, key, c)
	if nil != err {
		return nil, err
	}
	return col, nil
}

// Bind - a collection using the standard key function for K and the
// JSON codec for V
func Bind[K any, V any](env Environment, namespace string) (*Collection[K, V], error) {
	col := &Collection[K, V]{}
	err := col.Initialise(env, namespace)
	if nil != err {
		return nil, err
	}
	return col, nil
}

// Initialise - set up a zero collection in place
//
// used by the persistence registry which allocates collections
// through reflection
func (c *Collection[K, V]) Initialise(env Environment, namespace string) error {
	key, err := KeyFunction[K](env.Testnet)
	if nil != err {
		return err
	}
	return c.initialise(env.Log, env.Store, namespace, key, codec.JSON[V]())
}

// Describe - key shape and namespace, for tooling
func (c *Collection[K, V]) Describe() (string, string) {
	return c.namespace, KeyKind[K]()
}

func (c *Collection[K, V]) initialise(log *logger.L, store storage.Handle, namespace string, key func(K) string, cd codec.Codec[V]) error {
	if nil == log {
		return fault.ErrInvalidLoggerChannel
	}
	if nil == store || nil == key || nil == cd {
		return fault.ErrMissingParameters
	}
	if "" == namespace || strings.Contains(namespace, namespaceSeparator) || strings.HasPrefix(namespace, "\x00") {
		return fault.ErrInvalidNamespace
	}

	c.log = log
	c.store = store
	c.namespace = namespace
	c.prefix = namespace + namespaceSeparator
	c.key = key
	c.access = &access[V]{
		log:   log,
		store: store,
		codec: cd,
	}
	c.items = make(map[string]*Item[V])
	return nil
}

// Namespace - name of the partition
func (c *Collection[K, V]) Namespace() string {
	return c.namespace
}

// Key - canonical key of k
func (c *Collection[K, V]) Key(k K) string {
	return c.key(k)
}

// Get - decoded value for k, nil if absent or undecodable
func (c *Collection[K, V]) Get(k K) *V {
	return c.access.read(c.prefix + c.key(k))
}

// Set - store a value; nil removes the record
func (c *Collection[K, V]) Set(k K, value *V) error {
	return c.Item(k).Set(value)
}

// Item - the shared handle for k
//
// keys with the same canonical form always give the same item
func (c *Collection[K, V]) Item(k K) *Item[V] {
	canonical := c.key(k)

	c.Lock()
	defer c.Unlock()

	if item, ok := c.items[canonical]; ok {
		return item
	}

	physical := c.prefix + canonical
	item := &Item[V]{
		physical: physical,
		col:      c.access,
		cell:     observable.NewCell(c.access.read(physical)),
	}
	c.items[canonical] = item
	return item
}

// Keys - canonical keys of every stored record
func (c *Collection[K, V]) Keys() []string {
	keys := c.store.Keys(c.prefix)
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, c.prefix)
	}
	return keys
}

// Raw - stored bytes for a canonical key
func (c *Collection[K, V]) Raw(canonical string) []byte {
	return c.store.Get(c.prefix + canonical)
}

// the parts of the collection an item needs, without the key type
type access[V any] struct {
	log   *logger.L
	store storage.Handle
	codec codec.Codec[V]
}

func (a *access[V]) read(physical string) *V {
	buffer := a.store.Get(physical)
	if nil == buffer {
		return nil
	}
	return a.decode(physical, buffer)
}

func (a *access[V]) decode(physical string, buffer []byte) *V {
	value, ok := a.codec.Decode(buffer)
	if !ok {
		a.log.Warnf("discard undecodable record: %q  data: %q", physical, buffer)
		return nil
	}
	return &value
}
