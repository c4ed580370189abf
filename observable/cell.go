// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package observable - values that notify subscribers on change
//
// a subscriber is always called once with the current value when it
// subscribes and again after every later change; a change that was
// overtaken by a newer one before it reached a subscriber is skipped
package observable

import (
	"sync"
	"sync/atomic"
)

// Readable - a value that can be read and watched
type Readable[V any] interface {
	Get() V
	Subscribe(fn func(V)) (cancel func())
}

// Cell - a settable observable value
type Cell[V any] struct {
	sync.Mutex
	value       V
	version     uint64
	nextID      uint64
	subscribers []*subscriber[V]
}

type subscriber[V any] struct {
	id        uint64
	fn        func(V)
	seen      atomic.Uint64
	cancelled atomic.Bool
}

// NewCell - a cell holding an initial value
func NewCell[V any](value V) *Cell[V] {
	return &Cell[V]{
		value:   value,
		version: 1,
	}
}

// Get - current value
func (c *Cell[V]) Get() V {
	c.Lock()
	defer c.Unlock()
	return c.value
}

// Set - replace the value and notify every subscriber before returning
func (c *Cell[V]) Set(value V) {
	c.Stage(value)()
}

// Stage - replace the value now and return the notification
//
// lets a caller change the value inside its own critical section and
// notify after leaving it
func (c *Cell[V]) Stage(value V) (notify func()) {
	c.Lock()
	c.value = value
	c.version += 1
	version := c.version
	subscribers := c.snapshot()
	c.Unlock()

	return func() {
		for _, s := range subscribers {
			s.deliver(version, value)
		}
	}
}

// Subscribe - call fn with the current value and on every change
//
// the returned function stops further calls and may be called more
// than once
func (c *Cell[V]) Subscribe(fn func(V)) func() {
	c.Lock()
	c.nextID += 1
	s := &subscriber[V]{id: c.nextID, fn: fn}
	c.subscribers = append(c.subscribers, s)
	value := c.value
	version := c.version
	c.Unlock()

	s.deliver(version, value)

	return func() {
		s.cancelled.Store(true)
		c.Lock()
		defer c.Unlock()
		for i, item := range c.subscribers {
			if item.id == s.id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Subscribers - number of active subscriptions
func (c *Cell[V]) Subscribers() int {
	c.Lock()
	defer c.Unlock()
	return len(c.subscribers)
}

// in subscription order
func (c *Cell[V]) snapshot() []*subscriber[V] {
	return append([]*subscriber[V](nil), c.subscribers...)
}

func (s *subscriber[V]) deliver(version uint64, value V) {
	for {
		seen := s.seen.Load()
		if version <= seen {
			return
		}
		if s.seen.CompareAndSwap(seen, version) {
			break
		}
	}
	if !s.cancelled.Load() {
		s.fn(value)
	}
}
