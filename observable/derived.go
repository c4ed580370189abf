// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package observable

import (
	"sync"
)

type mapped[S any, V any] struct {
	source Readable[S]
	fn     func(S) V
}

// Map - a readable computed from another
func Map[S any, V any](source Readable[S], fn func(S) V) Readable[V] {
	return &mapped[S, V]{
		source: source,
		fn:     fn,
	}
}

func (m *mapped[S, V]) Get() V {
	return m.fn(m.source.Get())
}

func (m *mapped[S, V]) Subscribe(fn func(V)) func() {
	return m.source.Subscribe(func(s S) {
		fn(m.fn(s))
	})
}

type combined[A any, B any, V any] struct {
	a  Readable[A]
	b  Readable[B]
	fn func(A, B) V
}

// Combine - a readable computed from two others
//
// subscribers are called once on subscription and again whenever
// either source changes
func Combine[A any, B any, V any](a Readable[A], b Readable[B], fn func(A, B) V) Readable[V] {
	return &combined[A, B, V]{
		a:  a,
		b:  b,
		fn: fn,
	}
}

func (c *combined[A, B, V]) Get() V {
	return c.fn(c.a.Get(), c.b.Get())
}

func (c *combined[A, B, V]) Subscribe(fn func(V)) func() {
	var lock sync.Mutex
	ready := false
	var lastA A
	var lastB B

	cancelA := c.a.Subscribe(func(v A) {
		lock.Lock()
		lastA = v
		emit := ready
		b := lastB
		lock.Unlock()
		if emit {
			fn(c.fn(v, b))
		}
	})
	cancelB := c.b.Subscribe(func(v B) {
		lock.Lock()
		lastB = v
		emit := ready
		a := lastA
		lock.Unlock()
		if emit {
			fn(c.fn(a, v))
		}
	})

	lock.Lock()
	ready = true
	a, b := lastA, lastB
	lock.Unlock()
	fn(c.fn(a, b))

	return func() {
		cancelA()
		cancelB()
	}
}
