// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"context"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
)

// State - where a key is in its sync cycle
type State int

// the cycle of a key
const (
	Idle State = iota
	Fetching
	Applying
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Applying:
		return "applying"
	default:
		return "unknown"
	}
}

// Fetch - read one resource from the remote service
type Fetch[K any, V any] func(ctx context.Context, k K) (*V, error)

// Options - optional behaviour of an engine
type Options[K any, V any] struct {
	Policy  Policy
	Limiter *rate.Limiter

	// Skip - true if the fetched value is already applied
	Skip func(k K, value *V) bool

	// Applied - called after a value was stored
	Applied func(k K, value *V)
}

// Engine - keeps one collection in step with one remote resource
//
// overlapping Sync calls for the same key share one fetch cycle
type Engine[K any, V any] struct {
	sync.Mutex
	name    string
	log     *logger.L
	col     *collection.Collection[K, V]
	fetch   Fetch[K, V]
	options Options[K, V]
	flight  flight
	states  map[string]State
}

// NewEngine - engine writing the results of fetch into col
func NewEngine[K any, V any](name string, log *logger.L, col *collection.Collection[K, V], fetch Fetch[K, V], options Options[K, V]) *Engine[K, V] {
	if nil == options.Limiter {
		options.Limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if 0 == options.Policy.Initial {
		options.Policy = DefaultPolicy()
	}
	return &Engine[K, V]{
		name:    name,
		log:     log,
		col:     col,
		fetch:   fetch,
		options: options,
		states:  make(map[string]State),
	}
}

// Name - engine label for logs and metrics
func (e *Engine[K, V]) Name() string {
	return e.name
}

// State - current state of a key
func (e *Engine[K, V]) State(k K) State {
	e.Lock()
	defer e.Unlock()
	return e.states[e.col.Key(k)]
}

// Waiting - number of Sync calls currently waiting on a key
func (e *Engine[K, V]) Waiting(k K) int {
	return e.flight.count(e.col.Key(k))
}

// Sync - fetch and apply one key
//
// a call made while a cycle for the same key is running waits for
// that cycle and shares its result; a caller giving up does not end
// the cycle for the others
func (e *Engine[K, V]) Sync(ctx context.Context, k K) error {
	canonical := e.col.Key(k)

	_, err := e.flight.do(ctx, canonical, func(ctx context.Context) (interface{}, error) {
		return nil, e.cycle(ctx, k, canonical)
	})
	return err
}

func (e *Engine[K, V]) setState(canonical string, state State) {
	e.Lock()
	if Idle == state {
		delete(e.states, canonical)
	} else {
		e.states[canonical] = state
	}
	e.Unlock()
}

// one fetch and apply
func (e *Engine[K, V]) cycle(ctx context.Context, k K, canonical string) error {
	log := e.log

	inFlightGauge.WithLabelValues(e.name).Inc()
	defer inFlightGauge.WithLabelValues(e.name).Dec()

	e.setState(canonical, Fetching)
	defer e.setState(canonical, Idle)

	var value *V
	err := e.options.Policy.Retry(ctx, log, e.name, func() error {
		if err := e.options.Limiter.Wait(ctx); nil != err {
			return err
		}
		v, err := e.fetch(ctx, k)
		if nil != err {
			return err
		}
		value = v
		return nil
	})

	switch {
	case fault.IsErrAuthorisation(err):
		e.setState(canonical, Applying)
		log.Warnf("%s: %q  unauthorised: clear local record", e.name, canonical)
		e.clear(k, canonical)
		fetchCounter.WithLabelValues(e.name, resultUnauthorised).Inc()
		return err

	case nil != err:
		log.Errorf("%s: %q  fetch error: %s", e.name, canonical, err)
		fetchCounter.WithLabelValues(e.name, resultFailed).Inc()
		return err

	case nil == value:
		e.setState(canonical, Applying)
		log.Infof("%s: %q  not found: clear local record", e.name, canonical)
		e.clear(k, canonical)
		fetchCounter.WithLabelValues(e.name, resultCleared).Inc()
		return nil
	}

	e.setState(canonical, Applying)

	if nil != e.options.Skip && e.options.Skip(k, value) {
		log.Debugf("%s: %q  unchanged", e.name, canonical)
		fetchCounter.WithLabelValues(e.name, resultSkipped).Inc()
		return nil
	}

	err = e.col.Set(k, value)
	if nil != err {
		log.Errorf("%s: %q  keep previous record  error: %s", e.name, canonical, err)
		fetchCounter.WithLabelValues(e.name, resultRejected).Inc()
		return err
	}

	if nil != e.options.Applied {
		e.options.Applied(k, value)
	}
	log.Debugf("%s: %q  applied", e.name, canonical)
	fetchCounter.WithLabelValues(e.name, resultApplied).Inc()
	return nil
}

func (e *Engine[K, V]) clear(k K, canonical string) {
	if err := e.col.Set(k, nil); nil != err {
		e.log.Errorf("%s: %q  clear error: %s", e.name, canonical, err)
	}
}
