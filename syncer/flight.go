// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// flight - overlapping calls for the same key share one run
//
// the shared run does not belong to any one caller: it is cancelled
// only when every caller waiting on it has gone
type flight struct {
	sync.Mutex
	group   singleflight.Group
	waiting map[string]int
	runs    map[string]*run
}

type run struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// do - start or join the run for key and wait for its result
func (f *flight) do(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	rejoined := false

	for {
		result := f.join(ctx, key, fn)

		var r singleflight.Result
		select {
		case r = <-result:
		case <-ctx.Done():
			f.leave(key)
			return nil, ctx.Err()
		}
		f.leave(key)

		// joined a run abandoned by all of its earlier callers
		if !rejoined && nil == ctx.Err() && errors.Is(r.Err, context.Canceled) {
			rejoined = true
			continue
		}
		return r.Val, r.Err
	}
}

// callers currently waiting on key
func (f *flight) count(key string) int {
	f.Lock()
	defer f.Unlock()
	return f.waiting[key]
}

func (f *flight) join(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) <-chan singleflight.Result {
	f.Lock()
	defer f.Unlock()

	if nil == f.waiting {
		f.waiting = make(map[string]int)
		f.runs = make(map[string]*run)
	}

	r := f.runs[key]
	if nil == r {
		c, cancel := context.WithCancel(context.WithoutCancel(ctx))
		r = &run{ctx: c, cancel: cancel}
		f.runs[key] = r
	}
	f.waiting[key] += 1

	return f.group.DoChan(key, func() (interface{}, error) {
		defer f.finish(key, r)
		return fn(r.ctx)
	})
}

func (f *flight) finish(key string, r *run) {
	f.Lock()
	if f.runs[key] == r {
		delete(f.runs, key)
	}
	f.Unlock()
	r.cancel()
}

func (f *flight) leave(key string) {
	f.Lock()
	defer f.Unlock()

	f.waiting[key] -= 1
	if f.waiting[key] > 0 {
		return
	}
	delete(f.waiting, key)
	if r := f.runs[key]; nil != r {
		delete(f.runs, key)
		r.cancel()
	}
}
