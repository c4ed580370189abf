// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

// Job - one periodic sync
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Tracker - background process running every job once per period
type Tracker struct {
	sync.Mutex
	log    *logger.L
	period time.Duration
	jobs   []Job
	rounds int
}

// NewTracker - tracker with no jobs
func NewTracker(log *logger.L, period time.Duration) *Tracker {
	return &Tracker{
		log:    log,
		period: period,
	}
}

// Add - register a job for the next round
func (t *Tracker) Add(name string, run func(ctx context.Context) error) {
	t.Lock()
	t.jobs = append(t.jobs, Job{Name: name, Run: run})
	t.Unlock()
}

// Rounds - number of completed rounds
func (t *Tracker) Rounds() int {
	t.Lock()
	defer t.Unlock()
	return t.rounds
}

// Run - run a round at start and then once per period until shutdown
func (t *Tracker) Run(args interface{}, shutdown <-chan struct{}) {
	log := t.log

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("starting…")

	delay := time.After(0)
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-delay:
			t.round(ctx)
			delay = time.After(t.period)
		}
	}

	log.Info("stopped")
}

func (t *Tracker) round(ctx context.Context) {
	t.Lock()
	jobs := append([]Job(nil), t.jobs...)
	t.Unlock()

	start := time.Now()
	for _, job := range jobs {
		if nil != ctx.Err() {
			return
		}
		err := job.Run(ctx)
		if nil != err {
			t.log.Warnf("job: %s  error: %s", job.Name, err)
		}
	}

	t.Lock()
	t.rounds += 1
	t.Unlock()

	t.log.Debugf("round of %d jobs took: %s", len(jobs), time.Since(start))
}
