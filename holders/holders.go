// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package holders - card accounts attached to one wallet address
//
// every action is serialised behind a per product lock; Cleanup ends
// the current session so results of calls already in flight are
// discarded instead of written
package holders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/semaphore"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/observable"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/secure"
	"github.com/bitmark-inc/walletstate/syncer"
)

// a token this close to expiry is renewed
const expiryMargin = time.Minute

// Configuration - holders section of the configuration file
type Configuration struct {
	Enabled          bool   `gluamapper:"enabled" json:"enabled"`
	URL              string `gluamapper:"url" json:"url"`
	WatchURL         string `gluamapper:"watch_url" json:"watch_url"`
	Domain           string `gluamapper:"domain" json:"domain"`
	OfflineDirectory string `gluamapper:"offline_directory" json:"offline_directory"`
	KeyFile          string `gluamapper:"key_file" json:"key_file"`
}

// Options - collaborators of a product
type Options struct {
	Registry *persistence.Registry
	API      API
	Tokens   *secure.Tokens
	Signer   Signer
	Watch    WatchFunc // nil: no event watcher
	Policy   syncer.Policy

	Domain           string
	OfflineDirectory string
}

// Product - holders feature of one address
type Product struct {
	log      *logger.L
	registry *persistence.Registry
	api      API
	tokens   *secure.Tokens
	signer   Signer
	watch    WatchFunc
	policy   syncer.Policy
	address  address.Address
	domain   string
	offline  string
	lock     *semaphore.Weighted

	sessionLock sync.Mutex
	session     context.Context
	endSession  context.CancelFunc
	watcher     *watcher
}

// a running event watcher
type watcher struct {
	cancel context.CancelFunc
}

// New - product for one address
func New(log *logger.L, a address.Address, options Options) (*Product, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == options.Registry || nil == options.API || nil == options.Tokens || nil == options.Signer {
		return nil, fault.ErrMissingParameters
	}
	if 0 == options.Policy.Initial {
		options.Policy = syncer.DefaultPolicy()
	}

	p := &Product{
		log:      log,
		registry: options.Registry,
		api:      options.API,
		tokens:   options.Tokens,
		signer:   options.Signer,
		watch:    options.Watch,
		policy:   options.Policy,
		address:  a,
		domain:   options.Domain,
		offline:  options.OfflineDirectory,
		lock:     semaphore.NewWeighted(1),
	}
	p.newSession()
	return p, nil
}

// Status - reactive enrolment status, nil before the first sync
func (p *Product) Status() observable.Readable[*record.HoldersStatus] {
	return p.registry.HoldersStatus.Item(p.address).Atom()
}

// State - reactive accounts, nil unless enrolled
func (p *Product) State() observable.Readable[*record.HoldersState] {
	return p.registry.HoldersState.Item(p.address).Atom()
}

// IsEnrolled - a usable session token is held
func (p *Product) IsEnrolled() bool {
	token, err := p.tokens.Get(p.identity())
	if nil != err {
		return false
	}
	return tokenUsable(token, time.Now())
}

// Enroll - obtain a session token unless a usable one is held
//
// a new token triggers a full resync
func (p *Product) Enroll(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	if p.IsEnrolled() {
		p.log.Debugf("enroll: %s  already enrolled", p.address.Raw())
		return nil
	}

	ctx, session, done := p.join(ctx)
	defer done()

	proof, err := p.signer.Sign(ctx, p.domain, p.address)
	if nil != err {
		p.log.Errorf("enroll: %s  sign error: %s", p.address.Raw(), err)
		return err
	}

	token, err := p.api.Enroll(ctx, p.domain, p.address, proof)
	if nil != err {
		p.log.Warnf("enroll: %s  error: %s", p.address.Raw(), err)
		return err
	}
	if nil != session.Err() {
		return fault.ErrSessionEnded
	}
	if err := p.tokens.Put(p.identity(), token); nil != err {
		return err
	}

	p.log.Infof("enroll: %s  enrolled", p.address.Raw())
	return p.doSync(ctx, session)
}

// DoSync - refresh status and accounts
func (p *Product) DoSync(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	ctx, session, done := p.join(ctx)
	defer done()

	return p.doSync(ctx, session)
}

// status, then accounts; caller holds the lock
func (p *Product) doSync(ctx context.Context, session context.Context) error {
	token, err := p.tokens.Get(p.identity())
	if errors.Is(err, fault.ErrNoToken) {
		return p.unenrolled()
	}
	if nil != err {
		return err
	}

	var state *AccountState
	err = p.policy.Retry(ctx, p.log, "holders", func() error {
		var err error
		state, err = p.api.AccountState(ctx, token)
		return err
	})

	if nil != session.Err() {
		p.log.Debugf("sync: %s  session ended, result discarded", p.address.Raw())
		return fault.ErrSessionEnded
	}

	switch {
	case fault.IsErrAuthorisation(err):
		p.log.Warnf("sync: %s  token refused", p.address.Raw())
		p.tokens.Delete(p.identity())
		return p.unenrolled()
	case nil != err:
		p.log.Errorf("sync: %s  error: %s", p.address.Raw(), err)
		return err
	case nil == state:
		return p.unenrolled()
	}

	status := &record.HoldersStatus{State: state.State}
	if err := p.registry.HoldersStatus.Set(p.address, status); nil != err {
		return err
	}

	if record.HoldersOK != state.State {
		p.halt()
		return p.registry.HoldersState.Set(p.address, nil)
	}

	err = p.registry.HoldersState.Set(p.address, &record.HoldersState{Accounts: state.Accounts})
	if nil != err {
		return err
	}
	p.startWatcher(session, token)
	return nil
}

// status first, then the accounts go
func (p *Product) unenrolled() error {
	p.halt()
	err := p.registry.HoldersStatus.Set(p.address, &record.HoldersStatus{State: record.HoldersNeedEnrolment})
	if nil != err {
		return err
	}
	return p.registry.HoldersState.Set(p.address, nil)
}

// Cleanup - sign out: drop the token, stop the watcher and clear the
// holders records of this address
func (p *Product) Cleanup(ctx context.Context) error {

	// end the session before waiting so that a sync in flight
	// discards its result
	p.newSession()

	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	p.halt()
	p.tokens.Delete(p.identity())

	err := p.registry.HoldersStatus.Set(p.address, nil)
	if nil != err {
		return err
	}
	p.log.Infof("cleanup: %s", p.address.Raw())
	return p.registry.HoldersState.Set(p.address, nil)
}

// Stop - end the session and the watcher without touching records
func (p *Product) Stop() {
	p.sessionLock.Lock()
	defer p.sessionLock.Unlock()
	if nil != p.watcher {
		p.watcher.cancel()
		p.watcher = nil
	}
	p.endSession()
}

// Watching - true while an event watcher runs
func (p *Product) Watching() bool {
	p.sessionLock.Lock()
	defer p.sessionLock.Unlock()
	return nil != p.watcher
}

func (p *Product) identity() string {
	return p.address.Raw()
}

// cancel the current session and start a new one
func (p *Product) newSession() {
	p.sessionLock.Lock()
	defer p.sessionLock.Unlock()
	if nil != p.endSession {
		p.endSession()
	}
	p.session, p.endSession = context.WithCancel(context.Background())
}

// ctx that also ends with the current session
func (p *Product) join(ctx context.Context) (context.Context, context.Context, func()) {
	p.sessionLock.Lock()
	session := p.session
	p.sessionLock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(session, cancel)
	return ctx, session, func() {
		stop()
		cancel()
	}
}

// stop the watcher if running
func (p *Product) halt() {
	p.sessionLock.Lock()
	defer p.sessionLock.Unlock()
	if nil != p.watcher {
		p.watcher.cancel()
		p.watcher = nil
		p.log.Info("watcher: stopped")
	}
}

// start the watcher once; it lives until halt or the session ends
func (p *Product) startWatcher(session context.Context, token string) {
	if nil == p.watch {
		return
	}

	p.sessionLock.Lock()
	defer p.sessionLock.Unlock()
	if nil != p.watcher {
		return
	}

	ctx, cancel := context.WithCancel(session)
	w := &watcher{cancel: cancel}
	p.watcher = w

	notify := func() {
		go func() {
			err := p.DoSync(ctx)
			if nil != err && nil == ctx.Err() {
				p.log.Warnf("watcher: sync error: %s", err)
			}
		}()
	}

	go func() {
		p.log.Info("watcher: started")
		err := p.policy.Retry(ctx, p.log, "holders-watch", func() error {
			return p.watch(ctx, token, notify)
		})
		if nil != err && nil == ctx.Err() {
			p.log.Errorf("watcher: error: %s", err)
		}

		// a later sync may start a new one
		p.sessionLock.Lock()
		if w == p.watcher {
			p.watcher = nil
		}
		p.sessionLock.Unlock()
		cancel()
	}()
}

// true if the token is not a JWT or its expiry is not yet near
//
// the signature is the service's concern; only expiry is read here
func tokenUsable(token string, now time.Time) bool {
	if "" == token {
		return false
	}
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if nil != err {
		return true
	}
	if nil == claims.ExpiresAt {
		return true
	}
	return claims.ExpiresAt.Time.After(now.Add(expiryMargin))
}
