// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settings

import (
	"context"

	"github.com/bitmark-inc/logger"
	"golang.org/x/sync/semaphore"

	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/observable"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/syncer"
)

// DefaultCurrency - primary currency before the user picks one
const DefaultCurrency = "USD"

// Product - local preferences and the remote configuration
type Product struct {
	log      *logger.L
	registry *persistence.Registry
	engines  *syncer.Engines
	lock     *semaphore.Weighted
}

// New - settings over a registry
func New(log *logger.L, registry *persistence.Registry, engines *syncer.Engines) (*Product, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == registry || nil == engines {
		return nil, fault.ErrMissingParameters
	}
	return &Product{
		log:      log,
		registry: registry,
		engines:  engines,
		lock:     semaphore.NewWeighted(1),
	}, nil
}

// Settings - reactive preferences; defaults while nothing is stored
func (p *Product) Settings() observable.Readable[record.Settings] {
	return observable.Map[*record.Settings, record.Settings](
		p.registry.Settings.Item(collection.Void{}).Atom(),
		func(s *record.Settings) record.Settings {
			if nil == s {
				return defaults()
			}
			return *s
		})
}

// Config - reactive remote configuration, nil until fetched
func (p *Product) Config() observable.Readable[*record.Config] {
	return p.registry.Config.Item(collection.Void{}).Atom()
}

// SetHideBalance - show or hide balances
func (p *Product) SetHideBalance(hide bool) error {
	return p.update(func(s *record.Settings) {
		s.HideBalance = hide
	})
}

// SetPrimaryCurrency - currency used for fiat values
func (p *Product) SetPrimaryCurrency(currency string) error {
	if "" == currency {
		return fault.ErrMissingParameters
	}
	return p.update(func(s *record.Settings) {
		s.PrimaryCurrency = currency
	})
}

// SetNotifications - enable or disable notifications
func (p *Product) SetNotifications(enabled bool) error {
	return p.update(func(s *record.Settings) {
		s.Notifications = enabled
	})
}

// Reset - back to the defaults
func (p *Product) Reset() error {
	return p.registry.Settings.Set(collection.Void{}, nil)
}

// Sync - refresh the remote configuration
func (p *Product) Sync(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	err := p.engines.Config.Sync(ctx, collection.Void{})
	if nil != err {
		p.log.Warnf("config: error: %s", err)
	}
	return err
}

func (p *Product) update(fn func(*record.Settings)) error {
	return p.registry.Settings.Item(collection.Void{}).Update(func(current *record.Settings) (*record.Settings, error) {
		if nil == current {
			d := defaults()
			current = &d
		}
		fn(current)
		return current, nil
	})
}

func defaults() record.Settings {
	return record.Settings{
		PrimaryCurrency: DefaultCurrency,
		Notifications:   true,
	}
}
