// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package syncer - keep collections in step with the remote services
//
// every engine follows the same cycle per key:
//
//	idle -> fetching -> applying -> idle
//
// a not found result or an unauthorised response clears the local
// record; any other failure leaves it as it was
package syncer

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/remote"
)

// version of the account processing below; bump to force re-apply
const accountFullVersion = 1

// processing state key of the full account engine
const accountFullResource = "accountFull"

// Configuration - sync section of the configuration file
type Configuration struct {
	Interval int     `gluamapper:"interval" json:"interval"` // seconds between tracker rounds
	Rate     float64 `gluamapper:"rate" json:"rate"`         // remote requests per second, 0 = unlimited
	Burst    int     `gluamapper:"burst" json:"burst"`
	Retries  int     `gluamapper:"retries" json:"retries"`
	PageSize int     `gluamapper:"page_size" json:"page_size"`
}

// Limiter - one limiter shared by every engine
func (c Configuration) Limiter() *rate.Limiter {
	if c.Rate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := c.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.Rate), burst)
}

// Policy - retry policy from the configured retry count
func (c Configuration) Policy() Policy {
	p := DefaultPolicy()
	if c.Retries > 0 {
		p.Retries = c.Retries
	}
	return p
}

// Period - time between tracker rounds
func (c Configuration) Period() time.Duration {
	if c.Interval <= 0 {
		return time.Minute
	}
	return time.Duration(c.Interval) * time.Second
}

// Engines - one engine per remote resource type
type Engines struct {
	AccountLite   *Engine[address.Address, record.AccountLite]
	AccountFull   *Engine[address.Address, record.AccountFull]
	Wallet        *Engine[address.Address, record.WalletV4]
	JettonWallet  *Engine[address.Address, record.JettonWallet]
	JettonMaster  *Engine[address.Address, record.JettonMaster]
	WalletJettons *Engine[address.Address, record.WalletJettons]
	StakingPool   *Engine[collection.AddressTarget, record.StakingPool]
	Config        *Engine[collection.Void, record.Config]
	AppManifest   *Engine[string, record.AppManifest]
	History       *History
}

// NewEngines - engines over every collection of a registry
func NewEngines(log *logger.L, r *persistence.Registry, client remote.Client, configuration Configuration) (*Engines, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == r || nil == client {
		return nil, fault.ErrMissingParameters
	}

	limiter := configuration.Limiter()
	policy := configuration.Policy()

	history := NewHistory(log, client, r.Transactions, r.TransactionHistory, policy, limiter)
	history.SetPageSize(configuration.PageSize)

	processing := func(a address.Address) collection.KeyAddress {
		return collection.KeyAddress{Key: accountFullResource, Address: a}
	}
	fullOptions := Options[address.Address, record.AccountFull]{
		Policy:  policy,
		Limiter: limiter,
		Skip: func(a address.Address, value *record.AccountFull) bool {
			state := r.ProcessingState.Get(processing(a))
			return nil != state && *state == processingStateOf(value)
		},
		Applied: func(a address.Address, value *record.AccountFull) {
			state := processingStateOf(value)
			if err := r.ProcessingState.Set(processing(a), &state); nil != err {
				log.Errorf("processing state: %s  error: %s", a.Raw(), err)
			}
		},
	}

	e := &Engines{
		AccountLite: NewEngine("accountLite", log, r.AccountsLite, client.AccountLite,
			Options[address.Address, record.AccountLite]{Policy: policy, Limiter: limiter}),
		AccountFull: NewEngine("accountFull", log, r.AccountsFull, client.AccountFull, fullOptions),
		Wallet: NewEngine("wallet", log, r.Wallets, client.WalletV4,
			Options[address.Address, record.WalletV4]{Policy: policy, Limiter: limiter}),
		JettonWallet: NewEngine("jettonWallet", log, r.JettonWallets, client.JettonWallet,
			Options[address.Address, record.JettonWallet]{Policy: policy, Limiter: limiter}),
		JettonMaster: NewEngine("jettonMaster", log, r.JettonMasters, client.JettonMaster,
			Options[address.Address, record.JettonMaster]{Policy: policy, Limiter: limiter}),
		WalletJettons: NewEngine("walletJettons", log, r.WalletJettons, client.WalletJettons,
			Options[address.Address, record.WalletJettons]{Policy: policy, Limiter: limiter}),
		StakingPool: NewEngine("stakingPool", log, r.StakingPools,
			func(ctx context.Context, k collection.AddressTarget) (*record.StakingPool, error) {
				return client.StakingPool(ctx, k.Address, k.Target)
			},
			Options[collection.AddressTarget, record.StakingPool]{Policy: policy, Limiter: limiter}),
		Config: NewEngine("config", log, r.Config,
			func(ctx context.Context, _ collection.Void) (*record.Config, error) {
				return client.Config(ctx)
			},
			Options[collection.Void, record.Config]{Policy: policy, Limiter: limiter}),
		AppManifest: NewEngine("appManifest", log, r.AppManifests, client.AppManifest,
			Options[string, record.AppManifest]{Policy: policy, Limiter: limiter}),
		History: history,
	}
	return e, nil
}

func processingStateOf(value *record.AccountFull) record.ProcessingState {
	state := record.ProcessingState{
		Version: accountFullVersion,
		Seqno:   value.Block,
	}
	if nil != value.Last {
		state.Lt = value.Last.Lt
	}
	return state
}

// SyncJettons - refresh the jetton list of an owner then every wallet
// on it and the master of each wallet
func (e *Engines) SyncJettons(ctx context.Context, r *persistence.Registry, owner address.Address) error {
	err := e.WalletJettons.Sync(ctx, owner)
	if nil != err {
		return err
	}
	list := r.WalletJettons.Get(owner)
	if nil == list {
		return nil
	}
	for _, w := range list.Wallets {
		err := e.JettonWallet.Sync(ctx, w)
		if nil != err && !fault.IsErrAuthorisation(err) {
			return err
		}
		jetton := r.JettonWallets.Get(w)
		if nil == jetton {
			continue
		}
		if nil != r.JettonMasters.Get(jetton.Master) {
			continue
		}
		err = e.JettonMaster.Sync(ctx, jetton.Master)
		if nil != err {
			return err
		}
	}
	return nil
}
