// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/observable"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/syncer"
)

// Entry - one line of the transaction list
//
// exactly one of the fields is set
type Entry struct {
	Pending     *record.PendingTransaction
	Transaction *record.Transaction
}

// Jetton - balance of one jetton wallet with its master's details
type Jetton struct {
	Wallet  address.Address
	Master  address.Address
	Balance record.Amount
	Details *record.JettonMaster // nil until the master is fetched
}

// Product - one wallet address
type Product struct {
	log      *logger.L
	registry *persistence.Registry
	engines  *syncer.Engines
	address  address.Address
	lock     *semaphore.Weighted
	now      func() time.Time
}

// New - product over the engines for one address
func New(log *logger.L, a address.Address, registry *persistence.Registry, engines *syncer.Engines) (*Product, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == registry || nil == engines || a.IsZero() {
		return nil, fault.ErrMissingParameters
	}
	return &Product{
		log:      log,
		registry: registry,
		engines:  engines,
		address:  a,
		lock:     semaphore.NewWeighted(1),
		now:      time.Now,
	}, nil
}

// Address - the wallet address
func (p *Product) Address() address.Address {
	return p.address
}

// Sync - refresh wallet, account and newest transactions
//
// every resource is attempted; the first error is returned
func (p *Product) Sync(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	var first error
	keep := func(name string, err error) {
		if nil == err {
			return
		}
		p.log.Warnf("sync: %s  %s  error: %s", p.address.Raw(), name, err)
		if nil == first {
			first = err
		}
	}

	keep("wallet", p.engines.Wallet.Sync(ctx, p.address))
	keep("account", p.engines.AccountFull.Sync(ctx, p.address))
	keep("history", p.engines.History.Refresh(ctx, p.address))

	if err := p.prunePending(); nil != err {
		keep("pending", err)
	}
	return first
}

// LoadMore - extend the history back from cursor
func (p *Product) LoadMore(ctx context.Context, cursor record.TxID, count int) (int, error) {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return 0, err
	}
	defer p.lock.Release(1)

	return p.engines.History.LoadMore(ctx, p.address, cursor, count)
}

// SyncJettons - refresh jetton wallets of this address
func (p *Product) SyncJettons(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	return p.engines.SyncJettons(ctx, p.registry, p.address)
}

// SyncStaking - refresh the configuration then this address's
// position in every pool it lists
func (p *Product) SyncStaking(ctx context.Context) error {
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	err := p.engines.Config.Sync(ctx, collection.Void{})
	if nil != err {
		return err
	}
	config := p.registry.Config.Get(collection.Void{})
	if nil == config {
		return nil
	}
	for _, pool := range config.StakingPools {
		k := collection.AddressTarget{Address: pool, Target: p.address}
		if err := p.engines.StakingPool.Sync(ctx, k); nil != err {
			return err
		}
	}
	return nil
}

// RegisterPending - record an outgoing transfer until the wallet's
// seqno moves past it
func (p *Product) RegisterPending(destination address.Address, amount record.Amount, seqno uint32, comment string) (*record.PendingTransaction, error) {
	if destination.IsZero() {
		return nil, fault.ErrMissingParameters
	}
	if amount.IsZero() {
		return nil, fault.ErrInvalidAmount
	}
	if w := p.registry.Wallets.Get(p.address); nil != w && seqno < w.Seqno {
		return nil, fault.ErrSeqnoAlreadyUsed
	}

	pending := record.PendingTransaction{
		ID:          uuid.NewString(),
		Seqno:       seqno,
		Time:        p.now().Unix(),
		Destination: destination,
		Amount:      amount,
		Comment:     comment,
	}

	err := p.registry.PendingTransactions.Item(p.address).Update(func(current *record.Pending) (*record.Pending, error) {
		if nil == current {
			current = &record.Pending{}
		}
		for _, item := range current.Items {
			if item.Seqno == seqno {
				return nil, fault.ErrSeqnoAlreadyUsed
			}
		}
		current.Items = append(current.Items, pending)
		return current, nil
	})
	if nil != err {
		return nil, err
	}
	p.log.Infof("pending: %s  id: %s  seqno: %d", p.address.Raw(), pending.ID, seqno)
	return &pending, nil
}

// drop pending transfers the wallet's seqno has passed
func (p *Product) prunePending() error {
	w := p.registry.Wallets.Get(p.address)
	if nil == w {
		return nil
	}
	return p.registry.PendingTransactions.Item(p.address).Update(func(current *record.Pending) (*record.Pending, error) {
		if nil == current {
			return nil, nil
		}
		kept := make([]record.PendingTransaction, 0, len(current.Items))
		for _, item := range current.Items {
			if item.Seqno >= w.Seqno {
				kept = append(kept, item)
			}
		}
		if 0 == len(kept) {
			return nil, nil
		}
		current.Items = kept
		return current, nil
	})
}

// Balance - reactive balance, nil until the account is fetched
func (p *Product) Balance() observable.Readable[*record.Amount] {
	return observable.Map[*record.AccountFull, *record.Amount](
		p.registry.AccountsFull.Item(p.address).Atom(),
		func(a *record.AccountFull) *record.Amount {
			if nil == a {
				return nil
			}
			balance := a.Balance
			return &balance
		})
}

// Seqno - reactive wallet seqno, 0 until the wallet is fetched
func (p *Product) Seqno() observable.Readable[uint32] {
	return observable.Map[*record.WalletV4, uint32](
		p.registry.Wallets.Item(p.address).Atom(),
		func(w *record.WalletV4) uint32 {
			if nil == w {
				return 0
			}
			return w.Seqno
		})
}

// Transactions - reactive list, pending transfers first then the
// history newest first
func (p *Product) Transactions() observable.Readable[[]Entry] {
	return observable.Combine[*record.Pending, *record.History, []Entry](
		p.registry.PendingTransactions.Item(p.address).Atom(),
		p.engines.History.Item(p.address).Atom(),
		func(pending *record.Pending, history *record.History) []Entry {
			entries := []Entry{}
			if nil != pending {
				for i := len(pending.Items) - 1; i >= 0; i -= 1 {
					item := pending.Items[i]
					entries = append(entries, Entry{Pending: &item})
				}
			}
			if nil == history {
				return entries
			}
			for _, id := range history.IDs {
				tx := p.registry.Transactions.Get(collection.AddressLt{Address: p.address, Lt: id.Lt})
				if nil != tx && tx.ID == id {
					entries = append(entries, Entry{Transaction: tx})
				}
			}
			return entries
		})
}

// Jettons - reactive jetton balances in list order
func (p *Product) Jettons() observable.Readable[[]Jetton] {
	return observable.Map[*record.WalletJettons, []Jetton](
		p.registry.WalletJettons.Item(p.address).Atom(),
		func(list *record.WalletJettons) []Jetton {
			jettons := []Jetton{}
			if nil == list {
				return jettons
			}
			for _, w := range list.Wallets {
				jw := p.registry.JettonWallets.Get(w)
				if nil == jw {
					continue
				}
				jettons = append(jettons, Jetton{
					Wallet:  w,
					Master:  jw.Master,
					Balance: jw.Balance,
					Details: p.registry.JettonMasters.Get(jw.Master),
				})
			}
			return jettons
		})
}
