// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"context"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/remote"
)

// limits of the history walk
const (
	DefaultPageSize = 20
	maximumPages    = 10 // refresh gives up looking for a known id after this
)

// History - transaction history of accounts
//
// the history record of an address lists ids newest first; every id
// it lists has its transaction stored first
type History struct {
	log          *logger.L
	client       remote.Client
	transactions *collection.Collection[collection.AddressLt, record.Transaction]
	history      *collection.Collection[address.Address, record.History]
	policy       Policy
	limiter      *rate.Limiter
	pageSize     int
	flight       flight
}

// NewHistory - history sync over the two collections
func NewHistory(log *logger.L, client remote.Client, transactions *collection.Collection[collection.AddressLt, record.Transaction], history *collection.Collection[address.Address, record.History], policy Policy, limiter *rate.Limiter) *History {
	if nil == limiter {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &History{
		log:          log,
		client:       client,
		transactions: transactions,
		history:      history,
		policy:       policy,
		limiter:      limiter,
		pageSize:     DefaultPageSize,
	}
}

// SetPageSize - number of transactions asked for in one request
func (h *History) SetPageSize(n int) {
	if n > 0 {
		h.pageSize = n
	}
}

// IDs - current history of an address, newest first
func (h *History) IDs(a address.Address) []record.TxID {
	current := h.history.Get(a)
	if nil == current {
		return nil
	}
	return current.IDs
}

// Transactions - stored transactions of an address, newest first
func (h *History) Transactions(a address.Address) []record.Transaction {
	ids := h.IDs(a)
	result := make([]record.Transaction, 0, len(ids))
	for _, id := range ids {
		tx := h.transactions.Get(collection.AddressLt{Address: a, Lt: id.Lt})
		if nil != tx && tx.ID == id {
			result = append(result, *tx)
		}
	}
	return result
}

// Item - observable history of an address
func (h *History) Item(a address.Address) *collection.Item[record.History] {
	return h.history.Item(a)
}

func (h *History) page(ctx context.Context, a address.Address, from *record.TxID, count int) ([]record.Transaction, error) {
	var page []record.Transaction
	err := h.policy.Retry(ctx, h.log, "history", func() error {
		if err := h.limiter.Wait(ctx); nil != err {
			return err
		}
		p, err := h.client.Transactions(ctx, a, from, count)
		if nil != err {
			return err
		}
		page = p
		return nil
	})
	return page, err
}

func (h *History) store(a address.Address, transactions []record.Transaction) error {
	for i := range transactions {
		tx := &transactions[i]
		err := h.transactions.Set(collection.AddressLt{Address: a, Lt: tx.ID.Lt}, tx)
		if nil != err {
			return err
		}
	}
	return nil
}

// Refresh - merge the newest transactions at the head of the history
//
// pages are read backward from the newest until a known id is found;
// if none is found within the page limit the history restarts from
// what was read
func (h *History) Refresh(ctx context.Context, a address.Address) error {
	_, err := h.flight.do(ctx, "refresh:"+a.Raw(), func(ctx context.Context) (interface{}, error) {
		return nil, h.refresh(ctx, a)
	})
	return err
}

func (h *History) refresh(ctx context.Context, a address.Address) error {
	known := h.history.Get(a)
	if nil == known {
		known = &record.History{}
	}

	fresh := []record.Transaction{}
	var from *record.TxID
	overlap := false
	exhausted := false

walk:
	for n := 0; n < maximumPages; n += 1 {

		// the cursor may come back as the first entry
		count := h.pageSize
		if nil != from {
			count += 1
		}

		page, err := h.page(ctx, a, from, count)
		if nil != err {
			h.log.Errorf("refresh: %s  error: %s", a.Raw(), err)
			return err
		}
		for _, tx := range page {
			if known.Contains(tx.ID) {
				overlap = true
				break walk
			}
			if nil != from && tx.ID == *from {
				continue
			}
			fresh = append(fresh, tx)
		}
		if len(page) < count {
			exhausted = true
			break walk
		}
		last := page[len(page)-1].ID
		from = &last
	}

	// nothing new unless the end of the trail was reached for the first time
	if 0 == len(fresh) && (overlap || !exhausted || known.Exhausted) {
		return nil
	}

	err := h.store(a, fresh)
	if nil != err {
		return err
	}

	gap := !overlap && !exhausted
	return h.history.Item(a).Update(func(current *record.History) (*record.History, error) {
		if nil == current || gap {
			current = &record.History{}
		}
		ids := make([]record.TxID, 0, len(fresh)+len(current.IDs))
		for _, tx := range fresh {
			if !current.Contains(tx.ID) && !containsID(ids, tx.ID) {
				ids = append(ids, tx.ID)
			}
		}
		current.IDs = append(ids, current.IDs...)
		if exhausted && !overlap {
			current.Exhausted = true
		}
		if gap {
			h.log.Warnf("refresh: %s  no overlap in %d pages: history restarted", a.Raw(), maximumPages)
		}
		return current, nil
	})
}

// LoadMore - walk backward from cursor until count new transactions
// are known or the trail ends
//
// an id already in the history is never added again
func (h *History) LoadMore(ctx context.Context, a address.Address, cursor record.TxID, count int) (int, error) {
	if count <= 0 {
		return 0, fault.ErrInvalidCount
	}
	if cursor.IsZero() {
		return 0, fault.ErrInvalidCursor
	}

	added, err := h.flight.do(ctx, "more:"+a.Raw(), func(ctx context.Context) (interface{}, error) {
		return h.loadMore(ctx, a, cursor, count)
	})
	if nil != err {
		return 0, err
	}
	return added.(int), nil
}

func (h *History) loadMore(ctx context.Context, a address.Address, cursor record.TxID, count int) (int, error) {
	known := h.history.Get(a)
	if nil == known {
		known = &record.History{}
	}

	older := []record.Transaction{}
	from := cursor
	exhausted := false

	for len(older) < count {
		want := count - len(older)
		if want > h.pageSize {
			want = h.pageSize
		}
		request := want + 1 // the cursor may come back as the first entry

		page, err := h.page(ctx, a, &from, request)
		if nil != err {
			h.log.Errorf("load more: %s  from: %d  error: %s", a.Raw(), from.Lt, err)
			return 0, err
		}

		for _, tx := range page {
			if len(older) >= count {
				break
			}
			if tx.ID == from || known.Contains(tx.ID) || containsTx(older, tx.ID) {
				continue
			}
			older = append(older, tx)
		}
		if len(page) < request {
			exhausted = true
			break
		}
		next := page[len(page)-1].ID
		if next == from {
			exhausted = true
			break
		}
		from = next
	}

	err := h.store(a, older)
	if nil != err {
		return 0, err
	}

	added := 0
	err = h.history.Item(a).Update(func(current *record.History) (*record.History, error) {
		if nil == current {
			current = &record.History{}
		}
		for _, tx := range older {
			if !current.Contains(tx.ID) {
				current.IDs = append(current.IDs, tx.ID)
				added += 1
			}
		}
		if exhausted {
			current.Exhausted = true
		}
		return current, nil
	})
	return added, err
}

func containsID(ids []record.TxID, id record.TxID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

func containsTx(transactions []record.Transaction, id record.TxID) bool {
	for _, tx := range transactions {
		if tx.ID == id {
			return true
		}
	}
	return false
}
