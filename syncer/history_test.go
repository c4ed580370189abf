// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/remote/mocks"
)

// a remote trail of transactions, newest first
//
// a page starts at the cursor itself, the way some indexers answer
type trail struct {
	sync.Mutex
	transactions []record.Transaction
}

func txID(lt uint64) record.TxID {
	return record.TxID{Lt: lt, Hash: fmt.Sprintf("h%d", lt)}
}

func newTrail(newest uint64) *trail {
	tr := &trail{}
	tr.extend(1, newest)
	return tr
}

// add transactions from..to at the head
func (tr *trail) extend(from uint64, to uint64) {
	tr.Lock()
	defer tr.Unlock()
	head := []record.Transaction{}
	for lt := to; lt >= from; lt -= 1 {
		head = append(head, record.Transaction{
			ID:     txID(lt),
			Time:   int64(lt),
			Kind:   record.KindIn,
			Amount: record.NewAmount(lt),
		})
	}
	tr.transactions = append(head, tr.transactions...)
}

func (tr *trail) page(_ context.Context, _ address.Address, from *record.TxID, count int) ([]record.Transaction, error) {
	tr.Lock()
	defer tr.Unlock()

	start := 0
	if nil != from {
		start = -1
		for i, tx := range tr.transactions {
			if tx.ID == *from {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, fault.ErrInvalidCursor
		}
	}
	end := start + count
	if end > len(tr.transactions) {
		end = len(tr.transactions)
	}
	return append([]record.Transaction(nil), tr.transactions[start:end]...), nil
}

func expectTrail(client *mocks.MockClient, a address.Address, tr *trail) {
	client.EXPECT().Transactions(gomock.Any(), a, gomock.Any(), gomock.Any()).DoAndReturn(tr.page).AnyTimes()
}

func lts(ids []record.TxID) []uint64 {
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.Lt)
	}
	return result
}

func descending(from uint64, to uint64) []uint64 {
	result := []uint64{}
	for lt := from; lt >= to; lt -= 1 {
		result = append(result, lt)
	}
	return result
}

func TestHistoryRefresh(t *testing.T) {
	ctl, client, r, engines := setup(t)
	defer ctl.Finish()

	a := testAddress(20)
	tr := newTrail(5)
	expectTrail(client, a, tr)
	engines.History.SetPageSize(2)

	err := engines.History.Refresh(context.Background(), a)
	require.Nil(t, err, "first refresh")

	h := r.TransactionHistory.Get(a)
	require.NotNil(t, h, "no history")
	assert.Equal(t, descending(5, 1), lts(h.IDs), "wrong history")
	assert.True(t, h.Exhausted, "end of trail not recorded")

	tr.extend(6, 7)
	err = engines.History.Refresh(context.Background(), a)
	require.Nil(t, err, "second refresh")

	h = r.TransactionHistory.Get(a)
	assert.Equal(t, descending(7, 1), lts(h.IDs), "new transactions not merged at head")
	assert.True(t, h.Exhausted, "exhausted flag lost")

	// a refresh with nothing new changes nothing
	err = engines.History.Refresh(context.Background(), a)
	require.Nil(t, err, "third refresh")
	assert.Equal(t, descending(7, 1), lts(engines.History.IDs(a)), "history changed")

	transactions := engines.History.Transactions(a)
	require.Equal(t, 7, len(transactions), "transactions not stored")
	assert.Equal(t, record.NewAmount(6), transactions[1].Amount, "wrong transaction")
	assert.NotNil(t, r.Transactions.Get(collection.AddressLt{Address: a, Lt: 3}), "transaction missing")
}

func TestHistoryLoadMoreNeverDuplicates(t *testing.T) {
	ctl, client, r, engines := setup(t)
	defer ctl.Finish()

	a := testAddress(21)
	tr := newTrail(30)
	expectTrail(client, a, tr)
	engines.History.SetPageSize(5)

	// only the newest transaction is known
	newest := record.Transaction{ID: txID(30), Kind: record.KindIn, Amount: record.NewAmount(30), Time: 30}
	require.Nil(t, r.Transactions.Set(collection.AddressLt{Address: a, Lt: 30}, &newest), "seed transaction")
	require.Nil(t, r.TransactionHistory.Set(a, &record.History{IDs: []record.TxID{txID(30)}}), "seed history")

	added, err := engines.History.LoadMore(context.Background(), a, txID(30), 10)
	require.Nil(t, err, "first load")
	assert.Equal(t, 10, added, "wrong first count")
	assert.Equal(t, descending(30, 20), lts(engines.History.IDs(a)), "wrong history after first load")

	// the same cursor again walks past what is known
	added, err = engines.History.LoadMore(context.Background(), a, txID(30), 10)
	require.Nil(t, err, "repeated load")
	assert.Equal(t, 10, added, "wrong repeated count")
	assert.Equal(t, descending(30, 10), lts(engines.History.IDs(a)), "wrong history after repeated load")

	oldest := r.TransactionHistory.Get(a).Oldest()
	require.NotNil(t, oldest, "no oldest")
	added, err = engines.History.LoadMore(context.Background(), a, *oldest, 100)
	require.Nil(t, err, "final load")
	assert.Equal(t, 9, added, "wrong final count")

	h := r.TransactionHistory.Get(a)
	assert.Equal(t, descending(30, 1), lts(h.IDs), "wrong complete history")
	assert.True(t, h.Exhausted, "end of trail not recorded")
	assert.Nil(t, h.Validate(), "duplicate ids in history")

	added, err = engines.History.LoadMore(context.Background(), a, *h.Oldest(), 5)
	require.Nil(t, err, "load past the end")
	assert.Equal(t, 0, added, "added past the end")
}

func TestHistoryLoadMoreRejectsBadArguments(t *testing.T) {
	ctl, _, _, engines := setup(t)
	defer ctl.Finish()

	a := testAddress(22)
	_, err := engines.History.LoadMore(context.Background(), a, txID(1), 0)
	assert.Equal(t, fault.ErrInvalidCount, err, "zero count")

	_, err = engines.History.LoadMore(context.Background(), a, record.TxID{}, 5)
	assert.Equal(t, fault.ErrInvalidCursor, err, "zero cursor")
}
