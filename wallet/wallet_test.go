// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet_test

import (
	"context"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/remote/mocks"
	"github.com/bitmark-inc/walletstate/storage"
	"github.com/bitmark-inc/walletstate/syncer"
	"github.com/bitmark-inc/walletstate/wallet"
)

func testAddress(b byte) address.Address {
	a := address.Address{}
	a.Hash[0] = b
	a.Hash[31] = b
	return a
}

func transaction(lt uint64) record.Transaction {
	id := record.TxID{Lt: lt}
	id.Hash = string([]byte{byte(lt)})
	return record.Transaction{
		ID:     id,
		Time:   int64(lt),
		Kind:   record.KindIn,
		Amount: record.NewAmount(lt * 10),
	}
}

func setup(t *testing.T) (*mocks.MockClient, *persistence.Registry, *wallet.Product) {
	log := logger.New(logCategory)
	ctl := gomock.NewController(t)
	client := mocks.NewMockClient(ctl)

	r, err := persistence.New(log, storage.NewMemory(log), false)
	require.Nil(t, err, "registry")

	engines, err := syncer.NewEngines(log, r, client, syncer.Configuration{PageSize: 5})
	require.Nil(t, err, "engines")

	p, err := wallet.New(log, testAddress(1), r, engines)
	require.Nil(t, err, "product")
	return client, r, p
}

func TestSyncDropsPassedPending(t *testing.T) {
	client, _, p := setup(t)
	a := p.Address()
	ctx := context.Background()

	first, err := p.RegisterPending(testAddress(9), record.NewAmount(100), 5, "rent")
	require.Nil(t, err, "register")
	second, err := p.RegisterPending(testAddress(9), record.NewAmount(200), 6, "")
	require.Nil(t, err, "register")
	assert.NotEqual(t, first.ID, second.ID, "duplicate pending id")

	_, err = p.RegisterPending(testAddress(9), record.NewAmount(300), 6, "")
	assert.Equal(t, fault.ErrSeqnoAlreadyUsed, err, "pending seqno reused")

	entries := p.Transactions().Get()
	require.Equal(t, 2, len(entries), "wrong entry count")
	assert.Equal(t, second.ID, entries[0].Pending.ID, "newest pending not first")
	assert.Equal(t, first.ID, entries[1].Pending.ID, "oldest pending not second")

	client.EXPECT().WalletV4(gomock.Any(), a).Return(&record.WalletV4{
		Seqno:   6,
		Balance: record.NewAmount(700),
		Plugins: []address.Address{},
	}, nil)
	client.EXPECT().AccountFull(gomock.Any(), a).Return(&record.AccountFull{
		Balance: record.NewAmount(700),
		State:   record.StateActive,
		Block:   12,
	}, nil)
	client.EXPECT().Transactions(gomock.Any(), a, nil, 5).Return([]record.Transaction{
		transaction(30),
		transaction(20),
	}, nil)

	require.Nil(t, p.Sync(ctx), "sync")

	assert.Equal(t, uint32(6), p.Seqno().Get(), "wrong seqno")
	require.NotNil(t, p.Balance().Get(), "no balance")
	assert.Equal(t, "700", p.Balance().Get().String(), "wrong balance")

	entries = p.Transactions().Get()
	require.Equal(t, 3, len(entries), "wrong entry count after sync")
	require.NotNil(t, entries[0].Pending, "pending not first")
	assert.Equal(t, second.ID, entries[0].Pending.ID, "wrong pending kept")
	assert.Equal(t, uint64(30), entries[1].Transaction.ID.Lt, "wrong newest transaction")
	assert.Equal(t, uint64(20), entries[2].Transaction.ID.Lt, "wrong oldest transaction")
}

func TestRegisterPendingRejects(t *testing.T) {
	_, r, p := setup(t)

	_, err := p.RegisterPending(address.Address{}, record.NewAmount(1), 1, "")
	assert.Equal(t, fault.ErrMissingParameters, err, "zero destination")

	_, err = p.RegisterPending(testAddress(2), record.NewAmount(0), 1, "")
	assert.Equal(t, fault.ErrInvalidAmount, err, "zero amount")

	require.Nil(t, r.Wallets.Set(p.Address(), &record.WalletV4{Seqno: 4, Plugins: []address.Address{}}), "seed")
	_, err = p.RegisterPending(testAddress(2), record.NewAmount(1), 3, "")
	assert.Equal(t, fault.ErrSeqnoAlreadyUsed, err, "used seqno")

	assert.Nil(t, r.PendingTransactions.Get(p.Address()), "rejected transfer stored")
}

func TestSyncKeepsGoingAfterFailure(t *testing.T) {
	client, _, p := setup(t)
	a := p.Address()

	client.EXPECT().WalletV4(gomock.Any(), a).Return(nil, fault.ErrInvalidPayload)
	client.EXPECT().AccountFull(gomock.Any(), a).Return(&record.AccountFull{
		Balance: record.NewAmount(3),
		State:   record.StateUninit,
	}, nil)
	client.EXPECT().Transactions(gomock.Any(), a, nil, 5).Return([]record.Transaction{}, nil)

	assert.Equal(t, fault.ErrInvalidPayload, p.Sync(context.Background()), "wrong error")
	assert.Equal(t, "3", p.Balance().Get().String(), "account not synced")
	assert.Equal(t, uint32(0), p.Seqno().Get(), "seqno without wallet")
}

func TestLoadMore(t *testing.T) {
	client, r, p := setup(t)
	a := p.Address()

	newest := transaction(50)
	require.Nil(t, r.Transactions.Set(collection.AddressLt{Address: a, Lt: 50}, &newest), "seed transaction")
	require.Nil(t, r.TransactionHistory.Set(a, &record.History{IDs: []record.TxID{newest.ID}}), "seed history")

	cursor := newest.ID
	client.EXPECT().Transactions(gomock.Any(), a, &cursor, 3).Return([]record.Transaction{
		newest,
		transaction(40),
	}, nil)

	added, err := p.LoadMore(context.Background(), cursor, 2)
	require.Nil(t, err, "load more")
	assert.Equal(t, 1, added, "wrong added count")

	history := r.TransactionHistory.Get(a)
	require.NotNil(t, history, "no history")
	assert.True(t, history.Exhausted, "short page did not exhaust")
	assert.Equal(t, 2, len(p.Transactions().Get()), "wrong entry count")
}

func TestSyncStaking(t *testing.T) {
	client, r, p := setup(t)
	a := p.Address()
	pool := testAddress(40)

	client.EXPECT().Config(gomock.Any()).Return(&record.Config{
		Version:      1,
		StakingPools: []address.Address{pool},
	}, nil)
	client.EXPECT().StakingPool(gomock.Any(), pool, a).Return(&record.StakingPool{
		Balance:  record.NewAmount(1000),
		MinStake: record.NewAmount(50),
	}, nil)

	require.Nil(t, p.SyncStaking(context.Background()), "sync staking")

	position := r.StakingPools.Get(collection.AddressTarget{Address: pool, Target: a})
	require.NotNil(t, position, "position not stored")
	assert.Equal(t, "1000", position.Balance.String(), "wrong balance")
}

func TestJettons(t *testing.T) {
	client, _, p := setup(t)
	a := p.Address()
	jw := testAddress(60)
	master := testAddress(61)

	client.EXPECT().WalletJettons(gomock.Any(), a).Return(&record.WalletJettons{Wallets: []address.Address{jw}}, nil)
	client.EXPECT().JettonWallet(gomock.Any(), jw).Return(&record.JettonWallet{
		Owner:   a,
		Master:  master,
		Balance: record.NewAmount(42),
	}, nil)
	client.EXPECT().JettonMaster(gomock.Any(), master).Return(&record.JettonMaster{
		Name:     "Token",
		Symbol:   "TOK",
		Decimals: 9,
	}, nil)

	require.Nil(t, p.SyncJettons(context.Background()), "sync jettons")

	jettons := p.Jettons().Get()
	require.Equal(t, 1, len(jettons), "wrong jetton count")
	assert.Equal(t, "42", jettons[0].Balance.String(), "wrong balance")
	require.NotNil(t, jettons[0].Details, "no master details")
	assert.Equal(t, "TOK", jettons[0].Details.Symbol, "wrong symbol")
}

func TestNewRejectsMissing(t *testing.T) {
	log := logger.New(logCategory)
	_, err := wallet.New(log, testAddress(1), nil, nil)
	assert.Equal(t, fault.ErrMissingParameters, err, "missing registry")
	_, err = wallet.New(nil, testAddress(1), nil, nil)
	assert.Equal(t, fault.ErrInvalidLoggerChannel, err, "missing logger")
}
