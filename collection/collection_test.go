// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package collection_test

import (
	"errors"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/storage"
)

func testEnvironment(testnet bool) collection.Environment {
	log := logger.New(logCategory)
	return collection.Environment{
		Log:     log,
		Store:   storage.NewMemory(log),
		Testnet: testnet,
	}
}

func testAddress(b byte) address.Address {
	a := address.Address{}
	a.Hash[0] = b
	a.Hash[31] = b
	return a
}

func wallet(seqno uint32, balance uint64) *record.WalletV4 {
	return &record.WalletV4{
		Seqno:   seqno,
		Balance: record.NewAmount(balance),
		Plugins: []address.Address{},
	}
}

func TestSetGet(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(1)
	assert.Nil(t, wallets.Get(a), "absent record returned a value")

	err = wallets.Set(a, wallet(1, 1000))
	require.Nil(t, err, "set")
	assert.Equal(t, wallet(1, 1000), wallets.Get(a), "wrong value read back")
	assert.Equal(t, wallet(1, 1000), wallets.Item(a).Value(), "wrong item value")

	assert.NotNil(t, env.Store.Get("wallets/"+a.Canonical(false)), "wrong physical key")
	assert.Equal(t, []string{a.Canonical(false)}, wallets.Keys(), "wrong keys")

	err = wallets.Set(a, nil)
	require.Nil(t, err, "delete")
	assert.Nil(t, wallets.Get(a), "deleted record returned a value")
	assert.Nil(t, wallets.Item(a).Value(), "deleted item returned a value")
	assert.Equal(t, 0, len(wallets.Keys()), "keys left after delete")
}

func TestCallerPointerNotShared(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(4)
	item := wallets.Item(a)

	received := []*record.WalletV4{}
	cancel := item.For(func(w *record.WalletV4) {
		received = append(received, w)
	})
	defer cancel()

	w := wallet(3, 300)
	require.Nil(t, wallets.Set(a, w), "set")
	require.Equal(t, 2, len(received), "wrong notification count")
	assert.NotSame(t, w, received[1], "subscriber got the caller's pointer")
	assert.NotSame(t, w, item.Value(), "cell holds the caller's pointer")

	// later changes to the caller's record stay private
	w.Seqno = 99
	w.Plugins = append(w.Plugins, testAddress(9))
	assert.Equal(t, wallet(3, 300), item.Value(), "cell changed without a write")
	assert.Equal(t, wallet(3, 300), received[1], "subscriber value changed without a write")
	assert.Equal(t, wallet(3, 300), wallets.Get(a), "store changed without a write")
}

func TestCellIdentity(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(2)
	first := wallets.Item(a)
	second := wallets.Item(a)
	assert.Same(t, first, second, "items differ")
	assert.Same(t, first.Atom(), second.Atom(), "cells differ")

	// the example from the wallets namespace
	seen := []uint32{}
	cancel := first.For(func(w *record.WalletV4) {
		if nil != w {
			seen = append(seen, w.Seqno)
		}
	})
	defer cancel()

	require.Nil(t, second.Set(wallet(1, 1000)), "set 1")
	require.Nil(t, wallets.Set(a, wallet(2, 1000)), "set 2")

	assert.Equal(t, []uint32{1, 2}, seen, "subscriber missed updates")
	assert.Equal(t, wallet(2, 1000), first.Value(), "wrong value")
}

func TestForReplaysCurrentValue(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(3)
	require.Nil(t, wallets.Set(a, wallet(5, 10)), "set")

	calls := 0
	var last *record.WalletV4
	cancel := wallets.Item(a).For(func(w *record.WalletV4) {
		calls += 1
		last = w
	})
	assert.Equal(t, 1, calls, "no replay")
	assert.Equal(t, wallet(5, 10), last, "wrong replayed value")

	cancel()
	require.Nil(t, wallets.Set(a, wallet(6, 10)), "set")
	assert.Equal(t, 1, calls, "called after cancel")
}

func TestUpdate(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(4)
	item := wallets.Item(a)

	err = item.Update(func(w *record.WalletV4) (*record.WalletV4, error) {
		assert.Nil(t, w, "absent record given a value")
		return wallet(1, 100), nil
	})
	require.Nil(t, err, "first update")

	err = item.Update(func(w *record.WalletV4) (*record.WalletV4, error) {
		w.Seqno += 1
		return w, nil
	})
	require.Nil(t, err, "second update")
	assert.Equal(t, uint32(2), wallets.Get(a).Seqno, "increment lost")

	// failing function leaves the record untouched
	failure := errors.New("abandon")
	err = item.Update(func(w *record.WalletV4) (*record.WalletV4, error) {
		w.Seqno = 99
		return nil, failure
	})
	assert.Equal(t, failure, err, "error not propagated")
	assert.Equal(t, uint32(2), wallets.Get(a).Seqno, "failed update was written")
	assert.Equal(t, uint32(2), item.Value().Seqno, "failed update reached the cell")

	// a value the codec rejects is not written either
	err = item.Set(&record.WalletV4{Seqno: 7})
	assert.Equal(t, fault.ErrInvalidPayload, err, "invalid record accepted")
	assert.Equal(t, uint32(2), wallets.Get(a).Seqno, "invalid record was written")
}

func TestUndecodableRecordIsAbsent(t *testing.T) {
	env := testEnvironment(false)
	wallets, err := collection.Bind[address.Address, record.WalletV4](env, "wallets")
	require.Nil(t, err, "bind")

	a := testAddress(5)
	env.Store.Put("wallets/"+a.Canonical(false), []byte(`{"seqno":"not a number"}`))

	assert.Nil(t, wallets.Get(a), "undecodable record returned a value")
	assert.Nil(t, wallets.Item(a).Value(), "undecodable record reached the cell")

	// update sees absence and can replace it
	err = wallets.Item(a).Update(func(w *record.WalletV4) (*record.WalletV4, error) {
		assert.Nil(t, w, "undecodable record given to update")
		return wallet(1, 1), nil
	})
	assert.Nil(t, err, "update")
	assert.Equal(t, wallet(1, 1), wallets.Get(a), "replacement not stored")
}

func TestNamespaces(t *testing.T) {
	env := testEnvironment(false)

	for _, namespace := range []string{"", "a/b", "\x00VERSION"} {
		_, err := collection.Bind[address.Address, record.WalletV4](env, namespace)
		assert.Equal(t, fault.ErrInvalidNamespace, err, "accepted namespace: %q", namespace)
	}

	_, err := collection.Bind[int, record.WalletV4](env, "numbers")
	assert.Equal(t, fault.ErrUnknownKeyType, err, "accepted int key")

	_, err = collection.New[string, record.Settings](nil, env.Store, "settings", func(s string) string { return s }, nil)
	assert.Equal(t, fault.ErrInvalidLoggerChannel, err, "accepted nil logger")

	// namespaces sharing a prefix do not see each other's records
	one, err := collection.Bind[string, record.AppData](env, "app")
	require.Nil(t, err, "bind app")
	two, err := collection.Bind[string, record.AppData](env, "appData")
	require.Nil(t, err, "bind appData")

	require.Nil(t, two.Set("x", &record.AppData{Title: "x"}), "set")
	assert.Nil(t, one.Get("x"), "record leaked across namespaces")
	assert.Equal(t, 0, len(one.Keys()), "keys leaked across namespaces")
}

func TestDescribe(t *testing.T) {
	env := testEnvironment(false)
	c, err := collection.Bind[collection.AddressLt, record.Transaction](env, "transactions")
	require.Nil(t, err, "bind")

	namespace, kind := c.Describe()
	assert.Equal(t, "transactions", namespace, "wrong namespace")
	assert.Equal(t, "address+lt", kind, "wrong key kind")
	assert.Equal(t, "transactions", c.Namespace(), "wrong namespace")
}
