// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secure_test

import (
	"bytes"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/secure"
	"github.com/bitmark-inc/walletstate/storage"
)

func TestPutGetDelete(t *testing.T) {
	log := logger.New(logCategory)
	store := storage.NewMemory(log)

	tokens, err := secure.New(log, store, "correct horse")
	require.Nil(t, err, "new")

	_, err = tokens.Get("alice")
	assert.Equal(t, fault.ErrNoToken, err, "absent token")
	assert.False(t, tokens.Has("alice"), "absent token reported")

	require.Nil(t, tokens.Put("alice", "secret-token"), "put")
	assert.True(t, tokens.Has("alice"), "token not reported")

	token, err := tokens.Get("alice")
	require.Nil(t, err, "get")
	assert.Equal(t, "secret-token", token, "wrong token")

	// not stored in clear
	for _, k := range store.Keys("") {
		assert.False(t, bytes.Contains(store.Get(k), []byte("secret-token")), "token in clear under: %q", k)
	}

	assert.Equal(t, fault.ErrEmptyToken, tokens.Put("bob", ""), "empty token accepted")

	tokens.Delete("alice")
	_, err = tokens.Get("alice")
	assert.Equal(t, fault.ErrNoToken, err, "token not deleted")
}

func TestReopen(t *testing.T) {
	log := logger.New(logCategory)
	store := storage.NewMemory(log)

	tokens, err := secure.New(log, store, "correct horse")
	require.Nil(t, err, "new")
	require.Nil(t, tokens.Put("alice", "secret-token"), "put")

	again, err := secure.New(log, store, "correct horse")
	require.Nil(t, err, "reopen")
	token, err := again.Get("alice")
	assert.Nil(t, err, "get after reopen")
	assert.Equal(t, "secret-token", token, "wrong token after reopen")

	wrong, err := secure.New(log, store, "battery staple")
	require.Nil(t, err, "open with other passphrase")
	_, err = wrong.Get("alice")
	assert.Equal(t, fault.ErrDecryptionFailed, err, "opened with wrong passphrase")

	store.Put("token/carol", []byte("short"))
	_, err = again.Get("carol")
	assert.Equal(t, fault.ErrDecryptionFailed, err, "truncated token accepted")
}

func TestMissingParameters(t *testing.T) {
	log := logger.New(logCategory)
	_, err := secure.New(log, storage.NewMemory(log), "")
	assert.Equal(t, fault.ErrMissingParameters, err, "empty passphrase accepted")

	_, err = secure.New(nil, storage.NewMemory(log), "x")
	assert.Equal(t, fault.ErrInvalidLoggerChannel, err, "nil logger accepted")
}
