// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/storage"
)

func run(args ...string) (string, string, error) {
	w := &bytes.Buffer{}
	e := &bytes.Buffer{}
	err := newApp(w, e).Run(append([]string{"walletstate-dump"}, args...))
	return w.String(), e.String(), err
}

func fillDatabase(t *testing.T, version int64) string {
	directory := t.TempDir()
	store, err := storage.Open(logger.New(logCategory), storage.Configuration{
		Engine:    storage.EngineLevelDB,
		Directory: directory,
		Name:      "walletstate",
	})
	require.Nil(t, err, "open")

	store.PutNumber(persistence.VersionKey, version)
	store.Put("wallets/0:aa", []byte(`{"seqno":3}`))
	store.Put("wallets/0:bb", []byte(`{"seqno":`))
	store.Put("wallets/1:cc", []byte(`{"seqno":9}`))
	store.Put("settings/", []byte(`{"hide_balance":true}`))
	require.Nil(t, store.Close(), "close")

	return directory
}

func TestNamespaces(t *testing.T) {
	out, _, err := run("namespaces")
	require.Nil(t, err, "run")

	var namespaces []persistence.Namespace
	require.Nil(t, json.Unmarshal([]byte(out), &namespaces), "decode output")

	names := map[string]bool{}
	for _, n := range namespaces {
		names[n.Name] = true
	}
	for _, expected := range []string{"wallets", "settings", "holdersStatus", "pendingTransactions"} {
		assert.True(t, names[expected], "missing namespace: %s", expected)
	}
}

func TestDump(t *testing.T) {
	directory := fillDatabase(t, persistence.CurrentVersion)

	out, errOut, err := run("--directory", directory, "dump", "wallets")
	require.Nil(t, err, "run")

	var entries []entry
	require.Nil(t, json.Unmarshal([]byte(out), &entries), "decode output")
	require.Equal(t, 2, len(entries), "wrong entry count")
	assert.Equal(t, "0:aa", entries[0].Key, "wrong first key")
	assert.JSONEq(t, `{"seqno":3}`, string(entries[0].Value), "wrong first value")
	assert.Equal(t, "1:cc", entries[1].Key, "wrong second key")
	assert.Contains(t, errOut, "0:bb", "undecodable record not reported")
}

func TestDumpPrefixAndCount(t *testing.T) {
	directory := fillDatabase(t, persistence.CurrentVersion)

	out, _, err := run("--directory", directory, "dump", "--prefix", "1:", "wallets")
	require.Nil(t, err, "run")
	var entries []entry
	require.Nil(t, json.Unmarshal([]byte(out), &entries), "decode output")
	require.Equal(t, 1, len(entries), "prefix ignored")
	assert.Equal(t, "1:cc", entries[0].Key, "wrong key")

	out, _, err = run("--directory", directory, "dump", "--count", "1", "wallets")
	require.Nil(t, err, "run")
	require.Nil(t, json.Unmarshal([]byte(out), &entries), "decode output")
	assert.Equal(t, 1, len(entries), "count ignored")
}

func TestDumpRejects(t *testing.T) {
	directory := fillDatabase(t, persistence.CurrentVersion)

	_, _, err := run("--directory", directory, "dump")
	assert.Equal(t, fault.ErrMissingParameters, err, "missing namespace accepted")

	_, _, err = run("--directory", directory, "dump", "blocks")
	assert.True(t, fault.IsErrInvalid(err), "unknown namespace accepted: %v", err)
}

func TestVersion(t *testing.T) {
	directory := fillDatabase(t, persistence.CurrentVersion-1)

	out, _, err := run("--directory", directory, "version")
	require.Nil(t, err, "run")

	var v struct {
		Stored  int64 `json:"stored"`
		Current int64 `json:"current"`
		Wipe    bool  `json:"wipe_on_start"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &v), "decode output")
	assert.Equal(t, int64(persistence.CurrentVersion-1), v.Stored, "wrong stored version")
	assert.Equal(t, int64(persistence.CurrentVersion), v.Current, "wrong current version")
	assert.True(t, v.Wipe, "wipe not reported")

	// inspecting must not wipe or rewrite the store
	out, _, err = run("--directory", directory, "dump", "settings")
	require.Nil(t, err, "run")
	assert.Contains(t, out, "hide_balance", "record lost")
}
