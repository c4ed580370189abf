// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/storage"
)

type entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func (m *metadata) open() (storage.Handle, error) {
	return storage.Open(logger.New("dump"), storage.Configuration{
		Engine:    m.engine,
		Directory: m.directory,
		Name:      m.name,
		ReadOnly:  storage.ReadOnly,
	})
}

// registry over an empty store, only used for its description
func describe(testnet bool) ([]persistence.Namespace, error) {
	log := logger.New("dump")
	r, err := persistence.New(log, storage.NewMemory(log), testnet)
	if nil != err {
		return nil, err
	}
	return r.Namespaces(), nil
}

func runNamespaces(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	namespaces, err := describe(m.testnet)
	if nil != err {
		return err
	}
	return printJson(m.w, namespaces)
}

func runVersion(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	store, err := m.open()
	if nil != err {
		return err
	}
	defer store.Close()

	stored := persistence.StoredVersion(store)
	return printJson(m.w, struct {
		Stored  int64 `json:"stored"`
		Current int64 `json:"current"`
		Wipe    bool  `json:"wipe_on_start"`
	}{
		Stored:  stored,
		Current: persistence.CurrentVersion,
		Wipe:    stored != persistence.CurrentVersion,
	})
}

func runDump(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fault.ErrMissingParameters
	}
	namespace := c.Args().First()

	namespaces, err := describe(m.testnet)
	if nil != err {
		return err
	}
	known := false
	for _, n := range namespaces {
		if n.Name == namespace {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", fault.ErrInvalidNamespace, namespace)
	}

	store, err := m.open()
	if nil != err {
		return err
	}
	defer store.Close()

	prefix := namespace + "/"
	count := c.Int("count")
	entries := []entry{}
	for _, k := range store.Keys(prefix + c.String("prefix")) {
		if count > 0 && len(entries) >= count {
			break
		}
		value := store.Get(k)
		if !json.Valid(value) {
			fmt.Fprintf(m.e, "skip undecodable record: %q\n", k)
			continue
		}
		entries = append(entries, entry{
			Key:   strings.TrimPrefix(k, prefix),
			Value: value,
		})
	}
	return printJson(m.w, entries)
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
