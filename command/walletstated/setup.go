// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/configuration"
	"github.com/bitmark-inc/walletstate/holders"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/remote"
	"github.com/bitmark-inc/walletstate/secure"
	"github.com/bitmark-inc/walletstate/settings"
	"github.com/bitmark-inc/walletstate/signer"
	"github.com/bitmark-inc/walletstate/storage"
	"github.com/bitmark-inc/walletstate/syncer"
	"github.com/bitmark-inc/walletstate/wallet"
)

type services struct {
	tracker  *syncer.Tracker
	settings *settings.Product
	wallets  []*wallet.Product
	holders  []*holders.Product
}

// build every product and register its jobs with the tracker
func setup(log *logger.L, c *configuration.Configuration, registry *persistence.Registry, secureStore storage.Handle) (*services, error) {

	client, err := remote.New(logger.New("remote"), c.Remote)
	if nil != err {
		return nil, err
	}

	engines, err := syncer.NewEngines(logger.New("syncer"), registry, client, c.Sync)
	if nil != err {
		return nil, err
	}

	s := &services{
		tracker: syncer.NewTracker(logger.New("tracker"), c.Sync.Period()),
	}

	s.settings, err = settings.New(logger.New("settings"), registry, engines)
	if nil != err {
		return nil, err
	}
	s.tracker.Add("config", s.settings.Sync)

	addresses := c.Addresses()
	log.Infof("wallets: %d", len(addresses))

	for _, a := range addresses {
		w, err := wallet.New(logger.New("wallet"), a, registry, engines)
		if nil != err {
			return nil, err
		}
		s.wallets = append(s.wallets, w)

		name := a.Canonical(c.Testnet)
		s.tracker.Add("wallet:"+name, w.Sync)
		s.tracker.Add("jettons:"+name, w.SyncJettons)
		s.tracker.Add("staking:"+name, w.SyncStaking)
	}

	if !c.Holders.Enabled {
		return s, nil
	}

	tokens, err := secure.New(logger.New("secure"), secureStore, c.Secure.Passphrase)
	if nil != err {
		return nil, err
	}
	api, err := holders.NewAPI(logger.New("holders-api"), c.Holders.URL)
	if nil != err {
		return nil, err
	}
	key, err := signer.Load(c.Holders.KeyFile)
	if nil != err {
		return nil, err
	}

	var watch holders.WatchFunc
	if "" != c.Holders.WatchURL {
		watch = holders.WebSocket(logger.New("holders-watch"), c.Holders.WatchURL)
	}

	for i, a := range addresses {
		h, err := holders.New(logger.New("holders"), a, holders.Options{
			Registry:         registry,
			API:              api,
			Tokens:           tokens,
			Signer:           key,
			Watch:            watch,
			Policy:           c.Sync.Policy(),
			Domain:           c.Holders.Domain,
			OfflineDirectory: c.Holders.OfflineDirectory,
		})
		if nil != err {
			return nil, err
		}
		s.holders = append(s.holders, h)

		name := a.Canonical(c.Testnet)
		s.tracker.Add("holders:"+name, h.DoSync)

		// one bundle serves every address
		if 0 == i {
			s.tracker.Add("offline", h.SyncOfflineApp)
		}
	}

	// enrol in the background; a refusal is retried next start
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		for _, h := range s.holders {
			if err := h.Enroll(ctx); nil != err {
				log.Warnf("holders enrol error: %s", err)
			}
		}
	}()

	return s, nil
}

// end holders sessions and watchers
func (s *services) stop() {
	for _, h := range s.holders {
		h.Stop()
	}
}
