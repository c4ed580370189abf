// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/codec"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/util"
)

// Configuration - remote section of the configuration file
type Configuration struct {
	URL     string `gluamapper:"url" json:"url"`
	Timeout int    `gluamapper:"timeout" json:"timeout"` // seconds
}

type httpClient struct {
	log    *logger.L
	base   string
	client *http.Client
}

// New - a client for the HTTP/JSON services
func New(log *logger.L, configuration Configuration) (Client, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	base := strings.TrimRight(configuration.URL, "/")
	if "" == base {
		return nil, fault.ErrMissingParameters
	}
	if _, err := url.Parse(base); nil != err {
		return nil, err
	}

	timeout := DefaultTimeout
	if configuration.Timeout > 0 {
		timeout = time.Duration(configuration.Timeout) * time.Second
	}

	return &httpClient{
		log:  log,
		base: base,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// fetch one record and run it through the codec for its type
func fetch[V any](ctx context.Context, c *httpClient, path string) (*V, error) {
	var raw json.RawMessage
	found, err := util.FetchJSON(ctx, c.client, util.Request{URL: c.base + path}, &raw)
	if nil != err {
		c.log.Debugf("fetch: %s  error: %s", path, err)
		return nil, err
	}
	if !found {
		c.log.Debugf("fetch: %s  not found", path)
		return nil, nil
	}
	value, ok := codec.JSON[V]().Decode(raw)
	if !ok {
		c.log.Warnf("fetch: %s  rejected payload: %q", path, []byte(raw))
		return nil, fault.ErrInvalidPayload
	}
	return &value, nil
}

func (c *httpClient) AccountLite(ctx context.Context, a address.Address) (*record.AccountLite, error) {
	return fetch[record.AccountLite](ctx, c, "/v1/account/"+a.Raw()+"/lite")
}

func (c *httpClient) AccountFull(ctx context.Context, a address.Address) (*record.AccountFull, error) {
	return fetch[record.AccountFull](ctx, c, "/v1/account/"+a.Raw()+"/full")
}

func (c *httpClient) WalletV4(ctx context.Context, a address.Address) (*record.WalletV4, error) {
	return fetch[record.WalletV4](ctx, c, "/v1/wallet/"+a.Raw()+"/v4")
}

type transactionsReply struct {
	Transactions []record.Transaction `json:"transactions"`
}

// Validate - every transaction must be valid for the page to be used
func (r *transactionsReply) Validate() error {
	for i := range r.Transactions {
		if err := r.Transactions[i].Validate(); nil != err {
			return err
		}
	}
	return nil
}

func (c *httpClient) Transactions(ctx context.Context, a address.Address, from *record.TxID, count int) ([]record.Transaction, error) {
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}
	query := url.Values{}
	query.Set("count", strconv.Itoa(count))
	if nil != from {
		query.Set("lt", strconv.FormatUint(from.Lt, 10))
		query.Set("hash", from.Hash)
	}

	reply, err := fetch[transactionsReply](ctx, c, "/v1/account/"+a.Raw()+"/transactions?"+query.Encode())
	if nil != err || nil == reply {
		return nil, err
	}
	return reply.Transactions, nil
}

func (c *httpClient) JettonWallet(ctx context.Context, a address.Address) (*record.JettonWallet, error) {
	return fetch[record.JettonWallet](ctx, c, "/v1/jetton/wallet/"+a.Raw())
}

func (c *httpClient) JettonMaster(ctx context.Context, a address.Address) (*record.JettonMaster, error) {
	return fetch[record.JettonMaster](ctx, c, "/v1/jetton/master/"+a.Raw())
}

func (c *httpClient) WalletJettons(ctx context.Context, owner address.Address) (*record.WalletJettons, error) {
	return fetch[record.WalletJettons](ctx, c, "/v1/jetton/owner/"+owner.Raw())
}

func (c *httpClient) StakingPool(ctx context.Context, pool address.Address, member address.Address) (*record.StakingPool, error) {
	return fetch[record.StakingPool](ctx, c, fmt.Sprintf("/v1/staking/%s/member/%s", pool.Raw(), member.Raw()))
}

func (c *httpClient) Config(ctx context.Context) (*record.Config, error) {
	return fetch[record.Config](ctx, c, "/v1/config")
}

func (c *httpClient) AppManifest(ctx context.Context, manifestURL string) (*record.AppManifest, error) {
	return fetch[record.AppManifest](ctx, c, "/v1/manifest?url="+url.QueryEscape(manifestURL))
}
