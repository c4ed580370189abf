// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package remote - the blockchain resource services
//
// every fetch has three outcomes:
//
//	value, nil                     decoded and validated record
//	nil, nil                       resource does not exist
//	nil, fault.ErrUnauthorised     credentials were refused
//
// any other error is a failure that may be retried
package remote

import (
	"context"
	"time"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/record"
)

// DefaultTimeout - limit on one control plane request
const DefaultTimeout = 5 * time.Second

//go:generate mockgen -destination=mocks/client.go -package=mocks github.com/bitmark-inc/walletstate/remote Client

// Client - narrow interface of the resource services
type Client interface {
	AccountLite(ctx context.Context, a address.Address) (*record.AccountLite, error)
	AccountFull(ctx context.Context, a address.Address) (*record.AccountFull, error)
	WalletV4(ctx context.Context, a address.Address) (*record.WalletV4, error)
	Transactions(ctx context.Context, a address.Address, from *record.TxID, count int) ([]record.Transaction, error)
	JettonWallet(ctx context.Context, a address.Address) (*record.JettonWallet, error)
	JettonMaster(ctx context.Context, a address.Address) (*record.JettonMaster, error)
	WalletJettons(ctx context.Context, owner address.Address) (*record.WalletJettons, error)
	StakingPool(ctx context.Context, pool address.Address, member address.Address) (*record.StakingPool, error)
	Config(ctx context.Context) (*record.Config, error)
	AppManifest(ctx context.Context, url string) (*record.AppManifest, error)
}
