// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - the decoded values held in each namespace
//
// every type here is a plain value; references to other namespaces
// are addresses that may or may not resolve
package record

import (
	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
)

// TxID - identifies one transaction of an account
type TxID struct {
	Lt   uint64 `json:"lt,string"`
	Hash string `json:"hash"`
}

// IsZero - true when no transaction is identified
func (id TxID) IsZero() bool {
	return 0 == id.Lt && "" == id.Hash
}

// AccountLite - balance and last transaction only
type AccountLite struct {
	Balance Amount `json:"balance"`
	Last    *TxID  `json:"last,omitempty"`
}

// account states
const (
	StateActive = "active"
	StateUninit = "uninit"
	StateFrozen = "frozen"
)

// AccountFull - complete account state at a block
type AccountFull struct {
	Balance  Amount `json:"balance"`
	State    string `json:"state"`
	Last     *TxID  `json:"last,omitempty"`
	Block    uint64 `json:"block"`
	CodeHash string `json:"codeHash,omitempty"`
	DataHash string `json:"dataHash,omitempty"`
}

// Validate - reject unknown account states
func (a *AccountFull) Validate() error {
	switch a.State {
	case StateActive, StateUninit, StateFrozen:
		return nil
	default:
		return fault.ErrInvalidPayload
	}
}

// WalletV4 - wallet contract state
type WalletV4 struct {
	Seqno   uint32            `json:"seqno"`
	Balance Amount            `json:"balance"`
	Plugins []address.Address `json:"plugins"`
}

// Validate - plugins list must be present, even if empty
func (w *WalletV4) Validate() error {
	if nil == w.Plugins {
		return fault.ErrInvalidPayload
	}
	return nil
}

// transaction directions
const (
	KindIn  = "in"
	KindOut = "out"
)

// Transaction - one confirmed transaction
type Transaction struct {
	ID           TxID             `json:"id"`
	Previous     *TxID            `json:"previous,omitempty"`
	Time         int64            `json:"time"`
	Kind         string           `json:"kind"`
	Amount       Amount           `json:"amount"`
	Fee          Amount           `json:"fee"`
	Counterparty *address.Address `json:"counterparty,omitempty"`
	Seqno        *uint32          `json:"seqno,omitempty"`
	Comment      string           `json:"comment,omitempty"`
}

// Validate - a transaction needs an identity and a direction
func (t *Transaction) Validate() error {
	if t.ID.IsZero() {
		return fault.ErrInvalidPayload
	}
	if KindIn != t.Kind && KindOut != t.Kind {
		return fault.ErrInvalidPayload
	}
	return nil
}

// History - ordered transaction ids of an account, newest first
type History struct {
	IDs       []TxID `json:"ids"`
	Exhausted bool   `json:"exhausted"`
}

// Validate - no id may appear twice
func (h *History) Validate() error {
	seen := make(map[TxID]struct{}, len(h.IDs))
	for _, id := range h.IDs {
		if _, ok := seen[id]; ok {
			return fault.ErrInvalidPayload
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Contains - true if the id is already present
func (h *History) Contains(id TxID) bool {
	for _, i := range h.IDs {
		if i == id {
			return true
		}
	}
	return false
}

// Oldest - the cursor for walking further back
func (h *History) Oldest() *TxID {
	if 0 == len(h.IDs) {
		return nil
	}
	id := h.IDs[len(h.IDs)-1]
	return &id
}

// PendingTransaction - an outgoing transfer not yet seen on chain
type PendingTransaction struct {
	ID          string          `json:"id"`
	Seqno       uint32          `json:"seqno"`
	Time        int64           `json:"time"`
	Destination address.Address `json:"destination"`
	Amount      Amount          `json:"amount"`
	Comment     string          `json:"comment,omitempty"`
}

// Pending - all pending transfers of an account in registration order
type Pending struct {
	Items []PendingTransaction `json:"items"`
}

// Validate - every pending transfer carries an id
func (p *Pending) Validate() error {
	for _, item := range p.Items {
		if "" == item.ID {
			return fault.ErrInvalidPayload
		}
	}
	return nil
}

// JettonWallet - a token balance held for an owner
type JettonWallet struct {
	Owner   address.Address `json:"owner"`
	Master  address.Address `json:"master"`
	Balance Amount          `json:"balance"`
}

// Validate - owner and master are both required
func (j *JettonWallet) Validate() error {
	if j.Owner.IsZero() || j.Master.IsZero() {
		return fault.ErrInvalidPayload
	}
	return nil
}

// JettonMaster - token description
type JettonMaster struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	TotalSupply Amount `json:"totalSupply"`
	Mintable    bool   `json:"mintable"`
}

// Validate - decimals in a displayable range
func (j *JettonMaster) Validate() error {
	if j.Decimals < 0 || j.Decimals > 255 {
		return fault.ErrInvalidPayload
	}
	return nil
}

// WalletJettons - jetton wallet addresses known for an owner
type WalletJettons struct {
	Wallets []address.Address `json:"wallets"`
}

// StakingPool - one member's position in a pool
type StakingPool struct {
	Balance         Amount `json:"balance"`
	PendingDeposit  Amount `json:"pendingDeposit"`
	PendingWithdraw Amount `json:"pendingWithdraw"`
	Withdraw        Amount `json:"withdraw"`
	MinStake        Amount `json:"minStake"`
	DepositFee      Amount `json:"depositFee"`
	WithdrawFee     Amount `json:"withdrawFee"`
	Locked          bool   `json:"locked"`
}

// Config - remote service configuration
type Config struct {
	Version        int               `json:"version"`
	StakingPools   []address.Address `json:"stakingPools"`
	HoldersEnabled bool              `json:"holdersEnabled"`
	WalletOK       bool              `json:"walletOK"`
}

// AppManifest - connect manifest of a dApp
type AppManifest struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
	Terms   string `json:"termsOfUseUrl,omitempty"`
	Privacy string `json:"privacyPolicyUrl,omitempty"`
}

// Validate - manifest needs a url and a name
func (m *AppManifest) Validate() error {
	if "" == m.URL || "" == m.Name {
		return fault.ErrInvalidPayload
	}
	return nil
}

// AppData - display data of a dApp
type AppData struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Color       string `json:"color,omitempty"`
}

// ProcessingState - what was last applied for a remote resource
type ProcessingState struct {
	Version int    `json:"version"`
	Seqno   uint64 `json:"seqno"`
	Lt      uint64 `json:"lt,string"`
}

// Settings - local user preferences
type Settings struct {
	HideBalance     bool   `json:"hideBalance"`
	PrimaryCurrency string `json:"primaryCurrency"`
	Notifications   bool   `json:"notifications"`
}

// Validate - a currency is always selected
func (s *Settings) Validate() error {
	if "" == s.PrimaryCurrency {
		return fault.ErrInvalidPayload
	}
	return nil
}
