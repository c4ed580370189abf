// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
)

// holders enrolment states
const (
	HoldersNeedEnrolment = "need-enrolment"
	HoldersNeedPhone     = "need-phone"
	HoldersNeedKYC       = "need-kyc"
	HoldersOK            = "ok"
)

// HoldersStatus - where the account is in the enrolment flow
type HoldersStatus struct {
	State string `json:"state"`
}

// Validate - only the known states
func (s *HoldersStatus) Validate() error {
	switch s.State {
	case HoldersNeedEnrolment, HoldersNeedPhone, HoldersNeedKYC, HoldersOK:
		return nil
	default:
		return fault.ErrInvalidPayload
	}
}

// HoldersCard - a card attached to a holders account
type HoldersCard struct {
	ID       string `json:"id"`
	LastFour string `json:"lastFourDigits,omitempty"`
	Status   string `json:"status"`
}

// HoldersEvent - one item of recent account activity
type HoldersEvent struct {
	ID     string `json:"id"`
	Time   int64  `json:"time"`
	Kind   string `json:"type"`
	Amount Amount `json:"amount"`
}

// HoldersAccount - a remote card account
type HoldersAccount struct {
	ID       string           `json:"id"`
	Address  *address.Address `json:"address,omitempty"`
	Balance  Amount           `json:"balance"`
	Currency string           `json:"currency"`
	Cards    []HoldersCard    `json:"cards"`
	Activity []HoldersEvent   `json:"activity,omitempty"`
}

// HoldersState - accounts and cards of an enrolled user
type HoldersState struct {
	Accounts []HoldersAccount `json:"accounts"`
}

// Validate - every account and card has an id
func (s *HoldersState) Validate() error {
	for _, a := range s.Accounts {
		if "" == a.ID {
			return fault.ErrInvalidPayload
		}
		for _, c := range a.Cards {
			if "" == c.ID {
				return fault.ErrInvalidPayload
			}
		}
	}
	return nil
}

// OfflineVersion - one downloaded bundle of the offline app
type OfflineVersion struct {
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// OfflineApp - the verified offline bundles
//
// Stable is the newest bundle whose files were all present after
// download; Previous is kept until the next one is verified
type OfflineApp struct {
	Stable   *OfflineVersion `json:"stable,omitempty"`
	Previous *OfflineVersion `json:"previous,omitempty"`
}
