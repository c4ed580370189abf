// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holders

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/remote"
	"github.com/bitmark-inc/walletstate/signer"
	"github.com/bitmark-inc/walletstate/util"
)

// largest single offline file accepted
const maximumFileSize = 32 << 20

//go:generate mockgen -destination=mocks/api.go -package=mocks github.com/bitmark-inc/walletstate/holders API,Signer

// API - the card service
//
// AccountState returns fault.ErrUnauthorised when the token is refused
type API interface {
	Enroll(ctx context.Context, domain string, a address.Address, proof *signer.Proof) (string, error)
	AccountState(ctx context.Context, token string) (*AccountState, error)
	OfflineManifest(ctx context.Context) (*OfflineManifest, error)
	Download(ctx context.Context, version string, name string) ([]byte, error)
}

// Signer - proves control of the wallet address
type Signer interface {
	Sign(ctx context.Context, domain string, a address.Address) (*signer.Proof, error)
}

// AccountState - enrolment status and, once enrolled, the accounts
type AccountState struct {
	State    string                  `json:"state"`
	Accounts []record.HoldersAccount `json:"accounts"`
}

// Validate - state must be known
func (s *AccountState) Validate() error {
	status := record.HoldersStatus{State: s.State}
	if err := status.Validate(); nil != err {
		return err
	}
	return (&record.HoldersState{Accounts: s.Accounts}).Validate()
}

// OfflineManifest - files making up one version of the offline app
type OfflineManifest struct {
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// Validate - a version with at least one file
func (m *OfflineManifest) Validate() error {
	if "" == m.Version || 0 == len(m.Files) {
		return fault.ErrInvalidPayload
	}
	return nil
}

type httpAPI struct {
	log    *logger.L
	base   string
	client *http.Client
}

// NewAPI - client of the HTTP card service
func NewAPI(log *logger.L, baseURL string) (API, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	base := strings.TrimRight(baseURL, "/")
	if "" == base {
		return nil, fault.ErrMissingParameters
	}
	if _, err := url.Parse(base); nil != err {
		return nil, err
	}
	return &httpAPI{
		log:  log,
		base: base,
		client: &http.Client{
			Timeout: remote.DefaultTimeout,
		},
	}, nil
}

type enrollRequest struct {
	Domain  string        `json:"domain"`
	Address string        `json:"address"`
	Proof   *signer.Proof `json:"proof"`
}

type enrollReply struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

func (h *httpAPI) Enroll(ctx context.Context, domain string, a address.Address, proof *signer.Proof) (string, error) {
	var reply enrollReply
	found, err := util.FetchJSON(ctx, h.client, util.Request{
		Method: http.MethodPost,
		URL:    h.base + "/v2/user/wallet/connect",
		Body: enrollRequest{
			Domain:  domain,
			Address: a.Raw(),
			Proof:   proof,
		},
	}, &reply)
	if nil != err {
		return "", err
	}
	if !found || !reply.OK || "" == reply.Token {
		h.log.Warnf("enroll: %s  refused", a.Raw())
		return "", fault.ErrUnauthorised
	}
	return reply.Token, nil
}

func (h *httpAPI) AccountState(ctx context.Context, token string) (*AccountState, error) {
	var state AccountState
	found, err := util.FetchJSON(ctx, h.client, util.Request{
		URL:   h.base + "/v2/account/state",
		Token: token,
	}, &state)
	if nil != err || !found {
		return nil, err
	}
	if err := state.Validate(); nil != err {
		h.log.Warnf("account state: rejected: %+v", state)
		return nil, fault.ErrInvalidPayload
	}
	return &state, nil
}

func (h *httpAPI) OfflineManifest(ctx context.Context) (*OfflineManifest, error) {
	var manifest OfflineManifest
	found, err := util.FetchJSON(ctx, h.client, util.Request{
		URL: h.base + "/v2/offline/manifest",
	}, &manifest)
	if nil != err || !found {
		return nil, err
	}
	if err := manifest.Validate(); nil != err {
		return nil, err
	}
	return &manifest, nil
}

func (h *httpAPI) Download(ctx context.Context, version string, name string) ([]byte, error) {
	u := h.base + "/v2/offline/" + url.PathEscape(version) + "/" + strings.TrimLeft(name, "/")

	ctx, cancel := context.WithTimeout(ctx, 6*remote.DefaultTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if nil != err {
		return nil, err
	}

	// files may be larger than control plane replies
	client := &http.Client{Timeout: 6 * remote.DefaultTimeout}
	start := time.Now()
	response, err := client.Do(request)
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
	}
	defer response.Body.Close()

	if http.StatusOK != response.StatusCode {
		return nil, fmt.Errorf("%w: status: %d on: %q", fault.ErrRemoteUnavailable, response.StatusCode, u)
	}
	data, err := io.ReadAll(io.LimitReader(response.Body, maximumFileSize+1))
	if nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
	}
	if len(data) > maximumFileSize {
		h.log.Warnf("download: %q  larger than: %d bytes", u, maximumFileSize)
		return nil, fault.ErrInvalidPayload
	}
	h.log.Debugf("download: %q  took: %s", u, time.Since(start))
	return data, nil
}
