// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package signer - proof of account ownership from a local key file
//
// signed message:
//
//	<domain> "\n" <raw address> "\n" <unix time>
package signer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
)

// Proof - what the enrolment service checks
type Proof struct {
	Signature string `json:"signature"`
	Time      int64  `json:"time"`
	Subkey    string `json:"subkey"`
}

// rawKeyPair - text version of the keys as stored in the file
type rawKeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// KeyFile - an ed25519 key pair loaded from disk
type KeyFile struct {
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	now        func() time.Time
}

// Create - write a new key file, failing if one exists
func Create(name string) (*KeyFile, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}

	raw := rawKeyPair{
		PublicKey:  hex.EncodeToString(publicKey),
		PrivateKey: hex.EncodeToString(privateKey),
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if nil != err {
		return nil, err
	}

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); nil != err {
		return nil, err
	}

	return &KeyFile{
		publicKey:  publicKey,
		privateKey: privateKey,
		now:        time.Now,
	}, nil
}

// Load - read a key file and check the keys belong together
func Load(name string) (*KeyFile, error) {
	data, err := os.ReadFile(name)
	if nil != err {
		return nil, err
	}

	var raw rawKeyPair
	err = json.Unmarshal(data, &raw)
	if nil != err {
		return nil, err
	}

	publicKey, err := hex.DecodeString(strings.TrimSpace(raw.PublicKey))
	if nil != err || ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	privateKey, err := hex.DecodeString(strings.TrimSpace(raw.PrivateKey))
	if nil != err || ed25519.PrivateKeySize != len(privateKey) {
		return nil, fault.ErrInvalidKeyLength
	}

	derived := ed25519.PrivateKey(privateKey).Public().(ed25519.PublicKey)
	if !derived.Equal(ed25519.PublicKey(publicKey)) {
		return nil, fault.ErrChecksumMismatch
	}

	return &KeyFile{
		publicKey:  publicKey,
		privateKey: privateKey,
		now:        time.Now,
	}, nil
}

// PublicKey - hex public key, the subkey of every proof
func (k *KeyFile) PublicKey() string {
	return hex.EncodeToString(k.publicKey)
}

// Sign - prove control of an address to a domain
func (k *KeyFile) Sign(ctx context.Context, domain string, a address.Address) (*Proof, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	if "" == domain {
		return nil, fault.ErrMissingParameters
	}

	now := k.now().Unix()
	signature := ed25519.Sign(k.privateKey, Message(domain, a, now))

	return &Proof{
		Signature: hex.EncodeToString(signature),
		Time:      now,
		Subkey:    k.PublicKey(),
	}, nil
}

// Message - the bytes covered by a proof
func Message(domain string, a address.Address, unixTime int64) []byte {
	return []byte(domain + "\n" + a.Raw() + "\n" + strconv.FormatInt(unixTime, 10))
}

// Verify - check a proof against its own subkey
func Verify(domain string, a address.Address, proof *Proof) bool {
	publicKey, err := hex.DecodeString(proof.Subkey)
	if nil != err || ed25519.PublicKeySize != len(publicKey) {
		return false
	}
	signature, err := hex.DecodeString(proof.Signature)
	if nil != err {
		return false
	}
	return ed25519.Verify(publicKey, Message(domain, a, proof.Time), signature)
}
