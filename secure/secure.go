// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package secure - session tokens sealed at rest
//
// tokens live in their own store, never in a registry namespace, so a
// schema wipe does not touch them and the generic codec never sees
// them. layout:
//
//	0x00 "SALT"       argon2id salt
//	"token/" <id>     nonce(24) ++ secretbox(token)
package secure

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/bitmark-inc/logger"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/storage"
)

// key derivation parameters
const (
	saltKey     = "\x00SALT"
	saltLength  = 16
	keyLength   = 32
	nonceLength = 24
	tokenPrefix = "token/"

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// Configuration - secure section of the configuration file
type Configuration struct {
	Directory  string `gluamapper:"directory" json:"directory"`
	Passphrase string `gluamapper:"passphrase" json:"passphrase"`
}

// Tokens - sealed session tokens keyed by account identity
type Tokens struct {
	sync.Mutex
	log   *logger.L
	store storage.Handle
	key   [keyLength]byte
}

// New - open the token store, creating its salt on first use
func New(log *logger.L, store storage.Handle, passphrase string) (*Tokens, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == store || "" == passphrase {
		return nil, fault.ErrMissingParameters
	}

	salt := store.Get(saltKey)
	if saltLength != len(salt) {
		salt = make([]byte, saltLength)
		if _, err := io.ReadFull(rand.Reader, salt); nil != err {
			return nil, err
		}
		store.Put(saltKey, salt)
		log.Info("created new token salt")
	}

	t := &Tokens{
		log:   log,
		store: store,
	}
	copy(t.key[:], argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLength))
	return t, nil
}

// Put - seal and store a token
func (t *Tokens) Put(identity string, token string) error {
	if "" == token {
		return fault.ErrEmptyToken
	}

	var nonce [nonceLength]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); nil != err {
		return err
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, &t.key)

	t.Lock()
	t.store.Put(tokenPrefix+identity, sealed)
	t.Unlock()

	t.log.Debugf("stored token for: %q", identity)
	return nil
}

// Get - the token of an identity
//
// fault.ErrNoToken if there is none, fault.ErrDecryptionFailed if it
// was sealed under a different passphrase or damaged
func (t *Tokens) Get(identity string) (string, error) {
	t.Lock()
	sealed := t.store.Get(tokenPrefix + identity)
	t.Unlock()

	if nil == sealed {
		return "", fault.ErrNoToken
	}
	if len(sealed) < nonceLength+secretbox.Overhead {
		t.log.Warnf("truncated token for: %q", identity)
		return "", fault.ErrDecryptionFailed
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed[:nonceLength])
	token, ok := secretbox.Open(nil, sealed[nonceLength:], &nonce, &t.key)
	if !ok {
		t.log.Warnf("cannot open token for: %q", identity)
		return "", fault.ErrDecryptionFailed
	}
	return string(token), nil
}

// Has - true if a token is stored, whether or not it can be opened
func (t *Tokens) Has(identity string) bool {
	t.Lock()
	defer t.Unlock()
	return nil != t.store.Get(tokenPrefix+identity)
}

// Delete - forget a token
func (t *Tokens) Delete(identity string) {
	t.Lock()
	t.store.Delete(tokenPrefix + identity)
	t.Unlock()
	t.log.Debugf("removed token for: %q", identity)
}
