// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package collection

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/fault"
)

// Separator - joins the components of a composite key
const Separator = "::"

// canonical form of the unit key
const voidKey = "void"

// Void - key of a namespace holding a single record
type Void struct{}

// AddressTarget - an address paired with another, e.g. pool member
type AddressTarget struct {
	Address address.Address
	Target  address.Address
}

// AddressLt - an address at a logical time
type AddressLt struct {
	Address address.Address
	Lt      uint64
}

// KeyAddress - free text scoped to an address
type KeyAddress struct {
	Key     string
	Address address.Address
}

// KeyKind - name of the key shape of K, for display
func KeyKind[K any]() string {
	var k K
	switch any(k).(type) {
	case Void:
		return "void"
	case address.Address:
		return "address"
	case AddressTarget:
		return "address+target"
	case AddressLt:
		return "address+lt"
	case KeyAddress:
		return "key+address"
	case string:
		return "string"
	default:
		return "unknown"
	}
}

// KeyFunction - canonical key derivation for the key shape K
//
// addresses use the checked form of one network so the same account
// on the two networks never shares a key; free text is base64url so
// the separator cannot occur inside a component
func KeyFunction[K any](testnet bool) (func(K) string, error) {
	addr := func(a address.Address) string {
		return a.Canonical(testnet)
	}

	var f interface{}
	var k K
	switch any(k).(type) {
	case Void:
		f = func(Void) string {
			return voidKey
		}
	case address.Address:
		f = addr
	case AddressTarget:
		f = func(k AddressTarget) string {
			return join(addr(k.Address), addr(k.Target))
		}
	case AddressLt:
		f = func(k AddressLt) string {
			return join(addr(k.Address), strconv.FormatUint(k.Lt, 10))
		}
	case KeyAddress:
		f = func(k KeyAddress) string {
			return join(text(k.Key), addr(k.Address))
		}
	case string:
		f = text
	default:
		return nil, fault.ErrUnknownKeyType
	}
	return f.(func(K) string), nil
}

func text(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func join(components ...string) string {
	return strings.Join(components, Separator)
}
