// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - wallet account identity and its text forms
//
// checked form:
//
//	base58( varint(variant) ++ workchain(int32 big endian) ++ hash(32) ++ checksum(4) )
//
// where checksum is the first four bytes of SHA3-256 of everything
// before it and the variant carries the network and bounce flags.
//
// raw form:
//
//	<workchain decimal>:<hash hex>
package address

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/walletstate/fault"
)

// miscellaneous constants
const (
	HashLength     = 32
	checksumLength = 4
	workchainBytes = 4

	// bits in variant code starting from LSB
	addressCode    = 0x01
	testCode       = 0x02
	bounceableCode = 0x04
	spareCode      = 0x08

	versionShift   = 4 // shift 4 bits to get the version
	currentVersion = 1
)

// Address - an account on a workchain
type Address struct {
	Workchain int32
	Hash      [HashLength]byte
}

// Flags - properties carried by a checked form but not by the address
type Flags struct {
	Testnet    bool
	Bounceable bool
	Raw        bool // parsed from raw form, network unknown
}

// New - make an address from its parts
func New(workchain int32, hash []byte) (Address, error) {
	if HashLength != len(hash) {
		return Address{}, fault.ErrInvalidAddressLength
	}
	a := Address{Workchain: workchain}
	copy(a.Hash[:], hash)
	return a, nil
}

// Parse - accept either the checked or the raw form
func Parse(s string) (Address, Flags, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		a, err := parseRaw(s)
		return a, Flags{Raw: true}, err
	}
	return parseChecked(s)
}

// ParseFor - parse and reject checked forms of the other network
func ParseFor(s string, testnet bool) (Address, error) {
	a, flags, err := Parse(s)
	if nil != err {
		return Address{}, err
	}
	if !flags.Raw && flags.Testnet != testnet {
		return Address{}, fault.ErrWrongNetwork
	}
	return a, nil
}

func parseRaw(s string) (Address, error) {
	parts := strings.SplitN(s, ":", 2)
	workchain, err := strconv.ParseInt(parts[0], 10, 32)
	if nil != err {
		return Address{}, fault.ErrCannotDecodeAddress
	}
	hash, err := hex.DecodeString(parts[1])
	if nil != err {
		return Address{}, fault.ErrCannotDecodeAddress
	}
	return New(int32(workchain), hash)
}

func parseChecked(s string) (Address, Flags, error) {
	decoded, err := base58.Decode(s)
	if nil != err || 0 == len(decoded) {
		return Address{}, Flags{}, fault.ErrCannotDecodeAddress
	}

	variant, variantLength := binary.Uvarint(decoded)
	if variantLength <= 0 || variant&addressCode != addressCode {
		return Address{}, Flags{}, fault.ErrInvalidAddressVariant
	}
	if variant>>versionShift != currentVersion {
		return Address{}, Flags{}, fault.ErrInvalidAddressVariant
	}

	if len(decoded) != variantLength+workchainBytes+HashLength+checksumLength {
		return Address{}, Flags{}, fault.ErrInvalidAddressLength
	}

	checksumStart := len(decoded) - checksumLength
	checksum := sha3.Sum256(decoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], decoded[checksumStart:]) {
		return Address{}, Flags{}, fault.ErrChecksumMismatch
	}

	workchain := int32(binary.BigEndian.Uint32(decoded[variantLength:]))
	a, err := New(workchain, decoded[variantLength+workchainBytes:checksumStart])
	if nil != err {
		return Address{}, Flags{}, err
	}

	flags := Flags{
		Testnet:    0 != variant&testCode,
		Bounceable: 0 != variant&bounceableCode,
	}
	return a, flags, nil
}

// Friendly - the checked form
func (a Address) Friendly(testnet bool, bounceable bool) string {
	variant := uint64(currentVersion<<versionShift | addressCode)
	if testnet {
		variant |= testCode
	}
	if bounceable {
		variant |= bounceableCode
	}

	buffer := make([]byte, binary.MaxVarintLen64, binary.MaxVarintLen64+workchainBytes+HashLength+checksumLength)
	n := binary.PutUvarint(buffer, variant)
	buffer = buffer[:n]

	wc := make([]byte, workchainBytes)
	binary.BigEndian.PutUint32(wc, uint32(a.Workchain))
	buffer = append(buffer, wc...)
	buffer = append(buffer, a.Hash[:]...)

	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)

	return base58.Encode(buffer)
}

// Canonical - the checked form for a network
//
// the bounce flag is always clear so one address has one string per
// network
func (a Address) Canonical(testnet bool) string {
	return a.Friendly(testnet, false)
}

// String - the raw form, which does not depend on the network
func (a Address) String() string {
	return a.Raw()
}

// Raw - workchain:hex
func (a Address) Raw() string {
	return fmt.Sprintf("%d:%x", a.Workchain, a.Hash)
}

// IsZero - true for the zero value
func (a Address) IsZero() bool {
	return Address{} == a
}

// MarshalText - records always hold the raw form
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Raw()), nil
}

// UnmarshalText - accept either form
func (a *Address) UnmarshalText(s []byte) error {
	parsed, _, err := Parse(string(s))
	if nil != err {
		return err
	}
	*a = parsed
	return nil
}
