// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/holiman/uint256"

	"github.com/bitmark-inc/walletstate/fault"
)

// Amount - a non-negative integer number of the smallest currency unit
//
// JSON form is a decimal string; plain JSON numbers are accepted on
// input only when they are integers
type Amount struct {
	value uint256.Int
}

// NewAmount - amount from a small integer
func NewAmount(n uint64) Amount {
	a := Amount{}
	a.value.SetUint64(n)
	return a
}

// ParseAmount - amount from a decimal string
func ParseAmount(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if nil != err {
		return Amount{}, fault.ErrInvalidAmount
	}
	return Amount{value: *v}, nil
}

// String - decimal form
func (a Amount) String() string {
	return a.value.Dec()
}

// IsZero - true for zero
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Cmp - -1, 0 or +1 as a is less, equal or greater than b
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(&b.value)
}

// Add - sum, error on overflow
func (a Amount) Add(b Amount) (Amount, error) {
	r := Amount{}
	if _, overflow := r.value.AddOverflow(&a.value, &b.value); overflow {
		return Amount{}, fault.ErrInvalidAmount
	}
	return r, nil
}

// Sub - difference, error if b is larger than a
func (a Amount) Sub(b Amount) (Amount, error) {
	r := Amount{}
	if _, underflow := r.value.SubOverflow(&a.value, &b.value); underflow {
		return Amount{}, fault.ErrInvalidAmount
	}
	return r, nil
}

// MarshalJSON - quoted decimal
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON - quoted decimal or integer number
func (a *Amount) UnmarshalJSON(s []byte) error {
	s = bytes.TrimSpace(s)
	if 0 == len(s) || bytes.Equal(s, []byte("null")) {
		return fault.ErrInvalidAmount
	}

	text := ""
	if '"' == s[0] {
		err := json.Unmarshal(s, &text)
		if nil != err {
			return fault.ErrInvalidAmount
		}
	} else {
		text = string(s)
	}

	v, err := ParseAmount(text)
	if nil != err {
		return err
	}
	*a = v
	return nil
}
