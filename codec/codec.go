// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - marshal typed records to and from the keyed store
//
// Decoding is total: anything that cannot be turned back into a valid
// record is reported as absent, never as an error or a panic, since
// remote schemas change independently of the installed program.
package codec

import (
	"encoding/json"
	"fmt"
)

// Codec - encode and decode one record type
type Codec[V any] interface {
	Encode(value V) ([]byte, error)
	Decode(data []byte) (V, bool)
}

// Validator - optional check run on every encode and decode
type Validator interface {
	Validate() error
}

type jsonCodec[V any] struct{}

// JSON - a codec storing the record as JSON text
func JSON[V any]() Codec[V] {
	return jsonCodec[V]{}
}

func (jsonCodec[V]) Encode(value V) ([]byte, error) {
	if err := validate(&value); nil != err {
		return nil, err
	}
	return json.Marshal(value)
}

func (jsonCodec[V]) Decode(data []byte) (value V, ok bool) {
	var zero V

	defer func() {
		if r := recover(); nil != r {
			value = zero
			ok = false
		}
	}()

	if 0 == len(data) {
		return zero, false
	}

	if err := json.Unmarshal(data, &value); nil != err {
		return zero, false
	}
	if err := validate(&value); nil != err {
		return zero, false
	}
	return value, true
}

// the pointer method set covers records implementing Validator on
// either the value or the pointer receiver
func validate[V any](value *V) (err error) {
	defer func() {
		if r := recover(); nil != r {
			err = fmt.Errorf("validate panic: %v", r)
		}
	}()

	if v, ok := any(value).(Validator); ok {
		return v.Validate()
	}
	return nil
}
