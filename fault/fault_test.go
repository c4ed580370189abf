// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"fmt"
	"testing"

	"github.com/bitmark-inc/walletstate/fault"
)

var (
	ErrAuthOne      = fault.AuthorisationError("auth one")
	ErrExistsOne    = fault.ExistsError("exists one")
	ErrInvalidOne   = fault.InvalidError("invalid one")
	ErrNotFoundOne  = fault.NotFoundError("not found one")
	ErrProcessOne   = fault.ProcessError("process one")
	ErrTransientOne = fault.TransientError("transient one")
)

// test that the error classes can be told apart
func TestClasses(t *testing.T) {
	errorList := []struct {
		err       error
		auth      bool
		exists    bool
		invalid   bool
		notFound  bool
		process   bool
		transient bool
	}{
		{ErrAuthOne, true, false, false, false, false, false},
		{fault.ErrUnauthorised, true, false, false, false, false, false},
		{ErrExistsOne, false, true, false, false, false, false},
		{ErrInvalidOne, false, false, true, false, false, false},
		{fault.ErrInvalidPayload, false, false, true, false, false, false},
		{ErrNotFoundOne, false, false, false, true, false, false},
		{ErrProcessOne, false, false, false, false, true, false},
		{ErrTransientOne, false, false, false, false, false, true},
		{fmt.Errorf("wrapped: %w", fault.ErrUnauthorised), true, false, false, false, false, false},
		{fmt.Errorf("wrapped: %w", fault.ErrRemoteUnavailable), false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrAuthorisation(err) != e.auth {
			t.Errorf("%d: expected 'authorisation' == %v for err = %v", i, e.auth, err)
		}
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrTransient(err) != e.transient {
			t.Errorf("%d: expected 'transient' == %v for err = %v", i, e.transient, err)
		}
	}
}
