// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches.  The error
// class decides how a sync engine reacts: authorisation and invalid
// errors are never retried, transient errors are retried until the
// caller gives up.
package fault
