// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorisationError GenericError
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type TransientError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrCannotDecodeAddress     = InvalidError("cannot decode address")
	ErrChecksumMismatch        = InvalidError("checksum mismatch")
	ErrDecryptionFailed        = InvalidError("decryption failed")
	ErrEmptyToken              = InvalidError("empty token")
	ErrIncompleteOfflineBundle = ProcessError("incomplete offline bundle")
	ErrInvalidAddressLength    = InvalidError("invalid address length")
	ErrInvalidAddressVariant   = InvalidError("invalid address variant")
	ErrInvalidAmount           = InvalidError("invalid amount")
	ErrInvalidCount            = InvalidError("invalid count")
	ErrInvalidCursor           = InvalidError("invalid cursor")
	ErrInvalidEngine           = InvalidError("invalid storage engine")
	ErrInvalidIPAddress        = InvalidError("invalid IP address")
	ErrInvalidKeyLength        = InvalidError("invalid key length")
	ErrInvalidLoggerChannel    = InvalidError("invalid logger channel")
	ErrInvalidNamespace        = InvalidError("invalid namespace")
	ErrInvalidPayload          = InvalidError("invalid payload")
	ErrInvalidPortNumber       = InvalidError("invalid port number")
	ErrInvalidStructPointer    = InvalidError("invalid struct pointer")
	ErrMissingParameters       = InvalidError("missing parameters")
	ErrNotFound                = NotFoundError("not found")
	ErrNotInitialised          = NotFoundError("not initialised")
	ErrNoToken                 = NotFoundError("no session token")
	ErrRateLimiting            = ProcessError("rate limiting")
	ErrRemoteUnavailable       = TransientError("remote service unavailable")
	ErrSeqnoAlreadyUsed        = InvalidError("sequence number already used")
	ErrSessionEnded            = ProcessError("session ended")
	ErrTooManyRetries          = ProcessError("too many retries")
	ErrUnauthorised            = AuthorisationError("unauthorised")
	ErrUnknownKeyType          = InvalidError("unknown key type")
	ErrWrongNetwork            = InvalidError("address is for the wrong network")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorisationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e TransientError) Error() string     { return string(e) }

// determine the class of an error, including wrapped errors
func IsErrAuthorisation(e error) bool { var t AuthorisationError; return errors.As(e, &t) }
func IsErrExists(e error) bool        { var t ExistsError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool       { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool      { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool       { var t ProcessError; return errors.As(e, &t) }
func IsErrTransient(e error) bool     { var t TransientError; return errors.As(e, &t) }
