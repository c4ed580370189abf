// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/cenkalti/backoff/v4"

	"github.com/bitmark-inc/walletstate/fault"
)

// Policy - retry rules for one fetch
//
//	authorisation and validation errors: no retry
//	network and transient errors:        retry until the context ends
//	anything else:                       at most Retries retries
type Policy struct {
	Initial time.Duration
	Maximum time.Duration
	Retries int
}

// DefaultPolicy - policy used when none is configured
func DefaultPolicy() Policy {
	return Policy{
		Initial: 500 * time.Millisecond,
		Maximum: 30 * time.Second,
		Retries: 5,
	}
}

// Retry - run op until it succeeds or the policy gives up
//
// the error returned is the last error from op, or the context error
func (p Policy) Retry(ctx context.Context, log *logger.L, name string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.MaxInterval = p.Maximum
	b.MaxElapsedTime = 0

	unclassified := 0
	operation := func() error {
		if err := ctx.Err(); nil != err {
			return backoff.Permanent(err)
		}
		err := op()
		switch {
		case nil == err:
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return backoff.Permanent(err)
		case fault.IsErrAuthorisation(err), fault.IsErrInvalid(err):
			return backoff.Permanent(err)
		case isNetwork(err):
			return err
		default:
			unclassified += 1
			if unclassified > p.Retries {
				return backoff.Permanent(err)
			}
			return err
		}
	}

	notify := func(err error, delay time.Duration) {
		retryCounter.WithLabelValues(name).Inc()
		log.Warnf("%s: retry in: %s  error: %s", name, delay, err)
	}

	return backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify)
}

func isNetwork(err error) bool {
	if fault.IsErrTransient(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
