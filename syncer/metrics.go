// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// fetch results
const (
	resultApplied      = "applied"
	resultCleared      = "cleared"
	resultFailed       = "failed"
	resultRejected     = "rejected"
	resultSkipped      = "skipped"
	resultUnauthorised = "unauthorised"
)

var (
	fetchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletstate",
			Subsystem: "sync",
			Name:      "fetches_total",
			Help:      "completed fetch cycles by engine and result",
		},
		[]string{"engine", "result"},
	)

	retryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletstate",
			Subsystem: "sync",
			Name:      "retries_total",
			Help:      "failed attempts that were retried",
		},
		[]string{"engine"},
	)

	inFlightGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "walletstate",
			Subsystem: "sync",
			Name:      "in_flight",
			Help:      "fetch cycles currently running",
		},
		[]string{"engine"},
	)
)

func init() {
	prometheus.MustRegister(fetchCounter, retryCounter, inFlightGauge)
}
