// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
)

const (
	testingDirName = "testing"
	logCategory    = "configuration"
)

// common test setup routines

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// remove all files created by test
func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func TestMain(m *testing.M) {
	setupTestLogger()
	code := m.Run()
	teardownTestLogger()
	os.Exit(code)
}
