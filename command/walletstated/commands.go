// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/walletstate/configuration"
	"github.com/bitmark-inc/walletstate/signer"
	"github.com/bitmark-inc/walletstate/util"
)

const (
	holdersKeyFilename = "holders.key"
)

// setup command handler
//
// commands that run to create key files these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-holders-key", "key":
		keyFilename := holdersKeyFilename
		if len(arguments) > 0 && "" != arguments[0] {
			keyFilename = arguments[0]
		}

		if util.EnsureFileExists(keyFilename) {
			fmt.Printf("generate key: %q error: file already exists\n", keyFilename)
			exitwithstatus.Exit(1)
		}

		key, err := signer.Create(keyFilename)
		if nil != err {
			fmt.Printf("generate key: %q error: %s\n", keyFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated key: %q  public: %s\n", keyFilename, key.PublicKey())

	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n"+
			"supported commands:\n"+
			"  help                    (h)     - display this message\n"+
			"  version                 (v)     - display version string\n"+
			"  gen-holders-key [FILE]  (key)   - create the holders signing key\n"+
			"  config                          - display the parsed configuration\n", program)

	default:
		return false
	}

	// indicate processing complete and program should exit
	return true
}

// configuration command handler
//
// commands that only need the configuration file
func processConfigCommand(arguments []string, c *configuration.Configuration) bool {

	switch arguments[0] {
	case "config":
		shown := *c
		if "" != shown.Secure.Passphrase {
			shown.Secure.Passphrase = "********"
		}
		text, err := json.MarshalIndent(shown, "", "  ")
		if nil != err {
			exitwithstatus.Message("config error: %s", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n", text)

	default:
		exitwithstatus.Message("error: no such command: %q", arguments[0])
	}

	// indicate processing complete and program should exit
	return true
}
