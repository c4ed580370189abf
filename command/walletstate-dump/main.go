// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"
)

type metadata struct {
	engine    string
	directory string
	name      string
	testnet   bool
	w         io.Writer
	e         io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	err := logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "walletstate-dump.log",
		Size:      1048576,
		Count:     2,
		Levels: map[string]string{
			logger.DefaultTag: "error",
		},
	})
	if nil != err {
		fmt.Fprintf(os.Stderr, "logger setup failed with error: %s\n", err)
		os.Exit(1)
	}

	app := newApp(os.Stdout, os.Stderr)
	err = app.Run(os.Args)
	logger.Finalise()
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "walletstate-dump"
	app.Usage = "inspect a wallet state database"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "engine, e",
			Value: "leveldb",
			Usage: " storage `ENGINE` [leveldb|pebble]",
		},
		cli.StringFlag{
			Name:  "directory, d",
			Value: ".",
			Usage: " database `DIRECTORY`",
		},
		cli.StringFlag{
			Name:  "name, n",
			Value: "walletstate",
			Usage: " database `NAME`",
		},
		cli.BoolFlag{
			Name:  "testnet, t",
			Usage: " database holds testnet records",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "namespaces",
			Usage:  "list the namespaces with key and value types",
			Action: runNamespaces,
		},
		{
			Name:   "version",
			Usage:  "compare stored and current schema version",
			Action: runVersion,
		},
		{
			Name:      "dump",
			Usage:     "print the records of a namespace",
			ArgsUsage: "NAMESPACE",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "prefix, p",
					Value: "",
					Usage: " only keys starting with `PREFIX`",
				},
				cli.IntFlag{
					Name:  "count, c",
					Value: 0,
					Usage: " at most `N` records, 0 = all",
				},
			},
			Action: runDump,
		},
	}

	app.Before = func(c *cli.Context) error {
		m := &metadata{
			engine:    c.GlobalString("engine"),
			directory: c.GlobalString("directory"),
			name:      c.GlobalString("name"),
			testnet:   c.GlobalBool("testnet"),
			w:         c.App.Writer,
			e:         c.App.ErrWriter,
		}
		c.App.Metadata = map[string]interface{}{
			"config": m,
		}
		return nil
	}

	return app
}
