// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitmark-inc/walletstate/background"
	"github.com/bitmark-inc/walletstate/configuration"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/persistence"
	"github.com/bitmark-inc/walletstate/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.Get(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	if err = fault.Initialise(); nil != err {
		exitwithstatus.Message("%s: fault setup failed with error: %s", program, err)
	}
	defer fault.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("data directory: %q  testnet: %t", theConfiguration.DataDirectory, theConfiguration.Testnet)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// start the data storage
	log.Info("initialise storage")
	store, err := storage.Open(logger.New("storage"), theConfiguration.Database)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer store.Close()

	if v := persistence.StoredVersion(store); persistence.CurrentVersion != v {
		log.Warnf("stored version: %d  current: %d  local data will be cleared", v, persistence.CurrentVersion)
	}

	registry, err := persistence.New(logger.New("persistence"), store, theConfiguration.Testnet)
	if nil != err {
		log.Criticalf("persistence initialise error: %s", err)
		exitwithstatus.Message("persistence initialise error: %s", err)
	}

	// secure tokens live outside the cache so a schema wipe keeps them
	secureStore, err := storage.Open(logger.New("secure"), storage.Configuration{
		Engine:    theConfiguration.Database.Engine,
		Directory: theConfiguration.Secure.Directory,
		Name:      "tokens",
	})
	if nil != err {
		log.Criticalf("secure storage initialise error: %s", err)
		exitwithstatus.Message("secure storage initialise error: %s", err)
	}
	defer secureStore.Close()

	s, err := setup(log, theConfiguration, registry, secureStore)
	if nil != err {
		log.Criticalf("setup error: %s", err)
		exitwithstatus.Message("setup error: %s", err)
	}
	defer s.stop()

	processes := background.Processes{s.tracker}

	// reload log levels whenever the configuration file changes
	watcher, err := configuration.NewWatcher(logger.New("config-watcher"), configurationFile)
	if nil != err {
		log.Warnf("configuration watcher disabled: %s", err)
	} else {
		processes = append(processes, watcher, &reloader{
			log:      logger.New("config-reader"),
			fileName: configurationFile,
			watcher:  watcher,
		})
	}

	bg := background.Start(processes, nil)
	defer bg.Stop()

	if "" != theConfiguration.Metrics.Listen {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Infof("metrics listener on: %s", theConfiguration.Metrics.Listen)
			err := http.ListenAndServe(theConfiguration.Metrics.Listen, mux)
			log.Errorf("metrics listener error: %s", err)
		}()
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}

// reloader - apply log level changes from the configuration file
type reloader struct {
	log      *logger.L
	fileName string
	watcher  *configuration.Watcher
}

func (r *reloader) Run(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-r.watcher.Changes():
			c, err := configuration.Get(r.fileName)
			if nil != err {
				r.log.Errorf("failed to read configuration from: %q  error: %s", r.fileName, err)
				continue loop
			}
			logger.LoadLevels(c.Logging.Levels)
			r.log.Info("log levels reloaded")
		}
	}
}
