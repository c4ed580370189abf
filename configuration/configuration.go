// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/walletstate/address"
	"github.com/bitmark-inc/walletstate/holders"
	"github.com/bitmark-inc/walletstate/remote"
	"github.com/bitmark-inc/walletstate/secure"
	"github.com/bitmark-inc/walletstate/storage"
	"github.com/bitmark-inc/walletstate/syncer"
	"github.com/bitmark-inc/walletstate/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "walletstate"
	defaultTestnetName       = "walletstate-testnet"
	defaultSecureDirectory   = "secure"
	defaultOfflineDirectory  = "offline"
	defaultKeyFile           = "holders.key"

	defaultLogDirectory = "log"
	defaultLogFile      = "walletstated.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// WalletsType - addresses kept in sync
type WalletsType struct {
	Addresses []string `gluamapper:"addresses" json:"addresses"`
}

// MetricsType - prometheus listener, blank to disable
type MetricsType struct {
	Listen string `gluamapper:"listen" json:"listen"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Testnet       bool                  `gluamapper:"testnet" json:"testnet"`
	Database      storage.Configuration `gluamapper:"database" json:"database"`
	Secure        secure.Configuration  `gluamapper:"secure" json:"secure"`
	Remote        remote.Configuration  `gluamapper:"remote" json:"remote"`
	Holders       holders.Configuration `gluamapper:"holders" json:"holders"`
	Sync          syncer.Configuration  `gluamapper:"sync" json:"sync"`
	Wallets       WalletsType           `gluamapper:"wallets" json:"wallets"`
	Metrics       MetricsType           `gluamapper:"metrics" json:"metrics"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// Get - read, decode and verify the configuration
func Get(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: storage.Configuration{
			Engine:    storage.EngineLevelDB,
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		Secure: secure.Configuration{
			Directory: defaultSecureDirectory,
		},

		Remote: remote.Configuration{
			Timeout: int(remote.DefaultTimeout.Seconds()),
		},

		Holders: holders.Configuration{
			OfflineDirectory: defaultOfflineDirectory,
			KeyFile:          defaultKeyFile,
		},

		Sync: syncer.Configuration{
			Interval: 60,
			PageSize: syncer.DefaultPageSize,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// if testnet and the database was not specified
	// switch to the testnet default
	if options.Testnet && defaultDatabaseName == options.Database.Name {
		options.Database.Name = defaultTestnetName
	}

	options.Database.Engine = strings.ToLower(options.Database.Engine)
	switch options.Database.Engine {
	case storage.EngineLevelDB, storage.EnginePebble:
	default:
		return nil, fmt.Errorf("Database: engine: %q is not supported", options.Database.Engine)
	}

	if "" == options.Remote.URL {
		return nil, fmt.Errorf("Remote: url must not be blank")
	}
	if options.Holders.Enabled && "" == options.Holders.URL {
		return nil, fmt.Errorf("Holders: url must not be blank when enabled")
	}
	if "" == options.Secure.Passphrase {
		return nil, fmt.Errorf("Secure: passphrase must not be blank")
	}

	// every wallet address must parse for the configured network
	for _, a := range options.Wallets.Addresses {
		if _, err := address.ParseFor(a, options.Testnet); nil != err {
			return nil, fmt.Errorf("Wallets: address: %q  error: %s", a, err)
		}
	}

	if "" != options.Metrics.Listen {
		listen, err := util.CanonicalIPandPort(options.Metrics.Listen)
		if nil != err {
			return nil, fmt.Errorf("Metrics: listen: %q  error: %s", options.Metrics.Listen, err)
		}
		options.Metrics.Listen = listen
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator
	mustNotBePaths := []*string{
		&options.Database.Name,
		&options.Logging.File,
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f)
		}
	}

	options.Holders.KeyFile = util.EnsureAbsolute(options.DataDirectory, options.Holders.KeyFile)

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Secure.Directory,
		&options.Holders.OfflineDirectory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := util.EnsureDirectory(*d); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// Addresses - the configured wallets
func (c *Configuration) Addresses() []address.Address {
	result := make([]address.Address, 0, len(c.Wallets.Addresses))
	for _, s := range c.Wallets.Addresses {
		a, err := address.ParseFor(s, c.Testnet)
		if nil == err {
			result = append(result, a)
		}
	}
	return result
}
