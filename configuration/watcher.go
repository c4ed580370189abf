// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/util"
)

// Watcher - reports writes to the configuration file
//
// the directory is watched so editors that replace the file are seen
type Watcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	change   chan struct{}
}

// NewWatcher - watcher of one file
func NewWatcher(log *logger.L, fileName string) (*Watcher, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}
	if !util.EnsureFileExists(filePath) {
		return nil, fault.ErrNotFound
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	return &Watcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		change:   make(chan struct{}, 1),
	}, nil
}

// Changes - signalled after the file changed; bursts are merged
func (w *Watcher) Changes() <-chan struct{} {
	return w.change
}

// Run - background process delivering change events
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log

	err := w.watcher.Add(filepath.Dir(w.filePath))
	if nil != err {
		log.Errorf("watcher add error: %s", err)
		return
	}
	defer w.watcher.Close()

	log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Warnf("watch error: %s", err)
		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue loop
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue loop
			}
			log.Infof("file event: %v", event)
			select {
			case w.change <- struct{}{}:
			default:
				log.Debug("change already pending")
			}
		}
	}
	log.Info("stopped")
}
