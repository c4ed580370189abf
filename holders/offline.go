// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holders

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bitmark-inc/walletstate/collection"
	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/util"
)

// marks a file still being written
const partialMarker = ".partial-"

// SyncOfflineApp - download the offline bundle if the service has a
// newer version than the verified local one
//
// a bundle becomes stable only once every file is present; the
// previous stable bundle is kept until then
func (p *Product) SyncOfflineApp(ctx context.Context) error {
	if "" == p.offline {
		return fault.ErrMissingParameters
	}
	if err := p.lock.Acquire(ctx, 1); nil != err {
		return err
	}
	defer p.lock.Release(1)

	ctx, session, done := p.join(ctx)
	defer done()

	var manifest *OfflineManifest
	err := p.policy.Retry(ctx, p.log, "holders-offline", func() error {
		var err error
		manifest, err = p.api.OfflineManifest(ctx)
		return err
	})
	if nil != err {
		p.log.Warnf("offline: manifest error: %s", err)
		return err
	}
	if nil == manifest {
		p.log.Debug("offline: no bundle published")
		return nil
	}

	current := p.registry.HoldersOfflineApp.Get(collection.Void{})
	if nil != current && nil != current.Stable && manifest.Version == current.Stable.Version && p.verify(current.Stable) {
		p.log.Debugf("offline: version: %q  up to date", manifest.Version)
		return nil
	}

	directory, err := p.bundleDirectory(manifest.Version)
	if nil != err {
		return err
	}
	if err := util.EnsureDirectory(directory); nil != err {
		p.log.Errorf("offline: directory: %q  error: %s", directory, err)
		return err
	}
	p.removePartial(directory)

	total := uint64(0)
	for _, name := range manifest.Files {
		path, err := within(directory, name)
		if nil != err {
			p.log.Warnf("offline: rejected file name: %q", name)
			return err
		}
		if _, err := os.Stat(path); nil == err {
			continue
		}

		var data []byte
		err = p.policy.Retry(ctx, p.log, "holders-offline", func() error {
			var err error
			data, err = p.api.Download(ctx, manifest.Version, name)
			return err
		})
		if nil != err {
			p.log.Warnf("offline: download: %q  error: %s", name, err)
			return err
		}
		if err := writeFile(path, data); nil != err {
			p.log.Errorf("offline: write: %q  error: %s", path, err)
			return err
		}
		total += uint64(len(data))
	}

	if nil != session.Err() {
		return fault.ErrSessionEnded
	}

	version := &record.OfflineVersion{
		Version: manifest.Version,
		Files:   manifest.Files,
	}
	if !p.verify(version) {
		p.log.Errorf("offline: version: %q  incomplete", manifest.Version)
		return fault.ErrIncompleteOfflineBundle
	}

	p.log.Infof("offline: version: %q  files: %d  downloaded: %s", manifest.Version, len(manifest.Files), humanize.Bytes(total))

	var keep []string
	err = p.registry.HoldersOfflineApp.Item(collection.Void{}).Update(func(app *record.OfflineApp) (*record.OfflineApp, error) {
		if nil == app {
			app = &record.OfflineApp{}
		}
		if nil != app.Stable && app.Stable.Version != version.Version {
			app.Previous = app.Stable
		}
		app.Stable = version
		keep = versions(app)
		return app, nil
	})
	if nil != err {
		return err
	}
	p.prune(keep)
	return nil
}

// IsOfflineAppReady - a verified bundle is present
func (p *Product) IsOfflineAppReady() bool {
	_, ok := p.OfflineAppPath()
	return ok
}

// OfflineAppPath - directory of the newest bundle whose files are all
// present, falling back to the previous one
func (p *Product) OfflineAppPath() (string, bool) {
	if "" == p.offline {
		return "", false
	}
	app := p.registry.HoldersOfflineApp.Get(collection.Void{})
	if nil == app {
		return "", false
	}
	for _, v := range []*record.OfflineVersion{app.Stable, app.Previous} {
		if nil == v || !p.verify(v) {
			continue
		}
		directory, err := p.bundleDirectory(v.Version)
		if nil == err {
			return directory, true
		}
	}
	return "", false
}

// every file of the version exists
func (p *Product) verify(v *record.OfflineVersion) bool {
	directory, err := p.bundleDirectory(v.Version)
	if nil != err || 0 == len(v.Files) {
		return false
	}
	for _, name := range v.Files {
		path, err := within(directory, name)
		if nil != err {
			return false
		}
		info, err := os.Stat(path)
		if nil != err || info.IsDir() {
			return false
		}
	}
	return true
}

// write to a temporary file then rename, so a file at its final
// path is always complete
func writeFile(path string, data []byte) error {
	directory, name := filepath.Split(path)
	if err := os.MkdirAll(directory, 0o700); nil != err {
		return err
	}

	f, err := os.CreateTemp(directory, "."+name+partialMarker+"*")
	if nil != err {
		return err
	}
	temporary := f.Name()

	_, err = f.Write(data)
	if nil == err {
		err = f.Sync()
	}
	if e := f.Close(); nil == err {
		err = e
	}
	if nil == err {
		err = os.Rename(temporary, path)
	}
	if nil != err {
		_ = os.Remove(temporary)
	}
	return err
}

// remove files left by an interrupted write
func (p *Product) removePartial(directory string) {
	err := filepath.WalkDir(directory, func(path string, entry fs.DirEntry, err error) error {
		if nil != err {
			return err
		}
		if !entry.IsDir() && strings.Contains(entry.Name(), partialMarker) {
			p.log.Infof("offline: remove partial file: %q", path)
			return os.Remove(path)
		}
		return nil
	})
	if nil != err {
		p.log.Warnf("offline: partial files: %q  error: %s", directory, err)
	}
}

func (p *Product) bundleDirectory(version string) (string, error) {
	return within(p.offline, version)
}

// remove bundle directories no longer referenced
func (p *Product) prune(keep []string) {
	entries, err := os.ReadDir(p.offline)
	if nil != err {
		p.log.Warnf("offline: prune: %s", err)
		return
	}
loop:
	for _, entry := range entries {
		if !entry.IsDir() {
			continue loop
		}
		for _, k := range keep {
			if k == entry.Name() {
				continue loop
			}
		}
		path := filepath.Join(p.offline, entry.Name())
		if err := os.RemoveAll(path); nil != err {
			p.log.Warnf("offline: remove: %q  error: %s", path, err)
		}
	}
}

func versions(app *record.OfflineApp) []string {
	v := []string{}
	if nil != app.Stable {
		v = append(v, app.Stable.Version)
	}
	if nil != app.Previous {
		v = append(v, app.Previous.Version)
	}
	return v
}

// join a relative name to a directory without leaving it
func within(directory string, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if "" == name || "." == clean || filepath.IsAbs(clean) || ".." == clean || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fault.ErrInvalidPayload
	}
	return filepath.Join(directory, clean), nil
}
