// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package settings persists the device configuration section to a file
// as a CBOR snapshot. It supplies the configuration callbacks the core
// expects for the persistent section.
package settings

import (
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/rob-gra/go-caniot/device"
)

// Store is a file-backed configuration store.
type Store struct {
	path string
}

// NewStore build a store at path. The file appears on first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load read the snapshot into cfg. A missing file leaves cfg untouched
// and returns nil so first boot keeps the built-in defaults.
func (sf *Store) Load(cfg *device.Config) error {
	raw, err := os.ReadFile(sf.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "settings: read")
	}
	if err := cbor.Unmarshal(raw, cfg); err != nil {
		return errors.Wrap(err, "settings: decode")
	}
	return cfg.Valid()
}

// Save write cfg to the file, replacing it atomically.
func (sf *Store) Save(cfg *device.Config) error {
	raw, err := cbor.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "settings: encode")
	}
	tmp, err := os.CreateTemp(filepath.Dir(sf.path), ".settings-*")
	if err != nil {
		return errors.Wrap(err, "settings: temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "settings: write")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "settings: close")
	}
	if err := os.Rename(tmp.Name(), sf.path); err != nil {
		return errors.Wrap(err, "settings: replace")
	}
	return nil
}

// OnRead returns the callback refreshing the configuration from the
// store, the ConfigOnRead slot of the device callback table.
func (sf *Store) OnRead() func(*device.Device) error {
	return func(dev *device.Device) error {
		return sf.Load(dev.Config())
	}
}

// OnWrite returns the callback flushing the configuration to the
// store, the ConfigOnWrite slot of the device callback table.
func (sf *Store) OnWrite() func(*device.Device) error {
	return func(dev *device.Device) error {
		return sf.Save(dev.Config())
	}
}
