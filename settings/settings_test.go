// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rob-gra/go-caniot/device"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.cbor"))

	cfg := device.DefaultConfig()
	cfg.TelemetryPeriod = 5000
	cfg.Timezone = 3600
	cfg.Location = [4]byte{'b', 'e', 'b', 'x'}
	cfg.Cls1PulseDurations[3] = 1500
	require.NoError(t, store.Save(&cfg))

	var got device.Config
	require.NoError(t, store.Load(&got))
	assert.Equal(t, cfg, got)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.cbor"))

	cfg := device.DefaultConfig()
	want := cfg
	require.NoError(t, store.Load(&cfg))
	assert.Equal(t, want, cfg)
}

func TestSaveReplacesExisting(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "config.cbor"))

	cfg := device.DefaultConfig()
	require.NoError(t, store.Save(&cfg))
	cfg.TelemetryPeriod = 9000
	require.NoError(t, store.Save(&cfg))

	var got device.Config
	require.NoError(t, store.Load(&got))
	assert.Equal(t, uint32(9000), got.TelemetryPeriod)
}
