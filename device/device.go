// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"github.com/rob-gra/go-caniot/caniot"
	"github.com/rob-gra/go-caniot/clog"
)

// Driver is the transport and platform interface the core consumes.
// Implementations decide whether calls block; the caller of Process
// chooses how to schedule around that.
type Driver interface {
	// Recv poll one pending frame. Returns caniot.ErrAgain when no
	// frame is pending.
	Recv(f *caniot.Frame) error
	// Send deliver f after at least delayMS milliseconds.
	Send(f *caniot.Frame, delayMS uint32) error
	// GetTime sample the wall clock, seconds and milliseconds.
	GetTime() (sec uint32, msec uint16)
	// SetTime reset the wall clock.
	SetTime(sec uint32)
	// Entropy fill b with randomness. Quality is unimportant, it only
	// spreads broadcast response delays.
	Entropy(b []byte) error
}

// Callbacks is the application interface the core invokes. Every slot
// is nullable; a nil Command or Telemetry handler fails the matching
// request with ErrHandlerCmd or ErrHandlerTelem, the custom attribute
// fallback engages only when both directions are registered.
type Callbacks struct {
	// Command execute an application command on ep.
	Command func(dev *Device, ep caniot.Endpoint, payload []byte) error
	// Telemetry fill buf with the telemetry of ep and return its length.
	Telemetry func(dev *Device, ep caniot.Endpoint, buf []byte) (int, error)

	// ConfigOnRead pull the configuration section from the application
	// store before the core reads it while marked dirty.
	ConfigOnRead func(dev *Device) error
	// ConfigOnWrite surface a configuration write, the integration
	// point for non-volatile storage.
	ConfigOnWrite func(dev *Device) error

	// CustomAttrRead and CustomAttrWrite handle keys outside the
	// static catalogue.
	CustomAttrRead  func(dev *Device, key caniot.AttrKey) (uint32, error)
	CustomAttrWrite func(dev *Device, key caniot.AttrKey, value uint32) error

	// BlcSysCmd execute a board-level system command.
	BlcSysCmd func(dev *Device, cmd caniot.BlcSysCmd) error
}

// Device is one CANIOT device. It is the sole mutable state of the
// core, a process can host several side by side. All methods must be
// called from a single goroutine.
type Device struct {
	clog.Clog

	ident      Identification
	identImage [identImageSize]byte
	system     SystemState
	config     *Config
	api        Callbacks
	drv        Driver

	// per-endpoint telemetry request bitset
	requestTelemetryEP uint8
	configDirty        bool

	startupAttrs  []caniot.AttrKey
	startupCursor int
	startupSent   bool
}

// New build a device around its read-only identification, the
// application-owned configuration and the platform driver. The
// configuration is validated in place and treated as possibly stale
// until the first refresh.
func New(ident Identification, cfg *Config, drv Driver, api Callbacks) (*Device, error) {
	if !ident.DID.Valid() {
		return nil, caniot.ErrInval
	}
	if drv == nil {
		return nil, caniot.ErrInval
	}
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	sf := &Device{
		Clog:        clog.NewLogger(ident.DID.String() + " "),
		ident:       ident,
		config:      cfg,
		drv:         drv,
		api:         api,
		configDirty: true,
		startupSent: true,
	}
	sf.ident.marshal(&sf.identImage)

	sec, msec := drv.GetTime()
	sf.system.StartTime = sec
	sf.system.Time = sec
	sf.system.lastTelemetryMS = sec*1000 + uint32(msec)
	return sf, nil
}

// SetStartupAttributes set the ordered key list the device publishes
// after construction, one per idle Process call.
func (sf *Device) SetStartupAttributes(keys ...caniot.AttrKey) {
	sf.startupAttrs = keys
	sf.startupCursor = 0
	sf.startupSent = len(keys) == 0
}

// DID returns the device identifier.
func (sf *Device) DID() caniot.DevID { return sf.ident.DID }

// System returns a snapshot of the system section.
func (sf *Device) System() SystemState { return sf.system }

// Config returns the application-owned configuration section.
func (sf *Device) Config() *Config { return sf.config }

// MarkConfigDirty tell the core the application store changed; the
// next configuration access pulls it through ConfigOnRead.
func (sf *Device) MarkConfigDirty() { sf.configDirty = true }

// ReadAttribute resolve and read an attribute locally, the same path a
// read-attribute query takes.
func (sf *Device) ReadAttribute(key caniot.AttrKey) (uint32, error) {
	return sf.readAttribute(key)
}

// WriteAttribute resolve and write an attribute locally, the same path
// a write-attribute query takes.
func (sf *Device) WriteAttribute(key caniot.AttrKey, value uint32) error {
	return sf.writeAttribute(key, value)
}
