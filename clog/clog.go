// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package clog is the internal logger of the protocol core. Every
// device carries a Clog tagged with its bus address; output stays off
// until the application enables it, so the core is silent by default
// and several devices in one process keep distinguishable logs.
package clog

import (
	"log"
	"os"
	"sync/atomic"
)

// LogProvider receives the log lines of one device. The levels follow
// RFC 5424: Critical reports unusable state, Error failed dispatches
// and handler results, Warn dropped or malformed frames, Debug
// per-frame traffic.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clog tags and fans out the messages of one device. The tag is
// prepended to every line whatever the provider, so custom providers
// keep the device address without caring about it. The zero value
// discards everything.
type Clog struct {
	provider LogProvider
	tag      string
	// output gate, 1: enabled, 0: muted
	on uint32
}

// NewLogger build a logger whose lines carry tag, delivered to the
// standard library log on stderr until SetLogProvider replaces it.
func NewLogger(tag string) Clog {
	return Clog{
		provider: stdLogger{log.New(os.Stderr, "", log.LstdFlags)},
		tag:      tag,
	}
}

// LogMode enable or mute output. Devices start muted.
func (sf *Clog) LogMode(enable bool) {
	var on uint32
	if enable {
		on = 1
	}
	atomic.StoreUint32(&sf.on, on)
}

// SetLogProvider route output to p. A nil p keeps the current one.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

// Enabled reports whether output is on.
func (sf Clog) Enabled() bool {
	return atomic.LoadUint32(&sf.on) == 1
}

// Critical log an unusable-state message.
func (sf Clog) Critical(format string, v ...interface{}) {
	if sf.Enabled() && sf.provider != nil {
		sf.provider.Critical(sf.tag+format, v...)
	}
}

// Error log a failed dispatch or handler result.
func (sf Clog) Error(format string, v ...interface{}) {
	if sf.Enabled() && sf.provider != nil {
		sf.provider.Error(sf.tag+format, v...)
	}
}

// Warn log a dropped or malformed frame.
func (sf Clog) Warn(format string, v ...interface{}) {
	if sf.Enabled() && sf.provider != nil {
		sf.provider.Warn(sf.tag+format, v...)
	}
}

// Debug log per-frame traffic.
func (sf Clog) Debug(format string, v ...interface{}) {
	if sf.Enabled() && sf.provider != nil {
		sf.provider.Debug(sf.tag+format, v...)
	}
}

// stdLogger adapts the standard library log to LogProvider, one level
// marker per line.
type stdLogger struct {
	*log.Logger
}

var _ LogProvider = stdLogger{}

func (sf stdLogger) Critical(format string, v ...interface{}) {
	sf.Printf("[C] "+format, v...)
}

func (sf stdLogger) Error(format string, v ...interface{}) {
	sf.Printf("[E] "+format, v...)
}

func (sf stdLogger) Warn(format string, v ...interface{}) {
	sf.Printf("[W] "+format, v...)
}

func (sf stdLogger) Debug(format string, v ...interface{}) {
	sf.Printf("[D] "+format, v...)
}
