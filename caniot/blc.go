// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"encoding/binary"
)

// Board-level control codecs.

// TwoState is a two-state output command. 2 bits.
type TwoState uint8

// TwoState defined
const (
	TwoStateNone   TwoState = iota // no change
	TwoStateOn                     // set on
	TwoStateOff                    // set off
	TwoStateToggle                 // toggle
)

var twoStateSemantics = []string{
	"None",
	"On",
	"Off",
	"Toggle",
}

func (sf TwoState) String() string {
	return "TS<" + twoStateSemantics[sf&0x03] + ">"
}

// XPS is an extended two-state output command. 3 bits.
type XPS uint8

// XPS defined
const (
	XPSNone        XPS = iota // no change
	XPSSetOn                  // set on
	XPSSetOff                 // set off
	XPSToggle                 // toggle
	XPSReset                  // reset to configured default
	XPSPulseOn                // start an on pulse
	XPSPulseOff               // start an off pulse
	XPSPulseCancel            // cancel a running pulse
)

var xpsSemantics = []string{
	"None",
	"SetOn",
	"SetOff",
	"Toggle",
	"Reset",
	"PulseOn",
	"PulseOff",
	"PulseCancel",
}

func (sf XPS) String() string {
	return "XPS<" + xpsSemantics[sf&0x07] + ">"
}

// BlcSysCmd is the one-byte board-level system command.
// | bit7 bit6 | bit5         | bit4 bit3 | bit2           | bit1           | bit0  |
// | reserved  | config reset | watchdog  | watchdog reset | software reset | reset |
type BlcSysCmd struct {
	Reset         bool
	SoftwareReset bool
	WatchdogReset bool
	Watchdog      TwoState
	ConfigReset   bool
	// reserved bits, carried through the codec untouched
	Reserved uint8
}

// ParseBlcSysCmd parse byte to a board-level system command.
func ParseBlcSysCmd(b byte) BlcSysCmd {
	return BlcSysCmd{
		Reset:         b&0x01 != 0,
		SoftwareReset: b&0x02 != 0,
		WatchdogReset: b&0x04 != 0,
		Watchdog:      TwoState(b >> 3 & 0x03),
		ConfigReset:   b&0x20 != 0,
		Reserved:      b >> 6 & 0x03,
	}
}

// Value encode the system command to byte. ParseBlcSysCmd followed by
// Value is the identity for every byte.
func (sf BlcSysCmd) Value() byte {
	var v byte
	if sf.Reset {
		v |= 0x01
	}
	if sf.SoftwareReset {
		v |= 0x02
	}
	if sf.WatchdogReset {
		v |= 0x04
	}
	v |= byte(sf.Watchdog&0x03) << 3
	if sf.ConfigReset {
		v |= 0x20
	}
	v |= (sf.Reserved & 0x03) << 6
	return v
}

// Blc0Command is the class-0 board-control command: an XPS command for
// each of the two open-collector and two relay outputs, packed 3 bits
// each into two bytes.
type Blc0Command struct {
	Coc1, Coc2 XPS
	Crl1, Crl2 XPS
}

// ParseBlc0Command parse two bytes to a class-0 command.
func ParseBlc0Command(b []byte) Blc0Command {
	v := binary.LittleEndian.Uint16(b)
	return Blc0Command{
		Coc1: XPS(v & 0x07),
		Coc2: XPS(v >> 3 & 0x07),
		Crl1: XPS(v >> 6 & 0x07),
		Crl2: XPS(v >> 9 & 0x07),
	}
}

// Value encode the class-0 command to two bytes.
func (sf Blc0Command) Value() [2]byte {
	v := uint16(sf.Coc1&0x07) |
		uint16(sf.Coc2&0x07)<<3 |
		uint16(sf.Crl1&0x07)<<6 |
		uint16(sf.Crl2&0x07)<<9
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b
}

// Blc0Telemetry is the class-0 board-control telemetry: the digital
// input byte, the pulsed output state nibble and four T10 temperatures
// packed 10 bits each.
type Blc0Telemetry struct {
	Dio      uint8
	Pdio     uint8 // low nibble
	IntTemp  uint16
	ExtTemp  uint16
	ExtTemp2 uint16
	ExtTemp3 uint16
}

// ParseBlc0Telemetry parse an 8-byte payload to class-0 telemetry.
func ParseBlc0Telemetry(b []byte) Blc0Telemetry {
	var t uint64
	for i := 0; i < 6; i++ {
		t |= uint64(b[2+i]) << (8 * i)
	}
	return Blc0Telemetry{
		Dio:      b[0],
		Pdio:     b[1] & 0x0f,
		IntTemp:  uint16(t & 0x3ff),
		ExtTemp:  uint16(t >> 10 & 0x3ff),
		ExtTemp2: uint16(t >> 20 & 0x3ff),
		ExtTemp3: uint16(t >> 30 & 0x3ff),
	}
}

// Value encode class-0 telemetry to its 8-byte payload.
func (sf Blc0Telemetry) Value() [8]byte {
	var b [8]byte
	b[0] = sf.Dio
	b[1] = sf.Pdio & 0x0f
	t := uint64(sf.IntTemp&0x3ff) |
		uint64(sf.ExtTemp&0x3ff)<<10 |
		uint64(sf.ExtTemp2&0x3ff)<<20 |
		uint64(sf.ExtTemp3&0x3ff)<<30
	for i := 0; i < 6; i++ {
		b[2+i] = byte(t >> (8 * i))
	}
	return b
}
