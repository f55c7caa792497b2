// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

// Temperature encodings.
// T16 is hundredths of a degree Celsius, signed.
// T10 is a 10-bit encoding, offset -28.0, step 0.1 degrees.
// T8 is an 8-bit encoding, offset -28.0, step 0.5 degrees.

// The reserved invalid markers of each encoding.
const (
	T16Invalid int16  = 32767
	T10Invalid uint16 = 0x3ff
	T8Invalid  uint8  = 0xff
)

// T16ToT10 convert a T16 temperature to T10.
// The result is bounded to [0, 0x3fe]; T16Invalid maps to T10Invalid.
func T16ToT10(t int16) uint16 {
	if t == T16Invalid {
		return T10Invalid
	}
	v := (int32(t) + 2800 + 5) / 10
	if v < 0 {
		v = 0
	} else if v > 0x3fe {
		v = 0x3fe
	}
	return uint16(v)
}

// T10ToT16 convert a T10 temperature back to T16.
// T10Invalid and out-of-range values map to T16Invalid.
func T10ToT16(t uint16) int16 {
	if t >= T10Invalid {
		return T16Invalid
	}
	return int16(int32(t)*10 - 2800)
}

// T16ToT8 convert a T16 temperature to T8.
// The result is bounded to [0, 0xfe]; T16Invalid maps to T8Invalid.
func T16ToT8(t int16) uint8 {
	if t == T16Invalid {
		return T8Invalid
	}
	v := (int32(t) + 2800 + 25) / 50
	if v < 0 {
		v = 0
	} else if v > 0xfe {
		v = 0xfe
	}
	return uint8(v)
}

// T8ToT16 convert a T8 temperature back to T16.
func T8ToT16(t uint8) int16 {
	if t == T8Invalid {
		return T16Invalid
	}
	return int16(int32(t)*50 - 2800)
}

// HeatingMode is one heater setpoint mode. 4 bits.
type HeatingMode uint8

// HeatingMode defined
const (
	HeatingNone         HeatingMode = iota // no change requested
	HeatingComfort                         // comfort setpoint
	HeatingComfortMin1                     // comfort minus 1 degree
	HeatingComfortMin2                     // comfort minus 2 degrees
	HeatingEnergySaving                    // energy saving setpoint
	HeatingFrostFree                       // frost free setpoint
	HeatingOff                             // heater off
)

var heatingSemantics = []string{
	"None",
	"Comfort",
	"ComfortMin1",
	"ComfortMin2",
	"EnergySaving",
	"FrostFree",
	"Off",
}

func (sf HeatingMode) String() string {
	if int(sf) < len(heatingSemantics) {
		return "HEAT<" + heatingSemantics[sf] + ">"
	}
	return "HEAT<Reserved>"
}

// PackHeatingModes pack two heater modes into one byte, first heater in
// the low nibble.
func PackHeatingModes(h0, h1 HeatingMode) byte {
	return byte(h0&0x0f) | byte(h1&0x0f)<<4
}

// ParseHeatingModes unpack two heater modes from one byte.
func ParseHeatingModes(b byte) (h0, h1 HeatingMode) {
	return HeatingMode(b & 0x0f), HeatingMode(b >> 4 & 0x0f)
}

// ShutterNone is the shutter command requesting no movement.
const ShutterNone uint8 = 0xff

// ShutterOpenness clamp a shutter command to the valid openness range
// 0..100 percent. ShutterNone passes through.
func ShutterOpenness(cmd uint8) uint8 {
	if cmd == ShutterNone {
		return ShutterNone
	}
	if cmd > 100 {
		return 100
	}
	return cmd
}
