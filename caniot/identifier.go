// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"fmt"
)

// about the 11-bit standard CAN identifier carried by every CANIOT frame

// FrameType is the frame type field of the identifier. bit0 - bit1
type FrameType uint8

// The frame types.
const (
	Command        FrameType = iota // 0: application command, opaque payload
	Telemetry                       // 1: telemetry or telemetry request
	WriteAttribute                  // 2: attribute write, key + value payload
	ReadAttribute                   // 3: attribute read, key payload
)

var frameTypeSemantics = []string{
	"Command",
	"Telemetry",
	"WriteAttribute",
	"ReadAttribute",
}

func (sf FrameType) String() string {
	if int(sf) < len(frameTypeSemantics) {
		return "FT<" + frameTypeSemantics[sf] + ">"
	}
	return fmt.Sprintf("FT<%d>", uint8(sf))
}

// Direction is the query bit of the identifier. bit2
// A query travels controller to device, a response (or telemetry push)
// travels device to controller.
type Direction uint8

// Direction defined
const (
	Response Direction = iota // 0: from device
	Query                     // 1: to device
)

func (sf Direction) String() string {
	if sf == Query {
		return "DIR<query>"
	}
	return "DIR<response>"
}

// Class is the device class. bit3 - bit5
// <0..6>: device class
// <7>: broadcast (together with SubID 7)
type Class uint8

// SubID is the device sub identifier within a class. bit6 - bit8
// <0..6>: sub identifier
// <7>: broadcast (together with Class 7)
type SubID uint8

// Endpoint selects the logical destination within a device. bit9 - bit10
type Endpoint uint8

// Endpoint defined
const (
	EndpointApp          Endpoint = iota // 0: default application endpoint
	Endpoint1                            // 1: application endpoint 1
	Endpoint2                            // 2: application endpoint 2
	EndpointBoardControl                 // 3: board-level control
)

var endpointSemantics = []string{
	"app",
	"ep1",
	"ep2",
	"board-control",
}

func (sf Endpoint) String() string {
	if int(sf) < len(endpointSemantics) {
		return "EP<" + endpointSemantics[sf] + ">"
	}
	return fmt.Sprintf("EP<%d>", uint8(sf))
}

// DevID is the 6-bit device identifier, (class << 3) | sub-id.
type DevID uint8

// BroadcastDevID is the broadcast address, class 7 sub-id 7.
const BroadcastDevID DevID = 0x3f

// NewDevID build a device identifier from its class and sub-id.
func NewDevID(class Class, sid SubID) DevID {
	return DevID(class&0x07)<<3 | DevID(sid&0x07)
}

// Class returns the 3-bit class field.
func (sf DevID) Class() Class { return Class(sf>>3) & 0x07 }

// SubID returns the 3-bit sub identifier field.
func (sf DevID) SubID() SubID { return SubID(sf & 0x07) }

// Valid reports whether the identifier names a concrete device,
// both fields below the broadcast value.
func (sf DevID) Valid() bool {
	return sf.Class() < 7 && sf.SubID() < 7
}

func (sf DevID) String() string {
	return fmt.Sprintf("DID<%d.%d>", sf.Class(), sf.SubID())
}

// ID is the unpacked 11-bit standard CAN identifier.
// | bit10 bit9 | bit8 bit7 bit6 | bit5 bit4 bit3 | bit2  | bit1 bit0 |
// |  endpoint  |     sub-id     |     class      | query |   type    |
type ID struct {
	Type     FrameType
	Dir      Direction
	Class    Class
	Sid      SubID
	Endpoint Endpoint
}

// Pack encode the identifier fields into the 11-bit value.
// All layout constants of the package derive from this single pair.
func (sf ID) Pack() uint16 {
	return uint16(sf.Type&0x03) |
		uint16(sf.Dir&0x01)<<2 |
		uint16(sf.Class&0x07)<<3 |
		uint16(sf.Sid&0x07)<<6 |
		uint16(sf.Endpoint&0x03)<<9
}

// ParseID decode an 11-bit value into identifier fields.
// Reserved patterns decode to their numeric values, rejection happens
// at the dispatch boundary.
func ParseID(v uint16) ID {
	return ID{
		Type:     FrameType(v & 0x03),
		Dir:      Direction(v >> 2 & 0x01),
		Class:    Class(v >> 3 & 0x07),
		Sid:      SubID(v >> 6 & 0x07),
		Endpoint: Endpoint(v >> 9 & 0x03),
	}
}

// DevID returns the device identifier addressed by the frame.
func (sf ID) DevID() DevID { return NewDevID(sf.Class, sf.Sid) }

// IsBroadcast reports whether the identifier addresses every device.
func (sf ID) IsBroadcast() bool { return sf.DevID() == BroadcastDevID }

// IsError reports whether a frame with this identifier is an error
// frame: a response of type Command (command/telemetry error) or
// WriteAttribute (attribute error).
func (sf ID) IsError() bool {
	return sf.Dir == Response && (sf.Type == Command || sf.Type == WriteAttribute)
}

func (sf ID) String() string {
	return fmt.Sprintf("ID<%s,%s,%d.%d,%s>", sf.Type, sf.Dir, sf.Class, sf.Sid, sf.Endpoint)
}
