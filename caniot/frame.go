// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"fmt"
)

// FramePayloadMax is the CAN payload limit.
const FramePayloadMax = 8

// Frame is one CANIOT frame: the unpacked identifier plus 0..8 payload
// bytes. The zero value is an empty Command response from device 0.0.
type Frame struct {
	ID   ID
	Len  uint8
	Data [FramePayloadMax]byte
}

// Clear reset the frame to its zero value.
func (sf *Frame) Clear() {
	*sf = Frame{}
}

// Payload returns the valid slice of the payload buffer.
func (sf *Frame) Payload() []byte {
	n := sf.Len
	if n > FramePayloadMax {
		n = FramePayloadMax
	}
	return sf.Data[:n]
}

// SetPayload copy b into the payload buffer, truncating past 8 bytes.
func (sf *Frame) SetPayload(b []byte) {
	n := copy(sf.Data[:], b)
	sf.Len = uint8(n)
}

func (sf Frame) String() string {
	return fmt.Sprintf("%s % x", sf.ID, sf.Data[:sf.Len])
}
