// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"encoding/binary"
)

// Attribute payload layout, little endian:
//
//	| 0..2 | key                                     |
//	| 2..6 | value, writes and read-responses only   |
//
// Error payload layout:
//
//	| 0..4 | negated error code, signed              |
//	| 4..8 | offending key, attribute errors only    |

// PutUint16LE write v at off, little endian.
func (sf *Frame) PutUint16LE(off int, v uint16) {
	binary.LittleEndian.PutUint16(sf.Data[off:], v)
}

// Uint16LE read a little-endian 16-bit word at off.
func (sf *Frame) Uint16LE(off int) uint16 {
	return binary.LittleEndian.Uint16(sf.Data[off:])
}

// PutUint32LE write v at off, little endian.
func (sf *Frame) PutUint32LE(off int, v uint32) {
	binary.LittleEndian.PutUint32(sf.Data[off:], v)
}

// Uint32LE read a little-endian 32-bit word at off.
func (sf *Frame) Uint32LE(off int) uint32 {
	return binary.LittleEndian.Uint32(sf.Data[off:])
}

// DecodeAttrRead extract the key of a read-attribute payload.
// Fails with ErrFrame when the payload is too short.
func (sf *Frame) DecodeAttrRead() (AttrKey, error) {
	if sf.Len < 2 {
		return 0, ErrFrame
	}
	return AttrKey(sf.Uint16LE(0)), nil
}

// DecodeAttrWrite extract key and value of a write-attribute payload.
// Fails with ErrFrame when the payload is too short.
func (sf *Frame) DecodeAttrWrite() (AttrKey, uint32, error) {
	if sf.Len < 6 {
		return 0, 0, ErrFrame
	}
	return AttrKey(sf.Uint16LE(0)), sf.Uint32LE(2), nil
}

// EncodeAttrRead fill the payload of a read-attribute query.
func (sf *Frame) EncodeAttrRead(key AttrKey) {
	sf.PutUint16LE(0, uint16(key))
	sf.Len = 2
}

// EncodeAttrResponse fill the payload of a read-attribute response.
func (sf *Frame) EncodeAttrResponse(key AttrKey, value uint32) {
	sf.PutUint16LE(0, uint16(key))
	sf.PutUint32LE(2, value)
	sf.Len = 6
}

// EncodeAttrWrite fill the payload of a write-attribute query.
func (sf *Frame) EncodeAttrWrite(key AttrKey, value uint32) {
	sf.PutUint16LE(0, uint16(key))
	sf.PutUint32LE(2, value)
	sf.Len = 6
}

// EncodeError fill an error payload. The key is appended for attribute
// errors other than frame-shape errors, signalled by withKey.
func (sf *Frame) EncodeError(e Error, key AttrKey, withKey bool) {
	sf.PutUint32LE(0, uint32(e.Wire()))
	sf.Len = 4
	if withKey {
		sf.PutUint32LE(4, uint32(key))
		sf.Len = 8
	}
}

// DecodeError extract the code, and key when present, of an error payload.
func (sf *Frame) DecodeError() (code int32, key AttrKey, withKey bool, err error) {
	if sf.Len < 4 {
		return 0, 0, false, ErrFrame
	}
	code = int32(sf.Uint32LE(0))
	if sf.Len >= 8 {
		key = AttrKey(sf.Uint32LE(4))
		withKey = true
	}
	return code, key, withKey, nil
}
