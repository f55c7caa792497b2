// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"fmt"
)

// Error is a protocol error code. Codes live in a dedicated base range
// so hosts can tell protocol errors from transport errors. On the wire
// an error frame carries the negated code as a signed 32-bit word.
type Error uint16

// ErrorBase is the first value of the protocol error range.
const ErrorBase Error = 0x3a00

// The closed protocol error taxonomy.
const (
	ErrInval        Error = ErrorBase + iota // invalid argument or direction
	ErrFrame                                 // malformed frame payload
	ErrKeySection                            // key names no section
	ErrKeyAttr                               // key names no attribute in the section
	ErrKeyPart                               // key part outside the attribute
	ErrClsAttr                               // attribute restricted to another class
	ErrNoAttr                                // attribute not accessible
	ErrReadAttr                              // attribute read failed
	ErrWriteAttr                             // attribute write failed
	ErrRoAttr                                // attribute not writable
	ErrHandlerCmd                            // command handler missing or failed
	ErrHandlerTelem                          // telemetry handler missing or failed
	ErrUnexpected                            // frame does not target this device
	ErrAgain                                 // no pending frame, not a failure
	ErrNotSup                                // operation not supported
	ErrNImpl                                 // operation not implemented
)

var errorSemantics = []string{
	"EINVAL",
	"EFRAME",
	"EKEYSECTION",
	"EKEYATTR",
	"EKEYPART",
	"ECLSATTR",
	"ENOATTR",
	"EREADATTR",
	"EWRITEATTR",
	"EROATTR",
	"EHANDLERC",
	"EHANDLERT",
	"EUNEXPECTED",
	"EAGAIN",
	"ENOTSUP",
	"ENIMPL",
}

// Error implements the error interface.
func (sf Error) Error() string {
	if sf >= ErrorBase && int(sf-ErrorBase) < len(errorSemantics) {
		return "caniot: " + errorSemantics[sf-ErrorBase]
	}
	return fmt.Sprintf("caniot: error 0x%04x", uint16(sf))
}

// Wire returns the signed value an error frame carries, the negated code.
func (sf Error) Wire() int32 { return -int32(sf) }

// ErrorFromWire recover the code from the signed wire value. The second
// return is false when the value lies outside the protocol range.
func ErrorFromWire(v int32) (Error, bool) {
	e := Error(-v)
	return e, e >= ErrorBase && int(e-ErrorBase) < len(errorSemantics)
}
