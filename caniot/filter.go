// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

// Acceptance filtering. All constants derive from the canonical ID pack
// so the bit layout is declared exactly once.

// FilterMask matches the query bit, class and sub-id of an identifier.
var FilterMask = ID{Type: 0, Dir: Query, Class: 7, Sid: 7, Endpoint: 0}.Pack()

// BroadcastFilter is the filter value matching broadcast queries.
var BroadcastFilter = FilterFor(BroadcastDevID)

// FilterFor returns the filter value matching queries addressed to did.
func FilterFor(did DevID) uint16 {
	return ID{Type: 0, Dir: Query, Class: did.Class(), Sid: did.SubID(), Endpoint: 0}.Pack()
}

// IsTargeted reports whether a received standard-identifier frame id
// targets the device did, directly or by broadcast. Extended-identifier
// and RTR frames never target a device.
func IsTargeted(did DevID, id uint16, extended, rtr bool) bool {
	if extended || rtr {
		return false
	}
	masked := id & FilterMask
	return masked == FilterFor(did) || masked == BroadcastFilter
}
