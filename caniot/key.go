// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"fmt"
)

// AttrKey is the 16-bit attribute key.
// | bit15..bit12 | bit11..bit4 | bit3..bit0 |
// |   section    |  attribute  |    part    |
// The part selects a 4-byte window into attributes larger than 4 bytes.
type AttrKey uint16

// NewAttrKey build a key from its three fields.
func NewAttrKey(section, attr, part uint8) AttrKey {
	return AttrKey(section&0x0f)<<12 | AttrKey(attr)<<4 | AttrKey(part&0x0f)
}

// Section returns the 4-bit section index.
func (sf AttrKey) Section() uint8 { return uint8(sf >> 12 & 0x0f) }

// Attr returns the 8-bit attribute index within the section.
func (sf AttrKey) Attr() uint8 { return uint8(sf >> 4 & 0xff) }

// Part returns the 4-bit part index.
func (sf AttrKey) Part() uint8 { return uint8(sf & 0x0f) }

func (sf AttrKey) String() string {
	return fmt.Sprintf("KEY<0x%04x>", uint16(sf))
}
