// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"

	"github.com/rob-gra/go-caniot/caniot"
)

// Identification is the read-only identification section, supplied at
// construction and never mutated by the core.
type Identification struct {
	DID     caniot.DevID
	Version uint16
	// Name is truncated or zero padded to 32 bytes on the wire.
	Name        string
	Magic       uint32
	BuildDate   uint32
	BuildCommit [20]byte
	Features    [4]byte
}

// identification section image layout, little endian
const (
	identOffDID         = 0
	identOffVersion     = 1
	identOffName        = 3
	identOffMagic       = 35
	identOffBuildDate   = 39
	identOffBuildCommit = 43
	identOffFeatures    = 63

	identNameSize  = 32
	identImageSize = 67
)

// marshal encode the section into its byte image. Done once at device
// construction; the image is read-only afterwards.
func (sf *Identification) marshal(b *[identImageSize]byte) {
	le := binary.LittleEndian
	b[identOffDID] = byte(sf.DID)
	le.PutUint16(b[identOffVersion:], sf.Version)
	name := sf.Name
	if len(name) > identNameSize {
		name = name[:identNameSize]
	}
	copy(b[identOffName:identOffName+identNameSize], name)
	le.PutUint32(b[identOffMagic:], sf.Magic)
	le.PutUint32(b[identOffBuildDate:], sf.BuildDate)
	copy(b[identOffBuildCommit:], sf.BuildCommit[:])
	copy(b[identOffFeatures:], sf.Features[:])
}
