// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"

	"github.com/rob-gra/go-caniot/caniot"
)

// attrRef is the access descriptor a resolved key yields: the schema
// entry located, the 4-byte window selected by the part index, and the
// roles after the section adjustment.
type attrRef struct {
	section      uint8
	sectionFlags sectionFlags
	flags        attrFlags
	// final offset into the section image, attribute offset plus
	// part index times four
	offset uint16
	// window size, at most four
	size uint16
}

// resolveAttr parse and locate a key.
// Fails with ErrKeySection, ErrKeyAttr or ErrKeyPart, in that order.
func resolveAttr(key caniot.AttrKey) (attrRef, error) {
	si := key.Section()
	if int(si) >= len(attrSchema) {
		return attrRef{}, caniot.ErrKeySection
	}
	sec := &attrSchema[si]
	ai := key.Attr()
	if int(ai) >= len(sec.attrs) {
		return attrRef{}, caniot.ErrKeyAttr
	}
	a := &sec.attrs[ai]
	part := uint16(key.Part())
	if part*4 >= a.size {
		return attrRef{}, caniot.ErrKeyPart
	}

	flags := a.flags
	if sec.flags&sectionReadOnly != 0 {
		flags &^= attrWritable
	}
	size := a.size - part*4
	if size > 4 {
		size = 4
	}
	return attrRef{
		section:      si,
		sectionFlags: sec.flags,
		flags:        flags,
		offset:       a.offset + part*4,
		size:         size,
	}, nil
}

// checkClass apply the class gating of a resolved attribute.
func (sf *Device) checkClass(ref attrRef) error {
	if ref.flags&attrClassRestricted != 0 && ref.flags.class() != sf.ident.DID.Class() {
		return caniot.ErrClsAttr
	}
	return nil
}

// hasCustomAttr reports whether the application registered the custom
// attribute fallback, both directions.
func (sf *Device) hasCustomAttr() bool {
	return sf.api.CustomAttrRead != nil && sf.api.CustomAttrWrite != nil
}

// readAttribute resolve and read one attribute window, zero extended to
// 32 bits. Keys outside the catalogue fall back to the custom attribute
// callbacks when registered.
func (sf *Device) readAttribute(key caniot.AttrKey) (uint32, error) {
	ref, err := resolveAttr(key)
	if err != nil {
		if sf.hasCustomAttr() {
			return sf.api.CustomAttrRead(sf, key)
		}
		return 0, err
	}
	if ref.flags&attrHidden != 0 || ref.flags&attrReadable == 0 {
		return 0, caniot.ErrNoAttr
	}
	if err := sf.checkClass(ref); err != nil {
		return 0, err
	}

	var window [4]byte
	switch ref.section {
	case sectionIdentification:
		copy(window[:], sf.identImage[ref.offset:ref.offset+ref.size])
	case sectionSystem:
		var img [systemImageSize]byte
		sf.system.marshal(&img)
		copy(window[:], img[ref.offset:ref.offset+ref.size])
	case sectionConfiguration:
		if err := sf.refreshConfig(); err != nil {
			return 0, err
		}
		var img [configImageSize]byte
		sf.config.marshal(&img)
		copy(window[:], img[ref.offset:ref.offset+ref.size])
	}
	return binary.LittleEndian.Uint32(window[:]), nil
}

// writeAttribute resolve and write one attribute window. Values wider
// than the attribute are truncated to its size.
func (sf *Device) writeAttribute(key caniot.AttrKey, value uint32) error {
	ref, err := resolveAttr(key)
	if err != nil {
		if sf.hasCustomAttr() {
			return sf.api.CustomAttrWrite(sf, key, value)
		}
		return err
	}
	if ref.flags&attrHidden != 0 {
		return caniot.ErrNoAttr
	}
	if ref.flags&attrWritable == 0 {
		return caniot.ErrRoAttr
	}
	if err := sf.checkClass(ref); err != nil {
		return err
	}

	var window [4]byte
	binary.LittleEndian.PutUint32(window[:], value)

	switch ref.section {
	case sectionSystem:
		if key == KeySystemTime {
			sf.setTime(value)
			return nil
		}
		var img [systemImageSize]byte
		sf.system.marshal(&img)
		copy(img[ref.offset:ref.offset+ref.size], window[:ref.size])
		sf.system.unmarshal(&img)
	case sectionConfiguration:
		var img [configImageSize]byte
		sf.config.marshal(&img)
		copy(img[ref.offset:ref.offset+ref.size], window[:ref.size])
		sf.config.unmarshal(&img)
		return sf.flushConfig()
	}
	// identification is unreachable, the section role strips writable
	return nil
}

// setTime apply a write to the system time attribute: reset the driver
// wall clock and shift every stored timestamp by the jump so pending
// deadlines survive.
func (sf *Device) setTime(sec uint32) {
	prev, _ := sf.drv.GetTime()
	sf.drv.SetTime(sec)
	delta := int64(sec) - int64(prev)

	sf.system.LastTelemetry = uint32(int64(sf.system.LastTelemetry) + delta)
	sf.system.lastTelemetryMS = uint32(int64(sf.system.lastTelemetryMS) + delta*1000)
	sf.system.StartTime = uint32(int64(sf.system.StartTime) + delta)
	sf.system.Time = sec
	sf.system.UptimeSynced = sec - sf.system.StartTime
}

// refreshConfig pull the configuration from the application when the
// dirty flag is set. The flag clears only on success.
func (sf *Device) refreshConfig() error {
	if !sf.configDirty || sf.api.ConfigOnRead == nil {
		sf.configDirty = false
		return nil
	}
	if err := sf.api.ConfigOnRead(sf); err != nil {
		return err
	}
	sf.configDirty = false
	return nil
}

// flushConfig surface a configuration write to the application. The
// callback may consult the clock and legitimately move the time base;
// the jump observed across the call shifts the stored deadlines.
func (sf *Device) flushConfig() error {
	if sf.api.ConfigOnWrite == nil {
		return nil
	}
	beforeSec, beforeMS := sf.drv.GetTime()
	err := sf.api.ConfigOnWrite(sf)
	afterSec, afterMS := sf.drv.GetTime()

	deltaSec := int64(afterSec) - int64(beforeSec)
	deltaMS := deltaSec*1000 + int64(afterMS) - int64(beforeMS)
	if deltaSec != 0 || deltaMS != 0 {
		sf.system.StartTime = uint32(int64(sf.system.StartTime) + deltaSec)
		sf.system.LastTelemetry = uint32(int64(sf.system.LastTelemetry) + deltaSec)
		sf.system.lastTelemetryMS = uint32(int64(sf.system.lastTelemetryMS) + deltaMS)
	}
	return err
}
