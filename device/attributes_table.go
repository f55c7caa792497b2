// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"iter"

	"github.com/rob-gra/go-caniot/caniot"
)

// The static attribute catalogue. The tables are read only; a platform
// keeping them in program memory substitutes its copy primitive in the
// read path, on hosts they are ordinary slice reads.

// attrFlags encode the per-attribute roles.
// | bit6..bit4 | bit3             | bit2   | bit1     | bit0     |
// |   class    | class restricted | hidden | writable | readable |
type attrFlags uint16

const (
	attrReadable attrFlags = 1 << iota
	attrWritable
	attrHidden
	attrClassRestricted
)

// attrClass restrict an attribute to one device class.
func attrClass(c caniot.Class) attrFlags {
	return attrClassRestricted | attrFlags(c&0x07)<<4
}

func (sf attrFlags) class() caniot.Class { return caniot.Class(sf >> 4 & 0x07) }

// sectionFlags encode the section role.
type sectionFlags uint8

const (
	// sectionReadOnly strips the writable role from every contained
	// attribute.
	sectionReadOnly sectionFlags = 1 << iota
	// sectionVolatile writes go directly to RAM.
	sectionVolatile
	// sectionPersistent writes are surfaced through the write-back
	// callback.
	sectionPersistent
)

type attrRecord struct {
	name   string
	offset uint16
	size   uint16
	flags  attrFlags
}

type sectionRecord struct {
	name  string
	flags sectionFlags
	attrs []attrRecord
}

// section indices
const (
	sectionIdentification = 0
	sectionSystem         = 1
	sectionConfiguration  = 2
)

var attrSchema = []sectionRecord{
	{
		name:  "identification",
		flags: sectionReadOnly,
		attrs: []attrRecord{
			{"did", identOffDID, 1, attrReadable},
			{"version", identOffVersion, 2, attrReadable},
			{"name", identOffName, 32, attrReadable},
			{"magic", identOffMagic, 4, attrReadable},
			{"build_date", identOffBuildDate, 4, attrReadable},
			{"build_commit", identOffBuildCommit, 20, attrReadable},
			{"features", identOffFeatures, 4, attrReadable},
		},
	},
	{
		name:  "system",
		flags: sectionVolatile,
		attrs: []attrRecord{
			{"uptime_synced", sysOffUptimeSynced, 4, attrReadable},
			{"time", sysOffTime, 4, attrReadable | attrWritable},
			{"uptime", sysOffUptime, 4, attrReadable},
			{"start_time", sysOffStartTime, 4, attrReadable},
			{"last_telemetry", sysOffLastTelemetry, 4, attrReadable},
			{"_last_telemetry_ms", sysOffLastTelemetryMS, 4, attrHidden},
			{"received.total", sysOffRecvTotal, 4, attrReadable},
			{"received.read_attribute", sysOffRecvReadAttr, 4, attrReadable},
			{"received.write_attribute", sysOffRecvWriteAttr, 4, attrReadable},
			{"received.command", sysOffRecvCommand, 4, attrReadable},
			{"received.request_telemetry", sysOffRecvReqTelemetry, 4, attrReadable},
			{"received.ignored", sysOffRecvIgnored, 4, attrReadable},
			{"sent.total", sysOffSentTotal, 4, attrReadable},
			{"sent.telemetry", sysOffSentTelemetry, 4, attrReadable},
			{"last_command_error", sysOffLastCommandErr, 2, attrReadable},
			{"last_telemetry_error", sysOffLastTelemetryErr, 2, attrReadable},
			{"battery", sysOffBattery, 1, attrReadable},
		},
	},
	{
		name:  "configuration",
		flags: sectionPersistent,
		attrs: []attrRecord{
			{"telemetry.period", cfgOffTelemetryPeriod, 4, attrReadable | attrWritable},
			{"telemetry.delay_min", cfgOffDelayMin, 4, attrReadable | attrWritable},
			{"telemetry.delay_max", cfgOffDelayMax, 4, attrReadable | attrWritable},
			{"flags", cfgOffFlags, 2, attrReadable | attrWritable},
			{"timezone", cfgOffTimezone, 4, attrReadable | attrWritable},
			{"location", cfgOffLocation, 4, attrReadable | attrWritable},
			{"cls0.pulse_durations", cfgOffCls0PulseDur, 16, attrReadable | attrWritable | attrClass(0)},
			{"cls0.outputs_default", cfgOffCls0OutputsDef, 4, attrReadable | attrWritable | attrClass(0)},
			{"cls0.directions", cfgOffCls0Directions, 4, attrReadable | attrWritable | attrClass(0)},
			{"cls0.telemetry_on_change", cfgOffCls0TelemOnChange, 4, attrReadable | attrWritable | attrClass(0)},
			{"cls1.pulse_durations", cfgOffCls1PulseDur, 32, attrReadable | attrWritable | attrClass(1)},
			{"cls1.directions", cfgOffCls1Directions, 8, attrReadable | attrWritable | attrClass(1)},
			{"cls1.outputs_default", cfgOffCls1OutputsDef, 8, attrReadable | attrWritable | attrClass(1)},
			{"cls1.telemetry_on_change", cfgOffCls1TelemOnChange, 8, attrReadable | attrWritable | attrClass(1)},
		},
	},
}

// The catalogued attribute keys, part 0.
const (
	KeyIdentificationDID         caniot.AttrKey = 0x0000
	KeyIdentificationVersion     caniot.AttrKey = 0x0010
	KeyIdentificationName        caniot.AttrKey = 0x0020
	KeyIdentificationMagic       caniot.AttrKey = 0x0030
	KeyIdentificationBuildDate   caniot.AttrKey = 0x0040
	KeyIdentificationBuildCommit caniot.AttrKey = 0x0050
	KeyIdentificationFeatures    caniot.AttrKey = 0x0060

	KeySystemUptimeSynced      caniot.AttrKey = 0x1000
	KeySystemTime              caniot.AttrKey = 0x1010
	KeySystemUptime            caniot.AttrKey = 0x1020
	KeySystemStartTime         caniot.AttrKey = 0x1030
	KeySystemLastTelemetry     caniot.AttrKey = 0x1040
	KeySystemLastTelemetryMS   caniot.AttrKey = 0x1050
	KeySystemReceivedTotal     caniot.AttrKey = 0x1060
	KeySystemReceivedReadAttr  caniot.AttrKey = 0x1070
	KeySystemReceivedWriteAttr caniot.AttrKey = 0x1080
	KeySystemReceivedCommand   caniot.AttrKey = 0x1090
	KeySystemReceivedReqTelem  caniot.AttrKey = 0x10a0
	KeySystemReceivedIgnored   caniot.AttrKey = 0x10b0
	KeySystemSentTotal         caniot.AttrKey = 0x10c0
	KeySystemSentTelemetry     caniot.AttrKey = 0x10d0
	KeySystemLastCommandError  caniot.AttrKey = 0x10e0
	KeySystemLastTelemetryErr  caniot.AttrKey = 0x10f0
	KeySystemBattery           caniot.AttrKey = 0x1100

	KeyConfigTelemetryPeriod   caniot.AttrKey = 0x2000
	KeyConfigTelemetryDelayMin caniot.AttrKey = 0x2010
	KeyConfigTelemetryDelayMax caniot.AttrKey = 0x2020
	KeyConfigFlags             caniot.AttrKey = 0x2030
	KeyConfigTimezone          caniot.AttrKey = 0x2040
	KeyConfigLocation          caniot.AttrKey = 0x2050
	KeyConfigCls0PulseDur      caniot.AttrKey = 0x2060
	KeyConfigCls0OutputsDef    caniot.AttrKey = 0x2070
	KeyConfigCls0Directions    caniot.AttrKey = 0x2080
	KeyConfigCls0TelemOnChange caniot.AttrKey = 0x2090
	KeyConfigCls1PulseDur      caniot.AttrKey = 0x20a0
	KeyConfigCls1Directions    caniot.AttrKey = 0x20b0
	KeyConfigCls1OutputsDef    caniot.AttrKey = 0x20c0
	KeyConfigCls1TelemOnChange caniot.AttrKey = 0x20d0
)

// AttrInfo describes one catalogued attribute.
type AttrInfo struct {
	Section string
	Name    string
	Size    uint16

	Readable bool
	Writable bool
	Hidden   bool

	// Restricted reports a class restriction; Class is only meaningful
	// when set.
	Restricted bool
	Class      caniot.Class
}

// Attributes iterate the whole catalogue in schema order, hidden
// attributes included. The yielded key has part 0.
func Attributes() iter.Seq2[caniot.AttrKey, AttrInfo] {
	return func(yield func(caniot.AttrKey, AttrInfo) bool) {
		for si, sec := range attrSchema {
			for ai, a := range sec.attrs {
				writable := a.flags&attrWritable != 0
				if sec.flags&sectionReadOnly != 0 {
					writable = false
				}
				info := AttrInfo{
					Section:    sec.name,
					Name:       a.name,
					Size:       a.size,
					Readable:   a.flags&attrReadable != 0,
					Writable:   writable,
					Hidden:     a.flags&attrHidden != 0,
					Restricted: a.flags&attrClassRestricted != 0,
					Class:      a.flags.class(),
				}
				if !yield(caniot.NewAttrKey(uint8(si), uint8(ai), 0), info) {
					return
				}
			}
		}
	}
}
