// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"
)

// ReceivedCounters count inbound frames by kind.
type ReceivedCounters struct {
	Total            uint32
	ReadAttribute    uint32
	WriteAttribute   uint32
	Command          uint32
	RequestTelemetry uint32
	Ignored          uint32
}

// SentCounters count outbound frames.
type SentCounters struct {
	Total     uint32
	Telemetry uint32
}

// SystemState is the volatile system section, zero initialised at
// construction and mutated only by the core.
type SystemState struct {
	UptimeSynced  uint32
	Time          uint32
	Uptime        uint32
	StartTime     uint32
	LastTelemetry uint32
	// millisecond timestamp of the last periodic telemetry, the
	// deadline reference of the periodic trigger
	lastTelemetryMS uint32

	Received ReceivedCounters
	Sent     SentCounters

	LastCommandError   int16
	LastTelemetryError int16
	Battery            uint8
}

// system section image layout, little endian
const (
	sysOffUptimeSynced     = 0
	sysOffTime             = 4
	sysOffUptime           = 8
	sysOffStartTime        = 12
	sysOffLastTelemetry    = 16
	sysOffLastTelemetryMS  = 20
	sysOffRecvTotal        = 24
	sysOffRecvReadAttr     = 28
	sysOffRecvWriteAttr    = 32
	sysOffRecvCommand      = 36
	sysOffRecvReqTelemetry = 40
	sysOffRecvIgnored      = 44
	sysOffSentTotal        = 48
	sysOffSentTelemetry    = 52
	sysOffLastCommandErr   = 56
	sysOffLastTelemetryErr = 58
	sysOffBattery          = 60

	systemImageSize = 61
)

// marshal encode the section into its byte image.
func (sf *SystemState) marshal(b *[systemImageSize]byte) {
	le := binary.LittleEndian
	le.PutUint32(b[sysOffUptimeSynced:], sf.UptimeSynced)
	le.PutUint32(b[sysOffTime:], sf.Time)
	le.PutUint32(b[sysOffUptime:], sf.Uptime)
	le.PutUint32(b[sysOffStartTime:], sf.StartTime)
	le.PutUint32(b[sysOffLastTelemetry:], sf.LastTelemetry)
	le.PutUint32(b[sysOffLastTelemetryMS:], sf.lastTelemetryMS)
	le.PutUint32(b[sysOffRecvTotal:], sf.Received.Total)
	le.PutUint32(b[sysOffRecvReadAttr:], sf.Received.ReadAttribute)
	le.PutUint32(b[sysOffRecvWriteAttr:], sf.Received.WriteAttribute)
	le.PutUint32(b[sysOffRecvCommand:], sf.Received.Command)
	le.PutUint32(b[sysOffRecvReqTelemetry:], sf.Received.RequestTelemetry)
	le.PutUint32(b[sysOffRecvIgnored:], sf.Received.Ignored)
	le.PutUint32(b[sysOffSentTotal:], sf.Sent.Total)
	le.PutUint32(b[sysOffSentTelemetry:], sf.Sent.Telemetry)
	le.PutUint16(b[sysOffLastCommandErr:], uint16(sf.LastCommandError))
	le.PutUint16(b[sysOffLastTelemetryErr:], uint16(sf.LastTelemetryError))
	b[sysOffBattery] = sf.Battery
}

// unmarshal decode the byte image back into the section.
func (sf *SystemState) unmarshal(b *[systemImageSize]byte) {
	le := binary.LittleEndian
	sf.UptimeSynced = le.Uint32(b[sysOffUptimeSynced:])
	sf.Time = le.Uint32(b[sysOffTime:])
	sf.Uptime = le.Uint32(b[sysOffUptime:])
	sf.StartTime = le.Uint32(b[sysOffStartTime:])
	sf.LastTelemetry = le.Uint32(b[sysOffLastTelemetry:])
	sf.lastTelemetryMS = le.Uint32(b[sysOffLastTelemetryMS:])
	sf.Received.Total = le.Uint32(b[sysOffRecvTotal:])
	sf.Received.ReadAttribute = le.Uint32(b[sysOffRecvReadAttr:])
	sf.Received.WriteAttribute = le.Uint32(b[sysOffRecvWriteAttr:])
	sf.Received.Command = le.Uint32(b[sysOffRecvCommand:])
	sf.Received.RequestTelemetry = le.Uint32(b[sysOffRecvReqTelemetry:])
	sf.Received.Ignored = le.Uint32(b[sysOffRecvIgnored:])
	sf.Sent.Total = le.Uint32(b[sysOffSentTotal:])
	sf.Sent.Telemetry = le.Uint32(b[sysOffSentTelemetry:])
	sf.LastCommandError = int16(le.Uint16(b[sysOffLastCommandErr:]))
	sf.LastTelemetryError = int16(le.Uint16(b[sysOffLastTelemetryErr:]))
	sf.Battery = b[sysOffBattery]
}
