// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"
	"errors"

	"github.com/rob-gra/go-caniot/caniot"
)

// defines the configuration section value ranges
const (
	// telemetry period range [100ms, 24h], default 60s
	TelemetryPeriodMin     = 100
	TelemetryPeriodMax     = 24 * 3600 * 1000
	TelemetryPeriodDefault = 60 * 1000

	// amplitude applied to the broadcast response delay when
	// delay_max <= delay_min
	DelayMaxDefault = 100
)

// ConfigFlags is the configuration flag bitfield.
// | bit15..bit4 | bit3 bit2          | bit1     | bit0           |
// |  reserved   | telemetry endpoint | periodic | error response |
type ConfigFlags uint16

// ConfigFlags defined
const (
	// FlagErrorResponse gates emission of error frames.
	FlagErrorResponse ConfigFlags = 1 << iota
	// FlagTelemetryPeriodic enables the periodic telemetry trigger.
	FlagTelemetryPeriodic
)

// ErrorResponse reports whether error frames are emitted.
func (sf ConfigFlags) ErrorResponse() bool { return sf&FlagErrorResponse != 0 }

// TelemetryPeriodic reports whether periodic telemetry is enabled.
func (sf ConfigFlags) TelemetryPeriodic() bool { return sf&FlagTelemetryPeriodic != 0 }

// TelemetryEndpoint returns the endpoint periodic telemetry is sent on.
func (sf ConfigFlags) TelemetryEndpoint() caniot.Endpoint {
	return caniot.Endpoint(sf >> 2 & 0x03)
}

// WithTelemetryEndpoint returns the flags with the periodic telemetry
// endpoint replaced.
func (sf ConfigFlags) WithTelemetryEndpoint(ep caniot.Endpoint) ConfigFlags {
	return sf&^(0x03<<2) | ConfigFlags(ep&0x03)<<2
}

// Config is the persistent configuration section. The application owns
// the value; the core reads and writes it under the dirty-flag protocol
// and surfaces writes through the on-write callback.
type Config struct {
	// periodic telemetry period in milliseconds
	TelemetryPeriod uint32
	// broadcast response delay window in milliseconds
	TelemetryDelayMin uint32
	TelemetryDelayMax uint32

	Flags    ConfigFlags
	Timezone int32
	Location [4]byte

	// class 0 GPIO configuration
	Cls0PulseDurations    [4]uint32
	Cls0OutputsDefault    uint32
	Cls0Directions        uint32
	Cls0TelemetryOnChange uint32

	// class 1 GPIO configuration
	Cls1PulseDurations    [8]uint32
	Cls1Directions        [8]byte
	Cls1OutputsDefault    [8]byte
	Cls1TelemetryOnChange [8]byte
}

// Valid applies the default for each unspecified value and checks ranges.
func (sf *Config) Valid() error {
	if sf == nil {
		return errors.New("invalid pointer")
	}

	if sf.TelemetryPeriod == 0 {
		sf.TelemetryPeriod = TelemetryPeriodDefault
	} else if sf.TelemetryPeriod < TelemetryPeriodMin || sf.TelemetryPeriod > TelemetryPeriodMax {
		return errors.New("TelemetryPeriod not in [100ms, 24h]")
	}

	if sf.Flags == 0 {
		sf.Flags = DefaultConfig().Flags
	}
	return nil
}

// DefaultConfig default config: one minute period on the board-control
// endpoint, error responses enabled, randomised broadcast delay up to
// DelayMaxDefault.
func DefaultConfig() Config {
	return Config{
		TelemetryPeriod:   TelemetryPeriodDefault,
		TelemetryDelayMin: 0,
		TelemetryDelayMax: DelayMaxDefault,
		Flags: (FlagErrorResponse | FlagTelemetryPeriodic).
			WithTelemetryEndpoint(caniot.EndpointBoardControl),
	}
}

// configuration section image layout, little endian
const (
	cfgOffTelemetryPeriod   = 0
	cfgOffDelayMin          = 4
	cfgOffDelayMax          = 8
	cfgOffFlags             = 12
	cfgOffTimezone          = 14
	cfgOffLocation          = 18
	cfgOffCls0PulseDur      = 22
	cfgOffCls0OutputsDef    = 38
	cfgOffCls0Directions    = 42
	cfgOffCls0TelemOnChange = 46
	cfgOffCls1PulseDur      = 50
	cfgOffCls1Directions    = 82
	cfgOffCls1OutputsDef    = 90
	cfgOffCls1TelemOnChange = 98

	configImageSize = 106
)

// marshal encode the section into its byte image.
func (sf *Config) marshal(b *[configImageSize]byte) {
	le := binary.LittleEndian
	le.PutUint32(b[cfgOffTelemetryPeriod:], sf.TelemetryPeriod)
	le.PutUint32(b[cfgOffDelayMin:], sf.TelemetryDelayMin)
	le.PutUint32(b[cfgOffDelayMax:], sf.TelemetryDelayMax)
	le.PutUint16(b[cfgOffFlags:], uint16(sf.Flags))
	le.PutUint32(b[cfgOffTimezone:], uint32(sf.Timezone))
	copy(b[cfgOffLocation:], sf.Location[:])
	for i, v := range sf.Cls0PulseDurations {
		le.PutUint32(b[cfgOffCls0PulseDur+4*i:], v)
	}
	le.PutUint32(b[cfgOffCls0OutputsDef:], sf.Cls0OutputsDefault)
	le.PutUint32(b[cfgOffCls0Directions:], sf.Cls0Directions)
	le.PutUint32(b[cfgOffCls0TelemOnChange:], sf.Cls0TelemetryOnChange)
	for i, v := range sf.Cls1PulseDurations {
		le.PutUint32(b[cfgOffCls1PulseDur+4*i:], v)
	}
	copy(b[cfgOffCls1Directions:], sf.Cls1Directions[:])
	copy(b[cfgOffCls1OutputsDef:], sf.Cls1OutputsDefault[:])
	copy(b[cfgOffCls1TelemOnChange:], sf.Cls1TelemetryOnChange[:])
}

// unmarshal decode the byte image back into the section.
func (sf *Config) unmarshal(b *[configImageSize]byte) {
	le := binary.LittleEndian
	sf.TelemetryPeriod = le.Uint32(b[cfgOffTelemetryPeriod:])
	sf.TelemetryDelayMin = le.Uint32(b[cfgOffDelayMin:])
	sf.TelemetryDelayMax = le.Uint32(b[cfgOffDelayMax:])
	sf.Flags = ConfigFlags(le.Uint16(b[cfgOffFlags:]))
	sf.Timezone = int32(le.Uint32(b[cfgOffTimezone:]))
	copy(sf.Location[:], b[cfgOffLocation:])
	for i := range sf.Cls0PulseDurations {
		sf.Cls0PulseDurations[i] = le.Uint32(b[cfgOffCls0PulseDur+4*i:])
	}
	sf.Cls0OutputsDefault = le.Uint32(b[cfgOffCls0OutputsDef:])
	sf.Cls0Directions = le.Uint32(b[cfgOffCls0Directions:])
	sf.Cls0TelemetryOnChange = le.Uint32(b[cfgOffCls0TelemOnChange:])
	for i := range sf.Cls1PulseDurations {
		sf.Cls1PulseDurations[i] = le.Uint32(b[cfgOffCls1PulseDur+4*i:])
	}
	copy(sf.Cls1Directions[:], b[cfgOffCls1Directions:])
	copy(sf.Cls1OutputsDefault[:], b[cfgOffCls1OutputsDef:])
	copy(sf.Cls1TelemetryOnChange[:], b[cfgOffCls1TelemOnChange:])
}
