// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/rob-gra/go-caniot/caniot"
)

// ProcessIndefinite is returned by TimeUntilNextProcess when nothing
// schedules a wakeup.
const ProcessIndefinite = time.Duration(math.MaxInt64)

// Process run one cooperative step: refresh the configuration, advance
// the timebase, arm the periodic telemetry trigger, poll the driver
// and emit at most one frame. The returned error reports transport
// failures only; protocol errors are answered on the bus or dropped
// per the configuration.
func (sf *Device) Process() error {
	if err := sf.refreshConfig(); err != nil {
		sf.Warn("config refresh: %v", err)
	}

	sec, msec := sf.drv.GetTime()
	sf.system.Time = sec
	sf.system.Uptime = sec - sf.system.StartTime
	nowMS := sec*1000 + uint32(msec)

	if sf.config.Flags.TelemetryPeriodic() &&
		nowMS-sf.system.lastTelemetryMS >= sf.config.TelemetryPeriod {
		sf.requestTelemetryEP |= 1 << sf.config.Flags.TelemetryEndpoint()
	}

	var (
		resp    caniot.Frame
		hasResp bool
		delayed bool
		dispErr error
	)

	var req caniot.Frame
	switch err := sf.drv.Recv(&req); {
	case err == nil:
		sf.Debug("RX %v", req)
		if !caniot.IsTargeted(sf.ident.DID, req.ID.Pack(), false, false) {
			sf.system.Received.Ignored++
			sf.Warn("drop %v: %v", req.ID, caniot.ErrUnexpected)
			return nil
		}
		delayed = req.ID.IsBroadcast()
		resp, hasResp, dispErr = sf.dispatch(&req)
		if dispErr != nil {
			sf.Error("dispatch %v: %v", req.ID, dispErr)
		}
	case errors.Is(err, caniot.ErrAgain):
		switch {
		case !sf.startupSent:
			resp, hasResp = sf.nextStartupAttribute()
		case sf.requestTelemetryEP != 0:
			ep := highestPriorityEndpoint(sf.requestTelemetryEP)
			resp, dispErr = sf.buildTelemetry(ep)
			if dispErr != nil {
				sf.Error("telemetry %v: %v", ep, dispErr)
				return nil
			}
			hasResp = true
		}
	default:
		return err
	}

	if !hasResp {
		return nil
	}
	if dispErr != nil && !sf.config.Flags.ErrorResponse() {
		return nil
	}

	var delayMS uint32
	if delayed {
		delayMS = sf.broadcastDelay()
	}
	if err := sf.drv.Send(&resp, delayMS); err != nil {
		return err
	}
	sf.system.Sent.Total++

	if resp.ID.Type == caniot.Telemetry && dispErr == nil {
		ep := resp.ID.Endpoint
		sf.requestTelemetryEP &^= 1 << ep
		if sf.config.Flags.TelemetryPeriodic() && ep == sf.config.Flags.TelemetryEndpoint() {
			sf.system.lastTelemetryMS = nowMS
			sf.system.LastTelemetry = sf.system.Time
		}
	}
	return nil
}

// nextStartupAttribute publish the startup attribute at the cursor.
// Attribute-layer failures are logged and skipped, they never fail
// startup.
func (sf *Device) nextStartupAttribute() (caniot.Frame, bool) {
	key := sf.startupAttrs[sf.startupCursor]
	sf.startupCursor++
	if sf.startupCursor >= len(sf.startupAttrs) {
		sf.startupSent = true
	}

	value, err := sf.readAttribute(key)
	if err != nil {
		sf.Warn("startup attribute %v: %v", key, err)
		return caniot.Frame{}, false
	}
	resp := caniot.Frame{ID: sf.respID(caniot.ReadAttribute, caniot.EndpointApp)}
	resp.EncodeAttrResponse(key, value)
	return resp, true
}

// highestPriorityEndpoint pick the pending endpoint to flush,
// board-control first, then ep2, ep1, app.
func highestPriorityEndpoint(bits uint8) caniot.Endpoint {
	for ep := caniot.EndpointBoardControl; ep > caniot.EndpointApp; ep-- {
		if bits&(1<<ep) != 0 {
			return ep
		}
	}
	return caniot.EndpointApp
}

// broadcastDelay sample the randomised delay of a broadcast response,
// uniform over [delay_min, delay_max). A window with delay_max at or
// below delay_min gets the default amplitude.
func (sf *Device) broadcastDelay() uint32 {
	lo, hi := sf.config.TelemetryDelayMin, sf.config.TelemetryDelayMax
	amplitude := uint32(DelayMaxDefault)
	if hi > lo {
		amplitude = hi - lo
	}
	var b [4]byte
	if err := sf.drv.Entropy(b[:]); err != nil {
		return lo
	}
	return lo + binary.LittleEndian.Uint32(b[:])%amplitude
}

// TimeUntilNextProcess report how long the host may sleep before the
// next Process call: zero while startup attributes or telemetry
// requests are pending or the period elapsed, ProcessIndefinite when
// periodic telemetry is disabled.
func (sf *Device) TimeUntilNextProcess() time.Duration {
	if !sf.startupSent || sf.requestTelemetryEP != 0 {
		return 0
	}
	if !sf.config.Flags.TelemetryPeriodic() {
		return ProcessIndefinite
	}
	sec, msec := sf.drv.GetTime()
	nowMS := sec*1000 + uint32(msec)
	elapsed := nowMS - sf.system.lastTelemetryMS
	if elapsed >= sf.config.TelemetryPeriod {
		return 0
	}
	return time.Duration(sf.config.TelemetryPeriod-elapsed) * time.Millisecond
}
