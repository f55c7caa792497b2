// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"errors"

	"github.com/rob-gra/go-caniot/caniot"
)

// wireCode map an error to the code an error frame carries. Errors
// outside the protocol taxonomy collapse to the fallback of the
// failing operation.
func wireCode(err error, fallback caniot.Error) caniot.Error {
	var e caniot.Error
	if errors.As(err, &e) {
		return e
	}
	return fallback
}

func errWire16(err error, fallback caniot.Error) int16 {
	if err == nil {
		return 0
	}
	return int16(wireCode(err, fallback).Wire())
}

// respID build a response identifier on ep. Class and sub-id are
// re-read from the identification image so they stay authoritative
// even when identification lives in program memory.
func (sf *Device) respID(t caniot.FrameType, ep caniot.Endpoint) caniot.ID {
	did := caniot.DevID(sf.identImage[identOffDID])
	return caniot.ID{
		Type:     t,
		Dir:      caniot.Response,
		Class:    did.Class(),
		Sid:      did.SubID(),
		Endpoint: ep,
	}
}

// dispatch classify and handle one inbound frame. hasResp reports
// whether a frame should be emitted; a non-nil err with hasResp means
// resp is an error frame, emission gated by the configuration.
func (sf *Device) dispatch(req *caniot.Frame) (resp caniot.Frame, hasResp bool, err error) {
	if req.ID.Dir != caniot.Query {
		return caniot.Frame{}, false, caniot.ErrInval
	}
	sf.system.Received.Total++

	var (
		key    caniot.AttrKey
		hasKey bool
	)
	switch req.ID.Type {
	case caniot.Command:
		sf.system.Received.Command++
		err = sf.handleCommand(req)
		sf.system.LastCommandError = errWire16(err, caniot.ErrHandlerCmd)
		if err == nil {
			resp, err = sf.buildTelemetry(req.ID.Endpoint)
		}
	case caniot.Telemetry:
		sf.system.Received.RequestTelemetry++
		resp, err = sf.buildTelemetry(req.ID.Endpoint)
	case caniot.WriteAttribute:
		sf.system.Received.WriteAttribute++
		var value uint32
		key, value, err = req.DecodeAttrWrite()
		if err == nil {
			hasKey = true
			err = sf.writeAttribute(key, value)
		}
		if err == nil {
			resp, err = sf.buildAttrResponse(req.ID.Endpoint, key)
		}
	case caniot.ReadAttribute:
		sf.system.Received.ReadAttribute++
		key, err = req.DecodeAttrRead()
		if err == nil {
			hasKey = true
			resp, err = sf.buildAttrResponse(req.ID.Endpoint, key)
		}
	}
	if err != nil {
		return sf.buildErrorFrame(req, err, key, hasKey), true, err
	}
	return resp, true, nil
}

// handleCommand run the handlers of a command request. A full
// board-control command carries a system command in its last byte,
// dispatched to the board-level handler before the command handler.
func (sf *Device) handleCommand(req *caniot.Frame) error {
	if req.ID.Endpoint == caniot.EndpointBoardControl &&
		req.Len == caniot.FramePayloadMax && sf.api.BlcSysCmd != nil {
		cmd := caniot.ParseBlcSysCmd(req.Data[caniot.FramePayloadMax-1])
		if err := sf.api.BlcSysCmd(sf, cmd); err != nil {
			return err
		}
	}
	if sf.api.Command == nil {
		return caniot.ErrHandlerCmd
	}
	return sf.api.Command(sf, req.ID.Endpoint, req.Payload())
}

// buildTelemetry run the telemetry handler and shape its buffer into a
// telemetry response on ep.
func (sf *Device) buildTelemetry(ep caniot.Endpoint) (caniot.Frame, error) {
	resp := caniot.Frame{ID: sf.respID(caniot.Telemetry, ep)}
	if sf.api.Telemetry == nil {
		sf.system.LastTelemetryError = int16(caniot.ErrHandlerTelem.Wire())
		return resp, caniot.ErrHandlerTelem
	}
	n, err := sf.api.Telemetry(sf, ep, resp.Data[:])
	sf.system.LastTelemetryError = errWire16(err, caniot.ErrHandlerTelem)
	if err != nil {
		return resp, err
	}
	if n < 0 {
		n = 0
	} else if n > caniot.FramePayloadMax {
		n = caniot.FramePayloadMax
	}
	resp.Len = uint8(n)
	sf.system.Sent.Telemetry++
	return resp, nil
}

// buildAttrResponse read key back and shape a read-attribute response.
func (sf *Device) buildAttrResponse(ep caniot.Endpoint, key caniot.AttrKey) (caniot.Frame, error) {
	value, err := sf.readAttribute(key)
	if err != nil {
		return caniot.Frame{}, err
	}
	resp := caniot.Frame{ID: sf.respID(caniot.ReadAttribute, ep)}
	resp.EncodeAttrResponse(key, value)
	return resp, nil
}

// buildErrorFrame wrap a dispatch failure: command and telemetry
// errors report as Command responses, attribute errors as
// WriteAttribute responses carrying the offending key, frame-shape
// errors excepted.
func (sf *Device) buildErrorFrame(req *caniot.Frame, err error, key caniot.AttrKey, hasKey bool) caniot.Frame {
	var (
		t        caniot.FrameType
		fallback caniot.Error
	)
	switch req.ID.Type {
	case caniot.Command:
		t, fallback = caniot.Command, caniot.ErrHandlerCmd
	case caniot.Telemetry:
		t, fallback = caniot.Command, caniot.ErrHandlerTelem
	case caniot.WriteAttribute:
		t, fallback = caniot.WriteAttribute, caniot.ErrWriteAttr
	default:
		t, fallback = caniot.WriteAttribute, caniot.ErrReadAttr
	}
	code := wireCode(err, fallback)
	withKey := hasKey && code != caniot.ErrFrame
	f := caniot.Frame{ID: sf.respID(t, req.ID.Endpoint)}
	f.EncodeError(code, key, withKey)
	return f
}
