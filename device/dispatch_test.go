// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rob-gra/go-caniot/caniot"
)

func TestReadAttributeRequest(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{})
	drv.push(caniot.ReadAttributeQuery(testIdent.DID, KeyIdentificationVersion))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	assert.Equal(t, caniot.ID{
		Type:  caniot.ReadAttribute,
		Dir:   caniot.Response,
		Class: 1,
		Sid:   2,
	}, resp.ID)
	assert.Equal(t, []byte{0x10, 0x00, 0x03, 0x02, 0x00, 0x00}, resp.Payload())
	assert.Equal(t, uint32(0), drv.sent[0].delay)

	sys := dev.System()
	assert.Equal(t, uint32(1), sys.Received.Total)
	assert.Equal(t, uint32(1), sys.Received.ReadAttribute)
	assert.Equal(t, uint32(1), sys.Sent.Total)
}

func TestWriteAttributeRequest(t *testing.T) {
	cfg := DefaultConfig()
	writes := 0
	dev, drv := newTestDevice(t, &cfg, Callbacks{
		ConfigOnWrite: func(dev *Device) error {
			writes++
			return nil
		},
	})
	drv.push(caniot.WriteAttributeQuery(testIdent.DID, KeyConfigTelemetryPeriod, 60_000))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	assert.Equal(t, uint32(60_000), cfg.TelemetryPeriod)
	assert.Equal(t, 1, writes)

	// the response reads the attribute back as a read-attribute frame
	resp := drv.sent[0].frame
	assert.Equal(t, caniot.ReadAttribute, resp.ID.Type)
	assert.Equal(t, caniot.Response, resp.ID.Dir)
	key, value, err := resp.DecodeAttrWrite()
	require.NoError(t, err)
	assert.Equal(t, KeyConfigTelemetryPeriod, key)
	assert.Equal(t, uint32(60_000), value)

	assert.Equal(t, uint32(1), dev.System().Received.WriteAttribute)
}

func TestCommandError(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{
		Command: func(dev *Device, ep caniot.Endpoint, payload []byte) error {
			return caniot.ErrHandlerCmd
		},
	})
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.Endpoint1, []byte{0x01}))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	assert.Equal(t, caniot.Command, resp.ID.Type)
	assert.Equal(t, caniot.Response, resp.ID.Dir)
	assert.Equal(t, caniot.Endpoint1, resp.ID.Endpoint)
	assert.True(t, resp.ID.IsError())

	code, _, withKey, err := resp.DecodeError()
	require.NoError(t, err)
	assert.Equal(t, caniot.ErrHandlerCmd.Wire(), code)
	assert.False(t, withKey, "command errors carry no key")

	assert.Equal(t, int16(caniot.ErrHandlerCmd.Wire()), dev.System().LastCommandError)
}

func TestCommandSuccessAnswersTelemetry(t *testing.T) {
	var gotPayload []byte
	dev, drv := newTestDevice(t, nil, Callbacks{
		Command: func(dev *Device, ep caniot.Endpoint, payload []byte) error {
			gotPayload = append([]byte(nil), payload...)
			return nil
		},
		Telemetry: testTelemetry,
	})
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.Endpoint2, []byte{0xca, 0xfe}))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	assert.Equal(t, []byte{0xca, 0xfe}, gotPayload)
	resp := drv.sent[0].frame
	assert.Equal(t, caniot.Telemetry, resp.ID.Type)
	assert.Equal(t, caniot.Endpoint2, resp.ID.Endpoint)
	assert.Equal(t, []byte{0xa2, 0x55}, resp.Payload())
	assert.Equal(t, uint32(1), dev.System().Sent.Telemetry)
	assert.Equal(t, int16(0), dev.System().LastCommandError)
}

func TestTelemetryRequest(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{Telemetry: testTelemetry})
	drv.push(caniot.TelemetryQuery(testIdent.DID, caniot.EndpointBoardControl))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	assert.Equal(t, caniot.Telemetry, resp.ID.Type)
	assert.Equal(t, caniot.EndpointBoardControl, resp.ID.Endpoint)
	assert.Equal(t, []byte{0xa3, 0x55}, resp.Payload())
	assert.Equal(t, uint32(1), dev.System().Received.RequestTelemetry)
}

func TestTelemetryRequestWithoutHandler(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{})
	drv.push(caniot.TelemetryQuery(testIdent.DID, caniot.EndpointApp))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	assert.Equal(t, caniot.Command, resp.ID.Type, "telemetry errors report as command errors")
	code, _, _, err := resp.DecodeError()
	require.NoError(t, err)
	assert.Equal(t, caniot.ErrHandlerTelem.Wire(), code)
}

func TestInvalidKeyPart(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{})
	// last_command_error is two bytes, part 1 is out of range
	key := KeySystemLastCommandError | 1
	drv.push(caniot.ReadAttributeQuery(testIdent.DID, key))

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	assert.Equal(t, caniot.WriteAttribute, resp.ID.Type, "attribute errors report as write-attribute errors")
	code, gotKey, withKey, err := resp.DecodeError()
	require.NoError(t, err)
	assert.Equal(t, caniot.ErrKeyPart.Wire(), code)
	require.True(t, withKey)
	assert.Equal(t, key, gotKey)
}

func TestMalformedAttributeFrame(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{})
	req := caniot.Frame{ID: caniot.ID{
		Type:  caniot.ReadAttribute,
		Dir:   caniot.Query,
		Class: 1,
		Sid:   2,
	}}
	drv.push(req)

	require.NoError(t, dev.Process())
	require.Len(t, drv.sent, 1)

	resp := drv.sent[0].frame
	code, _, withKey, err := resp.DecodeError()
	require.NoError(t, err)
	assert.Equal(t, caniot.ErrFrame.Wire(), code)
	assert.False(t, withKey, "frame-shape errors carry no key")
}

func TestResponseFrameRejected(t *testing.T) {
	dev, drv := newTestDevice(t, nil, Callbacks{})
	// a response travelling in the query direction is invalid, but it
	// does not even match the acceptance filter
	f := caniot.ReadAttributeQuery(testIdent.DID, KeyIdentificationDID)
	f.ID.Dir = caniot.Response
	drv.push(f)

	require.NoError(t, dev.Process())
	assert.Empty(t, drv.sent)
	assert.Equal(t, uint32(0), dev.System().Received.Total)
	assert.Equal(t, uint32(1), dev.System().Received.Ignored)
}

func TestErrorResponseGating(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flags &^= FlagErrorResponse
	dev, drv := newTestDevice(t, &cfg, Callbacks{})
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.EndpointApp, nil))

	require.NoError(t, dev.Process())
	assert.Empty(t, drv.sent, "error frames are suppressed when error_response is off")
	assert.Equal(t, uint32(1), dev.System().Received.Command)
}

func TestBlcSysCommand(t *testing.T) {
	var got caniot.BlcSysCmd
	calls := 0
	dev, drv := newTestDevice(t, nil, Callbacks{
		Command: func(dev *Device, ep caniot.Endpoint, payload []byte) error {
			return nil
		},
		Telemetry: testTelemetry,
		BlcSysCmd: func(dev *Device, cmd caniot.BlcSysCmd) error {
			calls++
			got = cmd
			return nil
		},
	})

	// a full board-control command carries the system command in its
	// last byte
	payload := make([]byte, 8)
	payload[7] = caniot.BlcSysCmd{SoftwareReset: true, Watchdog: caniot.TwoStateOn}.Value()
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.EndpointBoardControl, payload))

	require.NoError(t, dev.Process())
	assert.Equal(t, 1, calls)
	assert.True(t, got.SoftwareReset)
	assert.Equal(t, caniot.TwoStateOn, got.Watchdog)

	// short board-control commands and other endpoints skip the
	// system-command path
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.EndpointBoardControl, payload[:4]))
	require.NoError(t, dev.Process())
	drv.push(caniot.CommandQuery(testIdent.DID, caniot.Endpoint1, payload))
	require.NoError(t, dev.Process())
	assert.Equal(t, 1, calls)
}
