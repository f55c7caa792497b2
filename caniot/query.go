// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

// Controller-side query frame builders. Scheduling and session logic
// belong to the controller, these only produce correctly shaped frames.

// CommandQuery build a command query for did on ep carrying payload.
// The payload is truncated past 8 bytes.
func CommandQuery(did DevID, ep Endpoint, payload []byte) Frame {
	f := Frame{ID: ID{
		Type:     Command,
		Dir:      Query,
		Class:    did.Class(),
		Sid:      did.SubID(),
		Endpoint: ep,
	}}
	f.SetPayload(payload)
	return f
}

// TelemetryQuery build a telemetry request for did on ep.
func TelemetryQuery(did DevID, ep Endpoint) Frame {
	return Frame{ID: ID{
		Type:     Telemetry,
		Dir:      Query,
		Class:    did.Class(),
		Sid:      did.SubID(),
		Endpoint: ep,
	}}
}

// ReadAttributeQuery build an attribute read query for did.
func ReadAttributeQuery(did DevID, key AttrKey) Frame {
	f := Frame{ID: ID{
		Type:  ReadAttribute,
		Dir:   Query,
		Class: did.Class(),
		Sid:   did.SubID(),
	}}
	f.EncodeAttrRead(key)
	return f
}

// WriteAttributeQuery build an attribute write query for did.
func WriteAttributeQuery(did DevID, key AttrKey, value uint32) Frame {
	f := Frame{ID: ID{
		Type:  WriteAttribute,
		Dir:   Query,
		Class: did.Class(),
		Sid:   did.SubID(),
	}}
	f.EncodeAttrWrite(key, value)
	return f
}
