// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"testing"
)

func TestIsTargetedExhaustive(t *testing.T) {
	for class := Class(0); class < 7; class++ {
		for sid := SubID(0); sid < 7; sid++ {
			did := NewDevID(class, sid)
			for v := uint16(0); v < 1<<11; v++ {
				id := ParseID(v)
				want := id.Dir == Query &&
					((id.Class == class && id.Sid == sid) ||
						(id.Class == 7 && id.Sid == 7))
				if got := IsTargeted(did, v, false, false); got != want {
					t.Fatalf("IsTargeted(%v, 0x%03x) = %v, want %v", did, v, got, want)
				}
			}
		}
	}
}

func TestIsTargetedExtendedRTR(t *testing.T) {
	did := NewDevID(1, 2)
	v := FilterFor(did)
	if IsTargeted(did, v, true, false) {
		t.Error("extended frames never target a device")
	}
	if IsTargeted(did, v, false, true) {
		t.Error("RTR frames never target a device")
	}
}

func TestFilterMaskIgnoresTypeAndEndpoint(t *testing.T) {
	did := NewDevID(3, 4)
	for _, typ := range []FrameType{Command, Telemetry, WriteAttribute, ReadAttribute} {
		for _, ep := range []Endpoint{EndpointApp, Endpoint1, Endpoint2, EndpointBoardControl} {
			id := ID{Type: typ, Dir: Query, Class: 3, Sid: 4, Endpoint: ep}
			if !IsTargeted(did, id.Pack(), false, false) {
				t.Errorf("query %v must target %v", id, did)
			}
			id.Dir = Response
			if IsTargeted(did, id.Pack(), false, false) {
				t.Errorf("response %v must not target %v", id, did)
			}
		}
	}
}
