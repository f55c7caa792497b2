// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"testing"
)

func TestIDRoundTrip(t *testing.T) {
	for v := uint16(0); v < 1<<11; v++ {
		if got := ParseID(v).Pack(); got != v {
			t.Fatalf("Pack(ParseID(0x%03x)) = 0x%03x", v, got)
		}
	}
}

func TestIDFields(t *testing.T) {
	id := ID{Type: ReadAttribute, Dir: Query, Class: 1, Sid: 2, Endpoint: EndpointBoardControl}
	v := id.Pack()
	// | ep=3 | sid=2 | class=1 | query=1 | type=3 |
	want := uint16(3) | 1<<2 | 1<<3 | 2<<6 | 3<<9
	if v != want {
		t.Fatalf("Pack() = 0x%03x, want 0x%03x", v, want)
	}
	if got := ParseID(v); got != id {
		t.Fatalf("ParseID() = %+v, want %+v", got, id)
	}
}

func TestDevID(t *testing.T) {
	tests := []struct {
		class Class
		sid   SubID
		valid bool
	}{
		{0, 0, true},
		{1, 2, true},
		{6, 6, true},
		{7, 0, false},
		{0, 7, false},
		{7, 7, false},
	}
	for _, tt := range tests {
		did := NewDevID(tt.class, tt.sid)
		if did.Class() != tt.class || did.SubID() != tt.sid {
			t.Errorf("NewDevID(%d, %d) fields = (%d, %d)", tt.class, tt.sid, did.Class(), did.SubID())
		}
		if did.Valid() != tt.valid {
			t.Errorf("DevID(%d.%d).Valid() = %v, want %v", tt.class, tt.sid, did.Valid(), tt.valid)
		}
	}
	if NewDevID(7, 7) != BroadcastDevID {
		t.Error("NewDevID(7, 7) is not the broadcast address")
	}
}

func TestIDIsError(t *testing.T) {
	tests := []struct {
		id   ID
		want bool
	}{
		{ID{Type: Command, Dir: Response}, true},
		{ID{Type: WriteAttribute, Dir: Response}, true},
		{ID{Type: Telemetry, Dir: Response}, false},
		{ID{Type: ReadAttribute, Dir: Response}, false},
		{ID{Type: Command, Dir: Query}, false},
		{ID{Type: WriteAttribute, Dir: Query}, false},
	}
	for _, tt := range tests {
		if got := tt.id.IsError(); got != tt.want {
			t.Errorf("%v.IsError() = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestIDIsBroadcast(t *testing.T) {
	if !(ID{Class: 7, Sid: 7}).IsBroadcast() {
		t.Error("class 7 sid 7 must be broadcast")
	}
	if (ID{Class: 7, Sid: 6}).IsBroadcast() {
		t.Error("class 7 sid 6 must not be broadcast")
	}
}
