// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package caniot

import (
	"testing"
)

func TestBlcSysCmdRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		cmd := ParseBlcSysCmd(byte(b))
		if got := cmd.Value(); got != byte(b) {
			t.Fatalf("ParseBlcSysCmd(0x%02x).Value() = 0x%02x", b, got)
		}
	}
}

func TestBlcSysCmdFields(t *testing.T) {
	cmd := ParseBlcSysCmd(0x01)
	if !cmd.Reset || cmd.SoftwareReset || cmd.Watchdog != TwoStateNone {
		t.Errorf("0x01 = %+v", cmd)
	}
	cmd = ParseBlcSysCmd(0x02)
	if !cmd.SoftwareReset {
		t.Errorf("0x02 = %+v", cmd)
	}
	cmd = ParseBlcSysCmd(0x04)
	if !cmd.WatchdogReset {
		t.Errorf("0x04 = %+v", cmd)
	}
	cmd = ParseBlcSysCmd(0x08)
	if cmd.Watchdog != TwoStateOn {
		t.Errorf("0x08 watchdog = %v", cmd.Watchdog)
	}
	cmd = ParseBlcSysCmd(0x18)
	if cmd.Watchdog != TwoStateToggle {
		t.Errorf("0x18 watchdog = %v", cmd.Watchdog)
	}
	cmd = ParseBlcSysCmd(0x20)
	if !cmd.ConfigReset {
		t.Errorf("0x20 = %+v", cmd)
	}
}

func TestBlc0CommandRoundTrip(t *testing.T) {
	for coc1 := XPSNone; coc1 <= XPSPulseCancel; coc1++ {
		for crl2 := XPSNone; crl2 <= XPSPulseCancel; crl2++ {
			cmd := Blc0Command{Coc1: coc1, Coc2: XPSToggle, Crl1: XPSReset, Crl2: crl2}
			b := cmd.Value()
			if got := ParseBlc0Command(b[:]); got != cmd {
				t.Fatalf("ParseBlc0Command(% x) = %+v, want %+v", b, got, cmd)
			}
		}
	}
}

func TestBlc0TelemetryRoundTrip(t *testing.T) {
	tests := []Blc0Telemetry{
		{},
		{Dio: 0xff, Pdio: 0x0f},
		{Dio: 0xa5, Pdio: 0x03, IntTemp: 280, ExtTemp: 530, ExtTemp2: T10Invalid, ExtTemp3: 1},
		{IntTemp: 0x3fe, ExtTemp: 0x3ff, ExtTemp2: 0x155, ExtTemp3: 0x2aa},
	}
	for _, tel := range tests {
		b := tel.Value()
		if got := ParseBlc0Telemetry(b[:]); got != tel {
			t.Fatalf("ParseBlc0Telemetry(% x) = %+v, want %+v", b, got, tel)
		}
	}
}
