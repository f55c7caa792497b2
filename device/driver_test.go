// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package device

import (
	"github.com/rob-gra/go-caniot/caniot"
)

// fakeDriver is a scripted driver: a receive queue, a record of sent
// frames with their delays, a manual clock and deterministic entropy.
type sentFrame struct {
	frame caniot.Frame
	delay uint32
}

type fakeDriver struct {
	rxq     []caniot.Frame
	recvErr error
	sent    []sentFrame
	sendErr error

	sec  uint32
	msec uint16

	entropy   []byte
	entropyAt int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{sec: 1000}
}

func (sf *fakeDriver) push(f caniot.Frame) {
	sf.rxq = append(sf.rxq, f)
}

// advance move the clock forward by ms milliseconds.
func (sf *fakeDriver) advance(ms uint32) {
	total := uint32(sf.msec) + ms
	sf.sec += total / 1000
	sf.msec = uint16(total % 1000)
}

func (sf *fakeDriver) Recv(f *caniot.Frame) error {
	if len(sf.rxq) == 0 {
		if sf.recvErr != nil {
			return sf.recvErr
		}
		return caniot.ErrAgain
	}
	*f = sf.rxq[0]
	sf.rxq = sf.rxq[1:]
	return nil
}

func (sf *fakeDriver) Send(f *caniot.Frame, delayMS uint32) error {
	if sf.sendErr != nil {
		return sf.sendErr
	}
	sf.sent = append(sf.sent, sentFrame{*f, delayMS})
	return nil
}

func (sf *fakeDriver) GetTime() (sec uint32, msec uint16) {
	return sf.sec, sf.msec
}

func (sf *fakeDriver) SetTime(sec uint32) {
	sf.sec = sec
	sf.msec = 0
}

func (sf *fakeDriver) Entropy(b []byte) error {
	for i := range b {
		if len(sf.entropy) == 0 {
			b[i] = 0
			continue
		}
		b[i] = sf.entropy[sf.entropyAt%len(sf.entropy)]
		sf.entropyAt++
	}
	return nil
}

var testIdent = Identification{
	DID:     caniot.NewDevID(1, 2),
	Version: 0x0203,
	Name:    "caniot-test",
	Magic:   0xdeadbeef,
}

// testTelemetry fill the buffer with a recognisable payload tagged by
// the endpoint.
func testTelemetry(dev *Device, ep caniot.Endpoint, buf []byte) (int, error) {
	buf[0] = 0xa0 + byte(ep)
	buf[1] = 0x55
	return 2, nil
}
