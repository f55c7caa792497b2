// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package socketcan implements the device driver interface over a
// Linux SocketCAN interface.
package socketcan

import (
	"crypto/rand"
	"time"

	"github.com/brutella/can"
	"github.com/pkg/errors"

	"github.com/rob-gra/go-caniot/caniot"
	"github.com/rob-gra/go-caniot/driver/hosttime"
)

// SocketCAN flag bits carried in the identifier word, linux can.h.
const (
	flagExtended = 0x80000000
	flagRTR      = 0x40000000
	maskStandard = 0x7ff
)

// DefaultRxBuffer is the receive queue depth when none is given.
const DefaultRxBuffer = 16

// Driver adapts a SocketCAN bus to the device driver interface.
// Received extended-identifier and RTR frames are discarded, they
// never target a CANIOT device.
type Driver struct {
	bus   *can.Bus
	rx    chan caniot.Frame
	clock hosttime.Clock
}

// New open the named interface. Run must be called for frames to flow.
func New(ifName string, rxBuffer int) (*Driver, error) {
	bus, err := can.NewBusForInterfaceWithName(ifName)
	if err != nil {
		return nil, errors.Wrapf(err, "socketcan: open %s", ifName)
	}
	if rxBuffer <= 0 {
		rxBuffer = DefaultRxBuffer
	}
	sf := &Driver{
		bus: bus,
		rx:  make(chan caniot.Frame, rxBuffer),
	}
	bus.SubscribeFunc(sf.handle)
	return sf, nil
}

// Run pump the bus until Close. Blocking, run it on its own goroutine.
func (sf *Driver) Run() error {
	return sf.bus.ConnectAndPublish()
}

// Close disconnect from the bus.
func (sf *Driver) Close() error {
	return sf.bus.Disconnect()
}

func (sf *Driver) handle(frm can.Frame) {
	if frm.ID&(flagExtended|flagRTR) != 0 {
		return
	}
	var f caniot.Frame
	f.ID = caniot.ParseID(uint16(frm.ID & maskStandard))
	n := frm.Length
	if n > caniot.FramePayloadMax {
		n = caniot.FramePayloadMax
	}
	copy(f.Data[:], frm.Data[:n])
	f.Len = n
	select {
	case sf.rx <- f:
	default:
		// queue full, the frame is lost like on a saturated controller
	}
}

// Recv poll the receive queue.
func (sf *Driver) Recv(f *caniot.Frame) error {
	select {
	case frm := <-sf.rx:
		*f = frm
		return nil
	default:
		return caniot.ErrAgain
	}
}

// Send publish f after at least delayMS milliseconds.
func (sf *Driver) Send(f *caniot.Frame, delayMS uint32) error {
	if delayMS > 0 {
		time.Sleep(time.Duration(delayMS) * time.Millisecond)
	}
	frm := can.Frame{
		ID:     uint32(f.ID.Pack()),
		Length: f.Len,
	}
	copy(frm.Data[:], f.Payload())
	if err := sf.bus.Publish(frm); err != nil {
		return errors.Wrap(err, "socketcan: publish")
	}
	return nil
}

// GetTime sample the adjustable host clock.
func (sf *Driver) GetTime() (sec uint32, msec uint16) {
	return sf.clock.Now()
}

// SetTime move the adjustable host clock.
func (sf *Driver) SetTime(sec uint32) {
	sf.clock.Set(sec)
}

// Entropy fill b from the host randomness source.
func (sf *Driver) Entropy(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return errors.Wrap(err, "socketcan: entropy")
	}
	return nil
}
