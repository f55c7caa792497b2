// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package slcan implements the device driver interface over a LAWICEL
// SLCAN serial adapter.
package slcan

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"github.com/rob-gra/go-caniot/caniot"
	"github.com/rob-gra/go-caniot/driver/hosttime"
)

// Bitrate is a LAWICEL S command code.
type Bitrate byte

// The LAWICEL bitrate codes.
const (
	Bitrate10k Bitrate = iota
	Bitrate20k
	Bitrate50k
	Bitrate100k
	Bitrate125k
	Bitrate250k
	Bitrate500k
	Bitrate800k
	Bitrate1M
)

// Options configure an adapter.
type Options struct {
	// serial baud rate, default 115200
	Baud int
	// CAN bitrate code, default Bitrate500k
	Bitrate Bitrate
	// receive queue depth, default 16
	RxBuffer int
}

// Driver adapts an SLCAN serial port to the device driver interface.
// Extended-identifier and remote frames on the wire are discarded.
type Driver struct {
	port  *serial.Port
	rx    chan caniot.Frame
	done  chan struct{}
	clock hosttime.Clock
}

// Open the serial adapter, program the bitrate and open the channel.
func Open(name string, opts Options) (*Driver, error) {
	if opts.Baud == 0 {
		opts.Baud = 115200
	}
	if opts.Bitrate == 0 {
		opts.Bitrate = Bitrate500k
	}
	if opts.RxBuffer <= 0 {
		opts.RxBuffer = 16
	}

	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: opts.Baud})
	if err != nil {
		return nil, errors.Wrapf(err, "slcan: open %s", name)
	}
	sf := &Driver{
		port: port,
		rx:   make(chan caniot.Frame, opts.RxBuffer),
		done: make(chan struct{}),
	}
	// close a possibly open channel before reprogramming
	for _, cmd := range []string{"C\r", fmt.Sprintf("S%d\r", opts.Bitrate), "O\r"} {
		if _, err := port.Write([]byte(cmd)); err != nil {
			port.Close()
			return nil, errors.Wrap(err, "slcan: setup")
		}
	}
	go sf.reader()
	return sf, nil
}

// Close the channel and the serial port.
func (sf *Driver) Close() error {
	close(sf.done)
	sf.port.Write([]byte("C\r"))
	return sf.port.Close()
}

// reader splits the byte stream on carriage returns and queues decoded
// standard data frames.
func (sf *Driver) reader() {
	sc := bufio.NewScanner(sf.port)
	sc.Split(splitCR)
	for sc.Scan() {
		select {
		case <-sf.done:
			return
		default:
		}
		f, ok := decodeFrame(sc.Bytes())
		if !ok {
			continue
		}
		select {
		case sf.rx <- f:
		default:
		}
	}
}

func splitCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == '\r' || b == '\x07' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// decodeFrame parse one "tiiildd.." line. Anything but a standard data
// frame is ignored.
func decodeFrame(line []byte) (caniot.Frame, bool) {
	var f caniot.Frame
	if len(line) < 5 || line[0] != 't' {
		return f, false
	}
	var id uint16
	if _, err := fmt.Sscanf(string(line[1:4]), "%03x", &id); err != nil {
		return f, false
	}
	n := int(line[4] - '0')
	if n > caniot.FramePayloadMax || len(line) < 5+2*n {
		return f, false
	}
	if _, err := hex.Decode(f.Data[:n], line[5:5+2*n]); err != nil {
		return f, false
	}
	f.ID = caniot.ParseID(id & 0x7ff)
	f.Len = uint8(n)
	return f, true
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

// Send write f to the adapter after at least delayMS milliseconds.
func (sf *Driver) Send(f *caniot.Frame, delayMS uint32) error {
	if delayMS > 0 {
		time.Sleep(time.Duration(delayMS) * time.Millisecond)
	}
	line := make([]byte, 0, 5+2*caniot.FramePayloadMax+1)
	line = append(line, fmt.Sprintf("t%03x%d", f.ID.Pack(), f.Len)...)
	line = append(line, hex.EncodeToString(f.Payload())...)
	line = append(line, '\r')
	if _, err := sf.port.Write(line); err != nil {
		return errors.Wrap(err, "slcan: write")
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
		return errors.Wrap(err, "slcan: entropy")
	}
	return nil
}
