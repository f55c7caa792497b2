// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package hosttime provides the settable wall clock shared by the host
// driver implementations.
package hosttime

import (
	"sync"
	"time"
)

// Clock is the host wall clock with an adjustable offset, so a device
// writing its time attribute does not touch the system clock.
type Clock struct {
	mu     sync.Mutex
	offset time.Duration
}

// Now sample the clock, seconds and milliseconds.
func (sf *Clock) Now() (sec uint32, msec uint16) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	now := time.Now().Add(sf.offset)
	return uint32(now.Unix()), uint16(now.Nanosecond() / int(time.Millisecond))
}

// Set move the clock to sec by adjusting the offset.
func (sf *Clock) Set(sec uint32) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	now := time.Now().Add(sf.offset)
	sf.offset += time.Duration(int64(sec)-now.Unix()) * time.Second
}
