package model

import (
	"fmt"
	"time"
)

// VirtualTime is a simulated timestamp in nanoseconds since the start of the
// run. Negative values mean "no such time" (see TimeNever).
type VirtualTime int64

const nanosPerSecond = int64(time.Second / time.Nanosecond)

const (
	TimeZero  VirtualTime = 0
	TimeNever VirtualTime = -1
)

func (t VirtualTime) TimeExists() bool {
	return t >= 0
}

func (t VirtualTime) String() string {
	if !t.TimeExists() {
		return "[never]"
	}
	ns := int64(t)
	return fmt.Sprintf("[%ds+%09dns]", ns/nanosPerSecond, ns%nanosPerSecond)
}

func (t VirtualTime) Before(t2 VirtualTime) bool {
	if !t.TimeExists() || !t2.TimeExists() {
		panic("times don't exist")
	}
	return t < t2
}

func (t VirtualTime) AtOrBefore(t2 VirtualTime) bool {
	if !t.TimeExists() || !t2.TimeExists() {
		panic("times don't exist")
	}
	return t <= t2
}

func (t VirtualTime) After(t2 VirtualTime) bool {
	return t2.Before(t)
}

func (t VirtualTime) AtOrAfter(t2 VirtualTime) bool {
	return t2.AtOrBefore(t)
}

func (t VirtualTime) Add(duration time.Duration) VirtualTime {
	if !t.TimeExists() {
		return t
	}
	t2 := t + VirtualTime(duration.Nanoseconds())
	if (duration > 0 && t2 < t) || (duration < 0 && t2 > t) {
		panic("virtual time wrapped around")
	}
	return t2
}

// Since computes the duration from base to t; base must be at or before t.
func (t VirtualTime) Since(base VirtualTime) time.Duration {
	if !t.TimeExists() || !base.TimeExists() {
		panic("times don't exist")
	}
	if base.After(t) {
		panic("base must be at or before t in Since")
	}
	return time.Duration(t-base) * time.Nanosecond
}

func (t VirtualTime) Nanoseconds() uint64 {
	return uint64(t)
}

func FromNanoseconds(ns uint64) (VirtualTime, bool) {
	vt := VirtualTime(ns)
	return vt, vt.TimeExists()
}
