package model

import "math/rand"

// SimContext is the handle every simulated component holds on the simulation
// kernel: the current virtual time, timer scheduling, and a deterministic
// random source for stimulus generation.
type SimContext interface {
	Now() VirtualTime
	// SetTimer schedules callback to run once virtual time reaches expireAt.
	// The name is used for diagnostics only.
	SetTimer(expireAt VirtualTime, name string, callback func()) (cancel func())
	// Later schedules callback to run at the current virtual time, after the
	// currently executing callback returns.
	Later(name string, callback func()) (cancel func())
	Rand() *rand.Rand
}

type EventSource interface {
	Subscribe(callback func()) (cancel func())
}
