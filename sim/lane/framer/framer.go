// Package framer contains the two frame-boundary state machines that sit on
// either end of the byte lane: RxFramer recovers payload words from the raw
// tuple stream, and TxFramer builds the raw tuple stream from payload words.
//
// Both machines step exactly once per tick and never block: when the far side
// cannot keep up, the affected direction drops the tick's data, raises its
// sticky flag, and recovers on its own.
package framer

import "github.com/tickwire/lanefeed/sim/lane"

type FrameState uint8

const (
	StateIdle FrameState = iota
	StateStarted
	StateInPayload
	StateEnded
	StateError
)

func (s FrameState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStarted:
		return "Started"
	case StateInPayload:
		return "InPayload"
	case StateEnded:
		return "Ended"
	case StateError:
		return "Error"
	default:
		panic("invalid frame state")
	}
}

// DecodedEvent is the receive framer's output for one tick. Valid means
// Payload carries one field word this tick. StartOfPacket accompanies the
// first payload word of a frame (the header); EndOfPacket accompanies the
// last (the trailing checksum). Faulted means the frame machine spent this
// tick in the Error state and any data on the lane was discarded; a Faulted
// event never carries Valid payload.
type DecodedEvent struct {
	Valid         bool
	Payload       uint32
	StartOfPacket bool
	EndOfPacket   bool
	Faulted       bool
}

// RxFramer detects frame boundaries in the incoming tuple stream.
type RxFramer struct {
	state       FrameState
	packetCount uint16
	overflow    bool
}

func MakeRxFramer() *RxFramer {
	return &RxFramer{state: StateIdle}
}

func (rx *RxFramer) State() FrameState {
	return rx.state
}

// PacketCount is the number of complete frames received; it wraps at 16 bits.
func (rx *RxFramer) PacketCount() uint16 {
	return rx.packetCount
}

// Overflowed reports the sticky overflow flag: a payload word was asserted
// while the consumer was not ready. Once set it stays set until Reset.
func (rx *RxFramer) Overflowed() bool {
	return rx.overflow
}

// Reset forces the machine back to Idle and clears the sticky overflow flag.
// The packet counter is deliberately left alone: a reset discards in-flight
// data without any counter change.
func (rx *RxFramer) Reset() {
	rx.state = StateIdle
	rx.overflow = false
}

// Decode consumes one tuple and advances the frame machine one tick.
// consumerReady is sampled every tick regardless of state; a payload word
// produced while the consumer is not ready is dropped and sends the machine
// to Error, which raises the sticky overflow flag on the following tick.
func (rx *RxFramer) Decode(t lane.Tuple, consumerReady bool) DecodedEvent {
	var ev DecodedEvent

	switch rx.state {
	case StateIdle:
		if t.MarksStart() {
			// the start tuple carries no payload; the header word follows
			rx.state = StateStarted
		}
		// anything else while idle is line noise; stay put

	case StateStarted:
		if stray(t) {
			rx.state = StateIdle
			break
		}
		ev.Valid = true
		ev.Payload = t.Word()
		ev.StartOfPacket = true
		if t.MarksEnd() {
			ev.EndOfPacket = true
			rx.state = StateEnded
		} else {
			rx.state = StateInPayload
		}

	case StateInPayload:
		if stray(t) {
			// control byte where payload was expected: framing error,
			// recovered locally by returning to Idle
			rx.state = StateIdle
			break
		}
		ev.Valid = true
		ev.Payload = t.Word()
		if t.MarksEnd() {
			ev.EndOfPacket = true
			rx.state = StateEnded
		}

	case StateEnded:
		rx.state = StateIdle

	case StateError:
		ev.Faulted = true
		rx.overflow = true
		rx.state = StateIdle

	default:
		panic("invalid frame state in Decode")
	}

	if ev.Valid && !consumerReady {
		// fire and flag: the word is lost, never buffered
		rx.state = StateError
		return DecodedEvent{Faulted: true}
	}
	if ev.EndOfPacket {
		rx.packetCount++
	}
	return ev
}

// stray reports a control byte where payload was expected: inside a frame
// the only legal tuples are pure payload and the end-marked final tuple.
// A start delimiter mid-frame is just as illegal as any other control byte.
func stray(t lane.Tuple) bool {
	return t.Control != 0 && !t.MarksEnd()
}
