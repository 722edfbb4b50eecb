package framer

import "github.com/tickwire/lanefeed/sim/lane"

// TxWord is the producer's offering to the transmit framer for one tick.
// Valid means Word carries one field word; Last marks the trailing checksum
// word, which the framer emits together with the end delimiter.
type TxWord struct {
	Valid bool
	Word  uint32
	Last  bool
}

// TxFramer builds the outgoing tuple stream from a producer's payload words.
// It mirrors RxFramer: one tuple out per tick, no blocking. A producer that
// starves the framer mid-frame, or pushes while the framer cannot accept,
// sends the machine to Error and raises the sticky underflow flag.
type TxFramer struct {
	state       FrameState
	packetCount uint16
	underflow   bool
}

func MakeTxFramer() *TxFramer {
	return &TxFramer{state: StateIdle}
}

func (tx *TxFramer) State() FrameState {
	return tx.state
}

// PacketCount is the number of complete frames emitted; it wraps at 16 bits.
func (tx *TxFramer) PacketCount() uint16 {
	return tx.packetCount
}

// Underflowed reports the sticky underflow flag. Once set it stays set until
// Reset.
func (tx *TxFramer) Underflowed() bool {
	return tx.underflow
}

// Reset forces the machine back to Idle and clears the sticky underflow
// flag, leaving the packet counter alone.
func (tx *TxFramer) Reset() {
	tx.state = StateIdle
	tx.underflow = false
}

// Encode advances the machine one tick and produces the tuple for the lane.
// consumed reports whether in.Word was taken this tick; a producer whose
// word was not consumed must offer it again on the next tick.
func (tx *TxFramer) Encode(in TxWord) (t lane.Tuple, consumed bool) {
	switch tx.state {
	case StateIdle:
		if in.Valid {
			// open the frame; the word itself goes out next tick
			tx.state = StateStarted
			return lane.Start(), false
		}
		return lane.Idle(), false

	case StateStarted:
		if !in.Valid {
			// starved immediately after the start delimiter
			tx.state = StateError
			return lane.Idle(), false
		}
		if in.Last {
			tx.state = StateEnded
			tx.packetCount++
			return lane.End(in.Word), true
		}
		tx.state = StateInPayload
		return lane.Payload(in.Word), true

	case StateInPayload:
		if !in.Valid {
			tx.state = StateError
			return lane.Idle(), false
		}
		if in.Last {
			tx.state = StateEnded
			tx.packetCount++
			return lane.End(in.Word), true
		}
		return lane.Payload(in.Word), true

	case StateEnded:
		if in.Valid {
			// send request while the frame generator cannot accept it
			tx.state = StateError
			return lane.Idle(), false
		}
		tx.state = StateIdle
		return lane.Idle(), false

	case StateError:
		tx.underflow = true
		tx.state = StateIdle
		return lane.Idle(), false

	default:
		panic("invalid frame state in Encode")
	}
}
