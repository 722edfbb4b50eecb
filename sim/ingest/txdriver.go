package ingest

import (
	"github.com/tickwire/lanefeed/sim/feed"
	"github.com/tickwire/lanefeed/sim/lane"
	"github.com/tickwire/lanefeed/sim/lane/framer"
)

// TxDriver feeds the transmit framer from a queue of messages, one field
// word per tick, and implements lane.TupleSource for the lane itself. It
// respects the framer's busy states, so a well-behaved run never trips the
// underflow flag.
type TxDriver struct {
	tx      *framer.TxFramer
	pending []feed.Message
	words   []uint32
}

func MakeTxDriver() *TxDriver {
	return &TxDriver{tx: framer.MakeTxFramer()}
}

func (d *TxDriver) Framer() *framer.TxFramer {
	return d.tx
}

// Enqueue schedules a message for transmission. The message goes out with
// whatever checksum it carries; corrupted checksums are transmitted
// faithfully.
func (d *TxDriver) Enqueue(msg feed.Message) {
	d.pending = append(d.pending, msg)
}

// Busy reports whether any message is still being clocked out.
func (d *TxDriver) Busy() bool {
	return len(d.words) > 0 || len(d.pending) > 0 || d.tx.State() != framer.StateIdle
}

// NextTuple produces the lane tuple for this tick.
func (d *TxDriver) NextTuple() lane.Tuple {
	if len(d.words) == 0 && len(d.pending) > 0 && d.tx.State() == framer.StateIdle {
		d.words = d.pending[0].FrameWords()
		d.pending = d.pending[1:]
	}

	var offer framer.TxWord
	switch d.tx.State() {
	case framer.StateIdle, framer.StateStarted, framer.StateInPayload:
		if len(d.words) > 0 {
			offer = framer.TxWord{
				Valid: true,
				Word:  d.words[0],
				Last:  len(d.words) == 1,
			}
		}
	default:
		// framer busy finishing or recovering; offer nothing
	}

	t, consumed := d.tx.Encode(offer)
	if consumed {
		d.words = d.words[1:]
	}
	return t
}

// Reset discards the in-flight message and resets the framer. Queued
// messages that have not begun transmission survive.
func (d *TxDriver) Reset() {
	d.words = nil
	d.tx.Reset()
}
