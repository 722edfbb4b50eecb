// Package testpoint provides stimulus generation and lane taps for driving
// and observing simulated runs.
package testpoint

import (
	"math/rand"

	"github.com/tickwire/lanefeed/sim/feed"
	"github.com/tickwire/lanefeed/sim/lane"
)

var tickers = []string{
	"AAPL", "MSFT", "GOOG", "AMZN", "TSLA", "NVDA", "META", "NFLX",
	"INTC", "AMD\x00", "IBM\x00", "ORCL", "CSCO", "QCOM", "TXN\x00", "MU\x00\x00",
}

func packSymbol(ticker string) uint32 {
	if len(ticker) != 4 {
		panic("ticker must pack into exactly four bytes")
	}
	return uint32(ticker[0])<<24 | uint32(ticker[1])<<16 | uint32(ticker[2])<<8 | uint32(ticker[3])
}

// RandMessage generates a plausible quote message with a valid checksum.
func RandMessage(r *rand.Rand) feed.Message {
	m := feed.Message{
		Type:        feed.MsgTypeQuote,
		DeclaredLen: feed.BodyBytes,
		Symbol:      packSymbol(tickers[r.Intn(len(tickers))]),
		Price:       uint32(r.Intn(10_000_00) + 1), // hundredths by convention
		Quantity:    uint32(r.Intn(10_000) + 1),
	}
	return m.Sealed()
}

// CorruptChecksum returns the message with its trailing checksum forced to a
// value that cannot match the accumulated sum.
func CorruptChecksum(m feed.Message) feed.Message {
	m.Checksum = feed.SumChecksum(m.Symbol, m.Price, m.Quantity) + 1
	return m
}

// LegacyXorChecksum computes the exclusive-or of the three field words. The
// original stimulus generator used this rule, while the parser has always
// enforced the additive sum; the two only agree by coincidence. It is kept
// so tests can document that packets sealed this way are rejected.
func LegacyXorChecksum(m feed.Message) uint32 {
	return m.Symbol ^ m.Price ^ m.Quantity
}

// TuplesForMessage lays the message out as a complete frame on the lane:
// start delimiter, header, the field words, and the end-marked checksum
// tuple, followed by idlePadding idle tuples.
func TuplesForMessage(m feed.Message, idlePadding int) []lane.Tuple {
	words := m.FrameWords()
	tuples := make([]lane.Tuple, 0, len(words)+1+idlePadding)
	tuples = append(tuples, lane.Start())
	for _, w := range words[:len(words)-1] {
		tuples = append(tuples, lane.Payload(w))
	}
	tuples = append(tuples, lane.End(words[len(words)-1]))
	for i := 0; i < idlePadding; i++ {
		tuples = append(tuples, lane.Idle())
	}
	return tuples
}

// SliceSource replays a fixed tuple sequence and then idles forever. It
// implements lane.TupleSource.
type SliceSource struct {
	tuples []lane.Tuple
}

func MakeSliceSource(tuples []lane.Tuple) *SliceSource {
	return &SliceSource{tuples: tuples}
}

func (s *SliceSource) NextTuple() lane.Tuple {
	if len(s.tuples) == 0 {
		return lane.Idle()
	}
	t := s.tuples[0]
	s.tuples = s.tuples[1:]
	return t
}

// Drained reports whether the replay has been fully consumed.
func (s *SliceSource) Drained() bool {
	return len(s.tuples) == 0
}
