// Package feed extracts market-data messages from the decoded payload-word
// stream of a single lane direction.
package feed

import "fmt"

// Wire layout of one frame, one field word per tuple:
//
//	header:   byte 0 = message type, bits 8-23 = declared payload length
//	symbol:   opaque 4-byte tag, usually an ASCII-packed ticker
//	price:    unsigned; fixed-point scaling is the caller's convention
//	quantity: unsigned
//	checksum: additive sum of the symbol, price, and quantity words, mod 2^32

// MsgTypeQuote is the only message type currently generated; the parser
// captures the type byte but does not dispatch on it.
const MsgTypeQuote byte = 0x01

// BodyBytes is the payload length a well-formed frame declares: the four
// field words following the header. The declared length is advisory and is
// never enforced against the actual field count.
const BodyBytes = 16

// Message is one extracted market-data record. It is only produced once its
// trailing checksum validated; partial messages never escape the parser.
type Message struct {
	Type        byte
	DeclaredLen uint16
	Symbol      uint32
	Price       uint32
	Quantity    uint32
	Checksum    uint32
}

// SumChecksum computes the wire checksum rule: the additive sum of the three
// field words, wrapping at 32 bits.
func SumChecksum(symbol, price, quantity uint32) uint32 {
	return symbol + price + quantity
}

// Sealed returns m with its checksum recomputed to match its fields.
func (m Message) Sealed() Message {
	m.Checksum = SumChecksum(m.Symbol, m.Price, m.Quantity)
	return m
}

// HeaderWord builds the frame's header field word.
func (m Message) HeaderWord() uint32 {
	return uint32(m.Type) | uint32(m.DeclaredLen)<<8
}

// FrameWords lays the message out as the field words of one frame, in wire
// order. The final word is the trailing checksum.
func (m Message) FrameWords() []uint32 {
	return []uint32{m.HeaderWord(), m.Symbol, m.Price, m.Quantity, m.Checksum}
}

// SymbolString renders the symbol tag as text, for logs.
func (m Message) SymbolString() string {
	b := []byte{byte(m.Symbol >> 24), byte(m.Symbol >> 16), byte(m.Symbol >> 8), byte(m.Symbol)}
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08x", m.Symbol)
		}
	}
	return string(b)
}

func (m Message) String() string {
	return fmt.Sprintf("Message{%s price=%d qty=%d}", m.SymbolString(), m.Price, m.Quantity)
}
