package feed

import "github.com/tickwire/lanefeed/sim/lane/framer"

type ParserState uint8

const (
	StateHeader ParserState = iota
	StateSymbol
	StatePrice
	StateQuantity
	StateChecksum
)

func (s ParserState) String() string {
	switch s {
	case StateHeader:
		return "Header"
	case StateSymbol:
		return "Symbol"
	case StatePrice:
		return "Price"
	case StateQuantity:
		return "Quantity"
	case StateChecksum:
		return "Checksum"
	default:
		panic("invalid parser state")
	}
}

// Output is the parser's externally visible state after a tick. PriceValid
// is true only strictly between the price field being captured and the
// trailing checksum resolving. Errored is sticky: the parser sets it and
// never clears it on its own; a monitoring component decides when to call
// ClearError.
type Output struct {
	Symbol     uint32
	Price      uint32
	PriceValid bool
	Processed  uint32
	Errored    bool
}

// Parser is the five-state field extractor. It consumes one DecodedEvent per
// tick, captures exactly one field per payload word, accumulates the
// checksum over the symbol, price, and quantity words, and finalizes the
// message on the tick where the Checksum state and EndOfPacket coincide.
//
// onMessage (may be nil) is invoked with each completed message; onError
// (may be nil) is invoked once per packet that fails, whether by checksum
// mismatch or by a malformed sequence.
type Parser struct {
	state     ParserState
	onMessage func(Message)
	onError   func()

	building  Message
	checksum  uint32
	processed uint32
	errored   bool
	out       Output
}

func MakeParser(onMessage func(Message), onError func()) *Parser {
	return &Parser{
		state:     StateHeader,
		onMessage: onMessage,
		onError:   onError,
	}
}

func (p *Parser) State() ParserState {
	return p.state
}

// Output returns the current externally visible state without consuming a
// tick.
func (p *Parser) Output() Output {
	return p.out
}

// Errored reports the sticky parser error flag.
func (p *Parser) Errored() bool {
	return p.errored
}

// ClearError clears the sticky error flag and nothing else.
func (p *Parser) ClearError() {
	p.errored = false
	p.out.Errored = false
}

// Reset discards any in-flight message without finalizing it: no counter
// change, no callback. The sticky error flag is cleared as well; processed
// message and field outputs from already-finalized messages survive.
func (p *Parser) Reset() {
	p.state = StateHeader
	p.building = Message{}
	p.checksum = 0
	p.errored = false
	p.out.PriceValid = false
	p.out.Errored = false
}

// Step consumes one decoded event and advances the machine one tick.
func (p *Parser) Step(ev framer.DecodedEvent) Output {
	if ev.Faulted {
		// input arrived with the frame machine in Error: mid-message that is
		// a malformed sequence; in Header no transition was attempted
		if p.state != StateHeader {
			p.fail()
		}
		return p.out
	}

	if ev.StartOfPacket {
		// no cross-packet contamination, regardless of current state
		p.checksum = 0
		if p.state != StateHeader {
			// start of a fresh frame while mid-message: malformed sequence;
			// the fresh header is consumed by the recovery
			p.fail()
			return p.out
		}
	}

	if !ev.Valid {
		return p.out
	}

	switch p.state {
	case StateHeader:
		if !ev.StartOfPacket {
			// non-start input waits in Header
			break
		}
		p.building = Message{
			Type:        byte(ev.Payload),
			DeclaredLen: uint16(ev.Payload >> 8),
		}
		p.state = StateSymbol

	case StateSymbol:
		if ev.EndOfPacket {
			p.fail()
			break
		}
		p.building.Symbol = ev.Payload
		p.checksum += ev.Payload
		p.out.Symbol = ev.Payload
		p.state = StatePrice

	case StatePrice:
		if ev.EndOfPacket {
			p.fail()
			break
		}
		p.building.Price = ev.Payload
		p.checksum += ev.Payload
		p.out.Price = ev.Payload
		p.out.PriceValid = true
		p.state = StateQuantity

	case StateQuantity:
		if ev.EndOfPacket {
			p.fail()
			break
		}
		p.building.Quantity = ev.Payload
		p.checksum += ev.Payload
		p.state = StateChecksum

	case StateChecksum:
		if !ev.EndOfPacket {
			// extra payload before the end marker is length padding; no
			// further field capture occurs
			break
		}
		if ev.Payload == p.checksum {
			p.building.Checksum = ev.Payload
			p.processed++
			p.out.Processed = p.processed
			p.out.PriceValid = false
			p.state = StateHeader
			if p.onMessage != nil {
				p.onMessage(p.building)
			}
		} else {
			p.fail()
		}

	default:
		panic("invalid parser state in Step")
	}

	return p.out
}

// fail records a packet-level failure: sticky error flag, price no longer
// valid, machine back to Header.
func (p *Parser) fail() {
	p.errored = true
	p.out.Errored = true
	p.out.PriceValid = false
	p.state = StateHeader
	if p.onError != nil {
		p.onError()
	}
}
