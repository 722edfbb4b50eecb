package lane

import (
	"fmt"
	"strings"
)

// The lane delivers exactly one Tuple per tick: a fixed-width data word plus
// a control mask marking which bytes carry framing characters instead of
// payload. An all-zero tuple is the idle pattern.

// WidthBytes is the lane width in bytes (a 64-bit data word).
const WidthBytes = 8

const (
	// DelimStart marks the beginning of a frame when flagged as control.
	DelimStart byte = 0xFB
	// DelimEnd marks the end of a frame when flagged as control.
	DelimEnd byte = 0xFD
)

// Field words are one tuple wide and occupy the low four bytes of the lane.
const FieldBytes = 4

// EndMarkByte is the byte position carrying the end delimiter on the final
// tuple of a frame; the checksum word rides in the payload bytes below it.
const EndMarkByte = FieldBytes

type Tuple struct {
	Data    uint64
	Control uint8
}

// Idle returns the idle pattern: all-zero data, no control bytes.
func Idle() Tuple {
	return Tuple{}
}

// Start returns the start-of-frame tuple: the start delimiter in byte 0,
// flagged as control. It carries no payload.
func Start() Tuple {
	return Tuple{Data: uint64(DelimStart), Control: 1 << 0}
}

// Payload returns a pure payload tuple carrying one field word.
func Payload(word uint32) Tuple {
	return Tuple{Data: uint64(word)}
}

// End returns the final tuple of a frame: the trailing word (the checksum)
// in the payload bytes, with the end delimiter flagged at EndMarkByte.
func End(word uint32) Tuple {
	return Tuple{
		Data:    uint64(word) | uint64(DelimEnd)<<(8*EndMarkByte),
		Control: 1 << EndMarkByte,
	}
}

func (t Tuple) Byte(i int) byte {
	if i < 0 || i >= WidthBytes {
		panic("byte index out of lane width")
	}
	return byte(t.Data >> (8 * uint(i)))
}

func (t Tuple) ControlAt(i int) bool {
	if i < 0 || i >= WidthBytes {
		panic("byte index out of lane width")
	}
	return t.Control&(1<<uint(i)) != 0
}

func (t Tuple) IsIdle() bool {
	return t.Data == 0 && t.Control == 0
}

// Word extracts the field word carried in the payload bytes.
func (t Tuple) Word() uint32 {
	return uint32(t.Data)
}

// MarksStart reports whether this tuple opens a frame: the start delimiter
// in byte 0, flagged as control.
func (t Tuple) MarksStart() bool {
	return t.ControlAt(0) && t.Byte(0) == DelimStart
}

// MarksEnd reports whether any control byte carries the end delimiter.
func (t Tuple) MarksEnd() bool {
	for i := 0; i < WidthBytes; i++ {
		if t.ControlAt(i) && t.Byte(i) == DelimEnd {
			return true
		}
	}
	return false
}

func (t Tuple) String() string {
	if t.IsIdle() {
		return "IDLE"
	}
	var sb strings.Builder
	for i := WidthBytes - 1; i >= 0; i-- {
		if t.ControlAt(i) {
			switch t.Byte(i) {
			case DelimStart:
				sb.WriteString("SOF")
			case DelimEnd:
				sb.WriteString("EOF")
			default:
				fmt.Fprintf(&sb, "C%02x", t.Byte(i))
			}
		} else {
			fmt.Fprintf(&sb, "%02x", t.Byte(i))
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// TupleSource produces the lane's input, one tuple per tick. A source that
// has nothing to send produces the idle pattern; it never blocks.
type TupleSource interface {
	NextTuple() Tuple
}

// TupleSink consumes the lane's output, one tuple per tick.
type TupleSink interface {
	PutTuple(t Tuple)
}
