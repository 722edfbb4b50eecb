package framer

import (
	"testing"

	"github.com/tickwire/lanefeed/sim/lane"
)

func playFrame(t *testing.T, rx *RxFramer, words []uint32, idlePadding int) (events []DecodedEvent) {
	t.Helper()
	tuples := []lane.Tuple{lane.Start()}
	for _, w := range words[:len(words)-1] {
		tuples = append(tuples, lane.Payload(w))
	}
	tuples = append(tuples, lane.End(words[len(words)-1]))
	for i := 0; i < idlePadding; i++ {
		tuples = append(tuples, lane.Idle())
	}
	for _, tu := range tuples {
		events = append(events, rx.Decode(tu, true))
	}
	return events
}

func TestRxPacketCountIndependentOfIdlePadding(t *testing.T) {
	words := []uint32{0x00100001, 0x41415042, 0x1234, 0x10, 0x41415042 + 0x1234 + 0x10}
	for _, padding := range []int{0, 1, 7, 100} {
		rx := MakeRxFramer()
		const frames = 5
		for i := 0; i < frames; i++ {
			playFrame(t, rx, words, padding)
		}
		if rx.PacketCount() != frames {
			t.Errorf("padding %d: expected %d frames counted, got %d", padding, frames, rx.PacketCount())
		}
		if rx.State() != StateIdle {
			t.Errorf("padding %d: expected Idle after playback, got %v", padding, rx.State())
		}
		if rx.Overflowed() {
			t.Errorf("padding %d: overflow flag set on a clean run", padding)
		}
	}
}

func TestRxEventFlags(t *testing.T) {
	rx := MakeRxFramer()
	words := []uint32{0xA1, 0xB2, 0xC3, 0xD4, 0xE5}
	events := playFrame(t, rx, words, 2)

	// start tuple: no payload yet
	if events[0].Valid || events[0].StartOfPacket {
		t.Errorf("start tuple should not carry payload: %+v", events[0])
	}
	// header word: first payload, start-of-packet
	if !events[1].Valid || !events[1].StartOfPacket || events[1].Payload != 0xA1 {
		t.Errorf("header event wrong: %+v", events[1])
	}
	// middle words: plain payload
	for i := 2; i <= 4; i++ {
		ev := events[i]
		if !ev.Valid || ev.StartOfPacket || ev.EndOfPacket || ev.Payload != words[i-1] {
			t.Errorf("payload event %d wrong: %+v", i, ev)
		}
	}
	// trailing word: end-of-packet with the checksum payload
	if !events[5].Valid || !events[5].EndOfPacket || events[5].Payload != 0xE5 {
		t.Errorf("end event wrong: %+v", events[5])
	}
	// idle ticks after the frame produce nothing
	for i := 6; i < len(events); i++ {
		if events[i].Valid || events[i].EndOfPacket {
			t.Errorf("idle event %d should be empty: %+v", i, events[i])
		}
	}
}

func TestRxOverflowSticky(t *testing.T) {
	rx := MakeRxFramer()
	rx.Decode(lane.Start(), false) // start tuple: no payload, not-ready is harmless
	if rx.State() != StateStarted {
		t.Fatalf("expected Started, got %v", rx.State())
	}
	ev := rx.Decode(lane.Payload(0x11), false)
	if ev.Valid {
		t.Error("word must be dropped when the consumer is not ready")
	}
	if rx.State() != StateError {
		t.Fatalf("expected Error, got %v", rx.State())
	}
	if rx.Overflowed() {
		t.Error("overflow flag should be raised on the tick after entering Error")
	}
	ev = rx.Decode(lane.Idle(), true)
	if !ev.Faulted {
		t.Error("the Error-state tick should report Faulted")
	}
	if !rx.Overflowed() {
		t.Fatal("overflow flag should now be set")
	}
	if rx.State() != StateIdle {
		t.Errorf("expected Idle after Error, got %v", rx.State())
	}

	// sticky across subsequent ticks, ready or not
	for i := 0; i < 20; i++ {
		rx.Decode(lane.Idle(), true)
		if !rx.Overflowed() {
			t.Fatalf("overflow flag cleared itself at tick %d", i)
		}
	}
	playFrame(t, rx, []uint32{1, 2, 3, 4, 10}, 0)
	if !rx.Overflowed() {
		t.Error("overflow flag cleared by a later clean frame")
	}

	rx.Reset()
	if rx.Overflowed() {
		t.Error("explicit reset should clear the overflow flag")
	}
	if rx.PacketCount() == 0 {
		t.Error("reset should not clear the packet counter")
	}
}

func TestRxStrayControlRecovers(t *testing.T) {
	rx := MakeRxFramer()
	rx.Decode(lane.Start(), true)
	rx.Decode(lane.Payload(0xA1), true)
	// a start delimiter mid-frame is a framing error
	ev := rx.Decode(lane.Start(), true)
	if ev.Valid {
		t.Error("stray control tuple must not produce payload")
	}
	if rx.State() != StateIdle {
		t.Fatalf("expected recovery to Idle, got %v", rx.State())
	}
	if rx.PacketCount() != 0 {
		t.Error("aborted frame must not be counted")
	}
	// a fresh frame parses normally afterwards
	playFrame(t, rx, []uint32{1, 2, 3, 4, 10}, 0)
	if rx.PacketCount() != 1 {
		t.Errorf("expected 1 frame after recovery, got %d", rx.PacketCount())
	}
}

func TestTxEncodeFrameShape(t *testing.T) {
	tx := MakeTxFramer()
	words := []uint32{0x00100001, 0x42, 0x43, 0x44, 0xC9}

	var tuples []lane.Tuple
	remaining := words
	for len(remaining) > 0 {
		offer := TxWord{Valid: true, Word: remaining[0], Last: len(remaining) == 1}
		tu, consumed := tx.Encode(offer)
		tuples = append(tuples, tu)
		if consumed {
			remaining = remaining[1:]
		}
	}
	// drain Ended back to Idle without pushing
	tu, _ := tx.Encode(TxWord{})
	tuples = append(tuples, tu)

	if !tuples[0].MarksStart() {
		t.Errorf("first tuple should be the start delimiter: %v", tuples[0])
	}
	for i := 1; i <= 4; i++ {
		if tuples[i].Control != 0 || tuples[i].Word() != words[i-1] {
			t.Errorf("tuple %d should be payload word %08x: %v", i, words[i-1], tuples[i])
		}
	}
	if !tuples[5].MarksEnd() || tuples[5].Word() != 0xC9 {
		t.Errorf("final tuple should carry the checksum with the end mark: %v", tuples[5])
	}
	if !tuples[6].IsIdle() {
		t.Errorf("tuple after the frame should be idle: %v", tuples[6])
	}
	if tx.PacketCount() != 1 {
		t.Errorf("expected 1 frame counted, got %d", tx.PacketCount())
	}
	if tx.State() != StateIdle {
		t.Errorf("expected Idle, got %v", tx.State())
	}
	if tx.Underflowed() {
		t.Error("underflow flag set on a clean transmission")
	}
}

func TestTxUnderflowSticky(t *testing.T) {
	tx := MakeTxFramer()
	tx.Encode(TxWord{Valid: true, Word: 1}) // Idle -> Started
	tx.Encode(TxWord{Valid: true, Word: 1}) // first word out
	// starve mid-frame
	tx.Encode(TxWord{})
	if tx.State() != StateError {
		t.Fatalf("expected Error after starvation, got %v", tx.State())
	}
	tx.Encode(TxWord{})
	if !tx.Underflowed() {
		t.Fatal("underflow flag should be set after the Error tick")
	}
	if tx.State() != StateIdle {
		t.Errorf("expected Idle after Error, got %v", tx.State())
	}
	for i := 0; i < 10; i++ {
		tx.Encode(TxWord{})
		if !tx.Underflowed() {
			t.Fatalf("underflow flag cleared itself at tick %d", i)
		}
	}
	tx.Reset()
	if tx.Underflowed() {
		t.Error("explicit reset should clear the underflow flag")
	}
}

func TestTxRejectsPushWhileEnded(t *testing.T) {
	tx := MakeTxFramer()
	tx.Encode(TxWord{Valid: true, Word: 5, Last: true}) // Idle -> Started
	tx.Encode(TxWord{Valid: true, Word: 5, Last: true}) // emits end tuple
	if tx.State() != StateEnded {
		t.Fatalf("expected Ended, got %v", tx.State())
	}
	// pushing during Ended is a protocol violation by the producer
	tx.Encode(TxWord{Valid: true, Word: 6})
	if tx.State() != StateError {
		t.Fatalf("expected Error, got %v", tx.State())
	}
	tx.Encode(TxWord{})
	if !tx.Underflowed() {
		t.Error("underflow flag should be set")
	}
}

func TestPacketCountersWrapAt16Bits(t *testing.T) {
	rx := MakeRxFramer()
	rx.packetCount = 0xFFFE
	words := []uint32{0x00100001, 0x42, 0x43, 0x44, 0xC9}
	for i := 0; i < 3; i++ {
		playFrame(t, rx, words, 1)
	}
	// 0xFFFE + 3 wraps past zero; wraparound is expected, not an error
	if rx.PacketCount() != 1 {
		t.Errorf("expected rx counter to wrap to 1, got %d", rx.PacketCount())
	}
	if rx.Overflowed() {
		t.Error("counter wraparound must not raise the overflow flag")
	}

	tx := MakeTxFramer()
	tx.packetCount = 0xFFFF
	remaining := words
	for len(remaining) > 0 {
		_, consumed := tx.Encode(TxWord{Valid: true, Word: remaining[0], Last: len(remaining) == 1})
		if consumed {
			remaining = remaining[1:]
		}
	}
	if tx.PacketCount() != 0 {
		t.Errorf("expected tx counter to wrap to 0, got %d", tx.PacketCount())
	}
	if tx.Underflowed() {
		t.Error("counter wraparound must not raise the underflow flag")
	}
}

func TestFrameStateStrings(t *testing.T) {
	names := map[FrameState]string{
		StateIdle:      "Idle",
		StateStarted:   "Started",
		StateInPayload: "InPayload",
		StateEnded:     "Ended",
		StateError:     "Error",
	}
	for state, want := range names {
		if state.String() != want {
			t.Errorf("state %d: expected %q, got %q", state, want, state.String())
		}
	}
}
