// Package ingest assembles the receive path (framer, parser, monitor) and
// the transmit path (driver, framer) into per-tick pipelines, and attaches
// them to a simulation context's clock.
package ingest

import (
	"github.com/tickwire/lanefeed/sim/component"
	"github.com/tickwire/lanefeed/sim/feed"
	"github.com/tickwire/lanefeed/sim/lane"
	"github.com/tickwire/lanefeed/sim/lane/framer"
	"github.com/tickwire/lanefeed/sim/model"
	"github.com/tickwire/lanefeed/sim/monitor"
)

// Pipeline is the receive direction: raw tuples in, parsed messages and
// counters out. It owns its framer, parser, and monitor; external callers
// observe the counters but never mutate them.
type Pipeline struct {
	rx     *framer.RxFramer
	parser *feed.Parser
	mon    *monitor.Monitor

	finalized   *component.EventDispatcher
	lastMessage feed.Message
	haveMessage bool

	// ready is probed once per tick; a false return while a payload word is
	// asserted trips the framer's sticky overflow
	ready func() bool
}

// MakePipeline builds the receive pipeline. onMessage (may be nil) receives
// every message whose checksum validated; observers that only need a poke
// can subscribe to Finalized instead.
func MakePipeline(ctx model.SimContext, onMessage func(feed.Message)) *Pipeline {
	p := &Pipeline{
		rx:        framer.MakeRxFramer(),
		mon:       monitor.MakeMonitor(),
		finalized: component.MakeEventDispatcher(ctx, "sim.ingest.Pipeline/Finalized"),
		ready:     func() bool { return true },
	}
	p.parser = feed.MakeParser(func(msg feed.Message) {
		p.mon.OnEvent(true, false)
		p.lastMessage = msg
		p.haveMessage = true
		if onMessage != nil {
			onMessage(msg)
		}
		p.finalized.DispatchLater()
	}, func() {
		p.mon.OnEvent(false, true)
		p.finalized.DispatchLater()
	})
	return p
}

// Finalized fires after any packet finalizes, as a completed message or as a
// flagged error; subscribers read the counters and LastMessage for detail.
func (p *Pipeline) Finalized() model.EventSource {
	return p.finalized
}

// LastMessage returns the most recently completed message, if any packet has
// completed yet.
func (p *Pipeline) LastMessage() (feed.Message, bool) {
	return p.lastMessage, p.haveMessage
}

// SetReadyProbe installs the consumer-readiness probe. The default consumer
// is always ready.
func (p *Pipeline) SetReadyProbe(ready func() bool) {
	p.ready = ready
}

// Step advances every receive-side machine exactly once, consuming one
// tuple.
func (p *Pipeline) Step(t lane.Tuple) feed.Output {
	ev := p.rx.Decode(t, p.ready())
	return p.parser.Step(ev)
}

// Reset is the synchronous reset: every state machine returns to its initial
// state and the sticky flags clear, discarding any in-flight packet without
// finalizing it. Counters are left alone.
func (p *Pipeline) Reset() {
	p.rx.Reset()
	p.parser.Reset()
}

func (p *Pipeline) Framer() *framer.RxFramer {
	return p.rx
}

func (p *Pipeline) Parser() *feed.Parser {
	return p.parser
}

func (p *Pipeline) Monitor() *monitor.Monitor {
	return p.mon
}
