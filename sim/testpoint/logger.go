package testpoint

import (
	"log"
	"strings"
	"time"

	"github.com/tickwire/lanefeed/sim/lane"
	"github.com/tickwire/lanefeed/sim/model"
)

// LaneLogger is a lane tap that logs the tuples flowing past it, batching
// them into readable lines. Idle tuples are elided (the lane is mostly
// idle); a count of skipped idles is printed instead.
type LaneLogger struct {
	ctx        model.SimContext
	name       string
	inner      lane.TupleSource
	line       string
	idleRun    int
	flushTimer func()
	flushDelay time.Duration
}

// MakeLoggingSource wraps a tuple source so that everything it produces is
// logged under the given name.
func MakeLoggingSource(ctx model.SimContext, name string, inner lane.TupleSource, flushDelay time.Duration) *LaneLogger {
	return &LaneLogger{
		ctx:        ctx,
		name:       name,
		inner:      inner,
		flushDelay: flushDelay,
	}
}

var _ lane.TupleSource = &LaneLogger{}

func (l *LaneLogger) NextTuple() lane.Tuple {
	t := l.inner.NextTuple()
	l.observe(t)
	return t
}

func (l *LaneLogger) observe(t lane.Tuple) {
	if l.flushTimer != nil {
		l.flushTimer()
		l.flushTimer = nil
	}
	if t.IsIdle() {
		l.idleRun++
	} else {
		if l.idleRun > 0 {
			l.line += "(idle) "
			l.idleRun = 0
		}
		l.line += "[" + t.String() + "] "
	}
	if len(l.line) >= 100 {
		l.flush()
	}
	if len(l.line) > 0 {
		l.flushTimer = l.ctx.SetTimer(l.ctx.Now().Add(l.flushDelay), "sim.testpoint.LaneLogger/Flush", func() {
			l.flush()
		})
	}
}

func (l *LaneLogger) flush() {
	log.Printf("%v [%s] LANE: %s\n", l.ctx.Now(), l.name, strings.TrimRight(l.line, " "))
	l.line = ""
}
