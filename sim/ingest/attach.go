package ingest

import (
	"time"

	"github.com/tickwire/lanefeed/sim/lane"
	"github.com/tickwire/lanefeed/sim/model"
	"github.com/tickwire/lanefeed/sim/monitor"
)

// AttachLane clocks the lane: once per tickInterval it pulls one tuple from
// the source and steps the pipeline with it. Returns a cancel function that
// stops the clock.
func AttachLane(ctx model.SimContext, src lane.TupleSource, p *Pipeline, tickInterval time.Duration) (cancel func()) {
	stopped := false
	var tick func()
	tick = func() {
		if stopped {
			return
		}
		p.Step(src.NextTuple())
		ctx.SetTimer(ctx.Now().Add(tickInterval), "sim.ingest.AttachLane/Tick", tick)
	}
	ctx.Later("sim.ingest.AttachLane/Begin", tick)
	return func() {
		stopped = true
	}
}

// AttachSampler closes the pipeline monitor's sampling window every
// window interval and hands the sampled stats to the callback. This is the
// external periodic boundary tick of the throughput measurement.
func AttachSampler(ctx model.SimContext, p *Pipeline, window time.Duration, sampled func(ctx model.SimContext, s monitor.Stats)) (cancel func()) {
	stopped := false
	var boundary func()
	boundary = func() {
		if stopped {
			return
		}
		sampled(ctx, p.Monitor().Sample(true))
		ctx.SetTimer(ctx.Now().Add(window), "sim.ingest.AttachSampler/Boundary", boundary)
	}
	ctx.SetTimer(ctx.Now().Add(window), "sim.ingest.AttachSampler/Begin", boundary)
	return func() {
		stopped = true
	}
}
