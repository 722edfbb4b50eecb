package main

import (
	"flag"
	"log"
	"time"

	"github.com/tickwire/lanefeed/sim/component"
	"github.com/tickwire/lanefeed/sim/feed"
	"github.com/tickwire/lanefeed/sim/ingest"
	"github.com/tickwire/lanefeed/sim/lane"
	"github.com/tickwire/lanefeed/sim/model"
	"github.com/tickwire/lanefeed/sim/monitor"
	"github.com/tickwire/lanefeed/sim/testpoint"
	"github.com/tickwire/lanefeed/sim/verifier"
)

func main() {
	var (
		seed    = flag.Int64("seed", 1, "random seed for stimulus generation")
		count   = flag.Int("count", 1000, "number of packets to send")
		corrupt = flag.Float64("corrupt", 0.0, "fraction of packets to send with a bad checksum")
		tick    = flag.Duration("tick", time.Microsecond, "lane tick interval")
		window  = flag.Duration("window", time.Millisecond, "throughput sampling window")
		out     = flag.String("out", "samples.csv", "throughput sample recording (empty to disable)")
		verbose = flag.Bool("verbose", false, "log lane traffic and parsed messages")
	)
	flag.Parse()

	sim := component.MakeSimControllerSeeded(*seed)

	var parsed int
	pipeline := ingest.MakePipeline(sim, func(msg feed.Message) {
		parsed++
	})
	if *verbose {
		pipeline.Finalized().Subscribe(func() {
			stats := pipeline.Monitor().Sample(false)
			if msg, ok := pipeline.LastMessage(); ok {
				log.Printf("%v [feedsim] finalized: total=%d errors=%d last=%v",
					sim.Now(), stats.TotalPackets, stats.ErrorPackets, msg)
			} else {
				log.Printf("%v [feedsim] finalized: total=%d errors=%d",
					sim.Now(), stats.TotalPackets, stats.ErrorPackets)
			}
		})
	}

	driver := ingest.MakeTxDriver()
	corrupted := 0
	for i := 0; i < *count; i++ {
		msg := testpoint.RandMessage(sim.Rand())
		if sim.Rand().Float64() < *corrupt {
			msg = testpoint.CorruptChecksum(msg)
			corrupted++
		}
		driver.Enqueue(msg)
	}

	var src lane.TupleSource = driver
	if *verbose {
		src = testpoint.MakeLoggingSource(sim, "Tx", driver, time.Millisecond)
	}
	cancelLane := ingest.AttachLane(sim, src, pipeline, *tick)

	recorder := monitor.MakeNullCSVRecorder()
	if *out != "" {
		recorder = monitor.MakeCSVRecorder(sim, *out)
	}
	cancelSampler := ingest.AttachSampler(sim, pipeline, *window, func(ctx model.SimContext, s monitor.Stats) {
		recorder.Record(s)
		if *verbose {
			log.Printf("%v [feedsim] total=%d errors=%d throughput=%d/window",
				ctx.Now(), s.TotalPackets, s.ErrorPackets, s.Throughput)
		}
	})

	// advance in slices until the driver drains and the lane settles
	for driver.Busy() {
		sim.Advance(sim.Now().Add(10 * time.Millisecond))
	}
	sim.Advance(sim.Now().Add(*window))
	cancelLane()
	cancelSampler()

	stats := pipeline.Monitor().Sample(false)
	log.Printf("Run complete at %v: sent=%d (corrupted=%d) parsed=%d total=%d errors=%d rxFrames=%d txFrames=%d",
		sim.Now(), *count, corrupted, parsed, stats.TotalPackets, stats.ErrorPackets,
		pipeline.Framer().PacketCount(), driver.Framer().PacketCount())

	if err := verifier.VerifyRun(pipeline, driver, *count, corrupted); err != nil {
		log.Fatalf("Requirement violations:\n%v", err)
	}
	log.Printf("All requirements held.")
}
