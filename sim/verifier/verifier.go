// Package verifier checks end-of-run requirements over the counters of a
// completed experiment and aggregates every violation into a single error.
package verifier

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/tickwire/lanefeed/sim/ingest"
)

// ReqTracker accumulates requirement outcomes.
type ReqTracker struct {
	checked  int
	failures error
}

func MakeReqTracker() *ReqTracker {
	return &ReqTracker{}
}

// Check records one requirement outcome. The detail is only evaluated into
// the report when the requirement failed.
func (rt *ReqTracker) Check(req string, ok bool, detail string) {
	rt.checked++
	if !ok {
		rt.failures = multierror.Append(rt.failures, fmt.Errorf("%s violated: %s", req, detail))
	}
}

func (rt *ReqTracker) Checked() int {
	return rt.checked
}

// Report returns nil when every checked requirement held, otherwise the
// combined violations.
func (rt *ReqTracker) Report() error {
	return rt.failures
}

// VerifyRun checks the standard requirements for a clean-lane run that
// enqueued sent packets, corrupted of which carried a bad checksum, with a
// consumer that was always ready.
func VerifyRun(p *ingest.Pipeline, d *ingest.TxDriver, sent int, corrupted int) error {
	rt := MakeReqTracker()
	stats := p.Monitor().Sample(false)
	out := p.Parser().Output()

	rt.Check(ReqDelivery, stats.TotalPackets == uint32(sent),
		fmt.Sprintf("finalized %d of %d packets", stats.TotalPackets, sent))
	rt.Check(ReqConservation, stats.TotalPackets <= uint32(p.Framer().PacketCount()),
		fmt.Sprintf("finalized %d packets but framer counted only %d", stats.TotalPackets, p.Framer().PacketCount()))
	rt.Check(ReqFrameCounts, p.Framer().PacketCount() == d.Framer().PacketCount(),
		fmt.Sprintf("rx counted %d frames, tx counted %d", p.Framer().PacketCount(), d.Framer().PacketCount()))
	rt.Check(ReqErrorAccounting, stats.ErrorPackets == uint32(corrupted),
		fmt.Sprintf("monitor counted %d errors, %d packets were corrupted", stats.ErrorPackets, corrupted))
	rt.Check(ReqNoOverflow, !p.Framer().Overflowed(), "sticky overflow flag set")
	rt.Check(ReqNoUnderflow, !d.Framer().Underflowed(), "sticky underflow flag set")
	rt.Check(ReqStickyParserError, out.Errored == (corrupted > 0),
		fmt.Sprintf("parser error flag %v with %d corrupted packets", out.Errored, corrupted))

	return rt.Report()
}
