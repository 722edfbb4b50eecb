// Package monitor aggregates per-packet completion events into counters and
// a windowed throughput figure sampled against an external boundary tick.
package monitor

// Stats is the monitor's reporting surface. Throughput is the number of
// packets finalized during the most recently closed sampling window, so
// bursts within a window average out.
type Stats struct {
	TotalPackets uint32
	ErrorPackets uint32
	Throughput   uint32
}

// Monitor counts finalized packets. A packet is finalized exactly once, as
// completed or as errored; both finalizations count toward TotalPackets.
// Counters wrap at 32 bits; wraparound is expected, not an error, and the
// window arithmetic in Sample stays correct across it.
type Monitor struct {
	total      uint32
	errors     uint32
	prevTotal  uint32
	throughput uint32
}

func MakeMonitor() *Monitor {
	return &Monitor{}
}

// OnEvent records one finalized packet.
func (m *Monitor) OnEvent(completed bool, errored bool) {
	if completed || errored {
		m.total++
	}
	if errored {
		m.errors++
	}
}

// Sample reports the current counters. When boundary is true the sampling
// window closes: throughput becomes the packet count since the previous
// boundary and the snapshot moves forward. The boundary tick is supplied by
// an external periodic clock, never computed here.
func (m *Monitor) Sample(boundary bool) Stats {
	if boundary {
		m.throughput = m.total - m.prevTotal
		m.prevTotal = m.total
	}
	return Stats{
		TotalPackets: m.total,
		ErrorPackets: m.errors,
		Throughput:   m.throughput,
	}
}

// Reset zeroes every counter and the window snapshot.
func (m *Monitor) Reset() {
	*m = Monitor{}
}
