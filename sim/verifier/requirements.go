package verifier

// Requirement names checked against a completed run.
const (
	// ReqDelivery: every enqueued packet was finalized by the receive side,
	// as either a processed message or a flagged error.
	ReqDelivery = "ReqDelivery"
	// ReqConservation: finalized packets never exceed frames received.
	ReqConservation = "ReqConservation"
	// ReqFrameCounts: transmit and receive frame counters agree (mod 2^16)
	// on a clean lane.
	ReqFrameCounts = "ReqFrameCounts"
	// ReqErrorAccounting: the monitor's error count equals the number of
	// corrupted packets injected.
	ReqErrorAccounting = "ReqErrorAccounting"
	// ReqStickyParserError: the sticky parser error flag is set exactly when
	// at least one corrupted packet was injected.
	ReqStickyParserError = "ReqStickyParserError"
	// ReqNoOverflow: a run whose consumer was always ready never set the
	// sticky overflow flag.
	ReqNoOverflow = "ReqNoOverflow"
	// ReqNoUnderflow: a driver that respects the framer's busy states never
	// set the sticky underflow flag.
	ReqNoUnderflow = "ReqNoUnderflow"
)
