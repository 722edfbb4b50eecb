package verifier

import (
	"strings"
	"testing"
)

func TestTrackerReportsOnlyFailures(t *testing.T) {
	rt := MakeReqTracker()
	rt.Check(ReqDelivery, true, "unused")
	rt.Check(ReqNoOverflow, true, "unused")
	if rt.Report() != nil {
		t.Errorf("all-pass tracker must report nil, got %v", rt.Report())
	}
	if rt.Checked() != 2 {
		t.Errorf("expected 2 checks recorded, got %d", rt.Checked())
	}

	rt.Check(ReqFrameCounts, false, "rx counted 3 frames, tx counted 4")
	rt.Check(ReqErrorAccounting, true, "unused")
	rt.Check(ReqStickyParserError, false, "parser error flag false with 2 corrupted packets")
	err := rt.Report()
	if err == nil {
		t.Fatal("expected combined failures")
	}
	msg := err.Error()
	if !strings.Contains(msg, ReqFrameCounts) || !strings.Contains(msg, ReqStickyParserError) {
		t.Errorf("report should name every violated requirement: %q", msg)
	}
	if strings.Contains(msg, ReqErrorAccounting) {
		t.Errorf("flag check must report under its own name, not %s: %q", ReqErrorAccounting, msg)
	}
	if strings.Contains(msg, ReqDelivery) {
		t.Errorf("report should not name requirements that held: %q", msg)
	}
}
