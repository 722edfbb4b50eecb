package component

import (
	"testing"
	"time"

	"github.com/tickwire/lanefeed/sim/model"
)

func TestTimersRunInExpiryOrder(t *testing.T) {
	sim := MakeSimControllerSeeded(1)

	var order []int
	at := func(d time.Duration, id int) {
		sim.SetTimer(model.TimeZero.Add(d), "test/at", func() {
			order = append(order, id)
		})
	}
	at(3*time.Millisecond, 3)
	at(1*time.Millisecond, 1)
	at(2*time.Millisecond, 2)

	next := sim.Advance(model.TimeZero.Add(10 * time.Millisecond))
	if next != model.TimeNever {
		t.Errorf("no timers should remain, got %v", next)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("wrong execution order: %v", order)
	}
	if sim.Now() != model.TimeZero.Add(10*time.Millisecond) {
		t.Errorf("wrong final time: %v", sim.Now())
	}
}

func TestAdvanceStopsAtRequestedTime(t *testing.T) {
	sim := MakeSimControllerSeeded(1)
	fired := false
	sim.SetTimer(model.TimeZero.Add(5*time.Millisecond), "test/later", func() {
		fired = true
	})
	next := sim.Advance(model.TimeZero.Add(2 * time.Millisecond))
	if fired {
		t.Error("timer beyond the advance horizon must not fire")
	}
	if next != model.TimeZero.Add(5*time.Millisecond) {
		t.Errorf("expected pending timer report, got %v", next)
	}
}

func TestCancelledTimerNeverFires(t *testing.T) {
	sim := MakeSimControllerSeeded(1)
	cancel := sim.SetTimer(model.TimeZero.Add(time.Millisecond), "test/cancelled", func() {
		t.Error("cancelled timer fired")
	})
	cancel()
	cancel() // double cancel is harmless
	sim.Advance(model.TimeZero.Add(10 * time.Millisecond))
}

func TestLaterRunsAtCurrentTime(t *testing.T) {
	sim := MakeSimControllerSeeded(1)
	sim.Advance(model.TimeZero.Add(time.Millisecond))
	ran := false
	sim.Later("test/later", func() {
		ran = true
		if sim.Now() != model.TimeZero.Add(time.Millisecond) {
			t.Errorf("Later callback at wrong time: %v", sim.Now())
		}
	})
	sim.Advance(sim.Now())
	if !ran {
		t.Error("Later callback never ran")
	}
}

func TestDispatcherCoalescesLater(t *testing.T) {
	sim := MakeSimControllerSeeded(1)
	ed := MakeEventDispatcher(sim, "test.Dispatcher")
	count := 0
	ed.Subscribe(func() {
		count++
	})
	ed.DispatchLater()
	ed.DispatchLater()
	ed.DispatchLater()
	sim.Advance(sim.Now())
	if count != 1 {
		t.Errorf("expected one coalesced dispatch, got %d", count)
	}

	cancel := ed.Subscribe(func() {
		t.Error("cancelled subscriber invoked")
	})
	cancel()
	ed.Dispatch()
	if count != 2 {
		t.Errorf("expected direct dispatch, got %d", count)
	}
}
