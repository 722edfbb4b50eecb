package component

import (
	"container/heap"
	"math/rand"

	"github.com/tickwire/lanefeed/sim/model"
)

type simTimer struct {
	expireAt model.VirtualTime
	name     string
	callback func()
	index    int
}

type timerQueue []*simTimer

func (tq timerQueue) Len() int {
	return len(tq)
}

func (tq timerQueue) Less(i, j int) bool {
	return tq[i].expireAt.Before(tq[j].expireAt)
}

func (tq timerQueue) Swap(i, j int) {
	tq[i], tq[j] = tq[j], tq[i]
	tq[i].index = i
	tq[j].index = j
}

func (tq *timerQueue) Push(x interface{}) {
	timer := x.(*simTimer)
	timer.index = len(*tq)
	*tq = append(*tq, timer)
}

func (tq *timerQueue) Pop() interface{} {
	tqa := *tq
	timer := tqa[len(tqa)-1]
	timer.index = -1
	*tq = tqa[0 : len(tqa)-1]
	return timer
}

// SimController is the single-threaded simulation kernel: it owns virtual
// time and a queue of pending timers, and advances time only inside Advance.
type SimController struct {
	currentTime model.VirtualTime
	rand        *rand.Rand
	timers      timerQueue
}

var _ model.SimContext = &SimController{}

func MakeSimControllerSeeded(seed int64) *SimController {
	return &SimController{
		currentTime: model.TimeZero,
		rand:        rand.New(rand.NewSource(seed)),
	}
}

func (sc *SimController) Now() model.VirtualTime {
	return sc.currentTime
}

func (sc *SimController) Rand() *rand.Rand {
	return sc.rand
}

func (sc *SimController) SetTimer(expireAt model.VirtualTime, name string, callback func()) (cancel func()) {
	if !expireAt.TimeExists() {
		panic("attempt to set timer at nonexistent time")
	}
	timer := &simTimer{
		expireAt: expireAt,
		name:     name,
		callback: callback,
		index:    -1,
	}
	heap.Push(&sc.timers, timer)
	if timer.index == -1 {
		panic("timer should have an index after push")
	}
	return func() {
		if timer.index != -1 {
			heap.Remove(&sc.timers, timer.index)
		}
	}
}

func (sc *SimController) Later(name string, callback func()) (cancel func()) {
	return sc.SetTimer(sc.currentTime, name, callback)
}

func (sc *SimController) peekNextExpiry() model.VirtualTime {
	if len(sc.timers) > 0 {
		return sc.timers[0].expireAt
	}
	return model.TimeNever
}

func (sc *SimController) runCurrentTimers() {
	for len(sc.timers) > 0 && sc.peekNextExpiry().AtOrBefore(sc.currentTime) {
		timer := heap.Pop(&sc.timers).(*simTimer)
		if timer.expireAt.After(sc.currentTime) {
			panic("timer expired in the future")
		}
		timer.callback()
	}
}

// Advance runs the simulation up to and including advanceTo, executing every
// timer in expiry order, and reports the expiry of the next pending timer
// (or TimeNever if none remain).
func (sc *SimController) Advance(advanceTo model.VirtualTime) (nextTimer model.VirtualTime) {
	sc.runCurrentTimers()
	for sc.currentTime.Before(advanceTo) {
		stepTo := sc.peekNextExpiry()
		if stepTo.TimeExists() && stepTo.AtOrBefore(advanceTo) {
			sc.currentTime = stepTo
		} else {
			sc.currentTime = advanceTo
		}
		sc.runCurrentTimers()
	}
	return sc.peekNextExpiry()
}
