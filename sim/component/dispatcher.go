package component

import "github.com/tickwire/lanefeed/sim/model"

// EventDispatcher is a named fan-out point for "something changed" pokes.
// Subscribers are invoked in no particular order.
type EventDispatcher struct {
	ctx          model.SimContext
	name         string
	subscribers  map[uint64]func()
	nextIndex    uint64
	pendingLater bool
}

func MakeEventDispatcher(ctx model.SimContext, name string) *EventDispatcher {
	return &EventDispatcher{
		ctx:         ctx,
		name:        name,
		subscribers: map[uint64]func(){},
	}
}

func (ed *EventDispatcher) Subscribe(callback func()) (cancel func()) {
	index := ed.nextIndex
	ed.subscribers[index] = callback
	ed.nextIndex += 1
	return func() {
		delete(ed.subscribers, index)
	}
}

func (ed *EventDispatcher) Dispatch() {
	for _, f := range ed.subscribers {
		f()
	}
}

// DispatchLater coalesces any number of requests within one callback into a
// single dispatch at the current time.
func (ed *EventDispatcher) DispatchLater() {
	if !ed.pendingLater {
		ed.pendingLater = true
		ed.ctx.Later(ed.name+"/DispatchLater", func() {
			ed.pendingLater = false
			ed.Dispatch()
		})
	}
}
