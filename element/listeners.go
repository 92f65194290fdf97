package element

import (
	"sync"

	"golang.org/x/exp/slices"
)

type listener struct {
	id    ListenerID
	event Event
	fn    func()
}

// Listeners is a registration table implementations embed to satisfy the listener half of Element.
// It is safe for concurrent use; Dispatch runs callbacks outside the lock.
type Listeners struct {
	mu     sync.Mutex
	nextID ListenerID
	items  []listener
}

// AddEventListener registers fn for ev.
func (l *Listeners) AddEventListener(ev Event, fn func()) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.items = append(l.items, listener{id: l.nextID, event: ev, fn: fn})
	return l.nextID
}

// RemoveEventListener drops the registration with the given id. Unknown ids are ignored.
func (l *Listeners) RemoveEventListener(id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = slices.DeleteFunc(l.items, func(it listener) bool {
		return it.id == id
	})
}

// Count returns how many listeners are registered for ev.
func (l *Listeners) Count(ev Event) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, it := range l.items {
		if it.event == ev {
			n++
		}
	}
	return n
}

// Len returns the total number of registrations.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Dispatch calls every listener registered for ev, in registration order.
func (l *Listeners) Dispatch(ev Event) {
	l.mu.Lock()
	var fns []func()
	for _, it := range l.items {
		if it.event == ev {
			fns = append(fns, it.fn)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
