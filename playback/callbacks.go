package playback

import (
	"reflect"

	"golang.org/x/exp/slices"
)

// Callback receives emitted events.
type Callback func(Event)

// CallbackID is the handle returned by AddEventCallback. Go functions are not comparable,
// so a registration is released through its handle rather than the function value.
type CallbackID uint64

type callbackEntry struct {
	id    CallbackID
	owner any
	fn    Callback
}

// callbackManager is the ordered event sink shared by every controller.
type callbackManager struct {
	nextID  CallbackID
	entries []callbackEntry
}

func (m *callbackManager) add(owner any, fn Callback) CallbackID {
	m.nextID++
	m.entries = append(m.entries, callbackEntry{id: m.nextID, owner: owner, fn: fn})
	return m.nextID
}

func (m *callbackManager) remove(owner any, id CallbackID) {
	m.entries = slices.DeleteFunc(m.entries, func(e callbackEntry) bool {
		return e.id == id && sameOwner(e.owner, owner)
	})
}

func (m *callbackManager) removeAll() {
	m.entries = nil
}

func (m *callbackManager) len() int {
	return len(m.entries)
}

// callAll delivers ev to a snapshot of the registrations, so callbacks may
// add or remove registrations while being called.
func (m *callbackManager) callAll(ev Event) {
	for _, e := range slices.Clone(m.entries) {
		e.fn(ev)
	}
}

// sameOwner reports whether a and b name the same registrant. Pointers match by identity.
// Other values match by ==, and values that cannot be compared never match.
func sameOwner(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}

	// a comparable struct type may still hold an uncomparable value in an interface field
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
