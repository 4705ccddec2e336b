package session

import "gesso/core"

// EventType identifies a pointer or keyboard event delivered to a session.
type EventType int

const (
	PointerMove EventType = iota
	PointerUp
	Cancel
)

func (t EventType) String() string {
	switch t {
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Modifiers are the keys held during a gesture. Shift locks aspect ratio,
// constrains moves to one axis and snaps rotation. Alt resizes from the
// center.
type Modifiers struct {
	Shift bool
	Alt   bool
}

// Event is one input event in canvas coordinates.
type Event struct {
	Type  EventType
	Point core.Point
	Mods  Modifiers
}

// Listener receives input events while a session is active.
type Listener func(Event)

// Input is a source of global pointer and keyboard events. Subscribe
// attaches l and returns the function that detaches it.
type Input interface {
	Subscribe(l Listener) (unsubscribe func())
}

// Broadcast is an in-process Input that fans events out to its current
// subscribers.
type Broadcast struct {
	next      int
	listeners map[int]Listener
}

// Subscribe implements Input.
func (b *Broadcast) Subscribe(l Listener) func() {
	if b.listeners == nil {
		b.listeners = make(map[int]Listener)
	}
	id := b.next
	b.next++
	b.listeners[id] = l
	return func() { delete(b.listeners, id) }
}

// Emit delivers ev to every subscriber.
func (b *Broadcast) Emit(ev Event) {
	// copy first: a listener may end its session and unsubscribe
	ls := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		ls = append(ls, l)
	}
	for _, l := range ls {
		l(ev)
	}
}

// Subscribers returns the number of attached listeners.
func (b *Broadcast) Subscribers() int {
	return len(b.listeners)
}
