package autocomplete

import "sync"

// EventKind identifies a global input event
type EventKind int

const (
	// EventShortcut is the global focus shortcut (ctrl+k)
	EventShortcut EventKind = iota

	// EventPointerDown is a mouse press anywhere on screen
	EventPointerDown
)

// Event is a global input event published by the host
type Event struct {
	Kind EventKind

	// EditableFocused is set when another text field has focus
	EditableFocused bool

	// Inside is set when a pointer press landed on the search surface
	Inside bool
}

// Hub fans global input events out to listeners. Listeners hold an explicit
// Subscription instead of registering on process-wide state.
type Hub struct {
	mu       sync.Mutex
	next     uint64
	handlers map[uint64]handler
}

type handler struct {
	kind EventKind
	fn   func(Event)
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{handlers: make(map[uint64]handler)}
}

// Subscribe registers fn for events of kind
func (h *Hub) Subscribe(kind EventKind, fn func(Event)) *Subscription {
	h.mu.Lock()
	id := h.next
	h.next++
	h.handlers[id] = handler{kind: kind, fn: fn}
	h.mu.Unlock()

	return &Subscription{hub: h, id: id}
}

// Publish delivers e to every listener for its kind, synchronously
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	var fns []func(Event)
	for _, hd := range h.handlers {
		if hd.kind == e.Kind {
			fns = append(fns, hd.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of live subscriptions
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// Subscription is a registered listener
type Subscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.handlers, s.id)
		s.hub.mu.Unlock()
	})
}
