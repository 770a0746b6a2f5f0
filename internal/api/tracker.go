package api

import "gamedex/internal/slots"

// trackerStore adapts one request's tracker slots to the slot store the
// core reads and writes. Mutations are recorded and turned into events for
// the dialogue engine to apply; the engine owns the durable state.
type trackerStore struct {
	values map[string]any
	order  []string
	dirty  map[string]bool
	reset  bool
}

var _ slots.Store = (*trackerStore)(nil)

func newTrackerStore(slotValues map[string]any) *trackerStore {
	values := make(map[string]any, len(slotValues))
	for k, v := range slotValues {
		values[k] = v
	}
	return &trackerStore{
		values: values,
		dirty:  make(map[string]bool),
	}
}

func (t *trackerStore) Get(key string) (any, bool) {
	v, ok := t.values[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (t *trackerStore) Set(key string, value any) {
	t.values[key] = value
	if !t.dirty[key] {
		t.dirty[key] = true
		t.order = append(t.order, key)
	}
}

func (t *trackerStore) ResetAll() {
	t.values = make(map[string]any)
	t.dirty = make(map[string]bool)
	t.order = nil
	t.reset = true
}

// events renders the recorded mutations. A full reset collapses everything
// into a single reset_slots event.
func (t *trackerStore) events() []Event {
	if t.reset {
		return []Event{{Event: eventResetSlots}}
	}
	out := make([]Event, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, Event{Event: eventSlot, Name: key, Value: t.values[key]})
	}
	return out
}
