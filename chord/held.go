package chord

import (
	"github.com/jsphweid/chordloop/model"
	"golang.org/x/exp/slices"
)

// heldNotes is an insertion-ordered set of sounding notes keyed by identifier.
type heldNotes struct {
	notes map[string]model.NoteEvent
	order []string
}

func (h *heldNotes) add(n model.NoteEvent) {
	if h.notes == nil {
		h.notes = make(map[string]model.NoteEvent)
	}
	if _, ok := h.notes[n.Identifier]; !ok {
		h.order = append(h.order, n.Identifier)
	}
	h.notes[n.Identifier] = n
}

func (h *heldNotes) remove(identifier string) {
	if _, ok := h.notes[identifier]; !ok {
		return
	}
	delete(h.notes, identifier)
	if i := slices.Index(h.order, identifier); i != -1 {
		h.order = slices.Delete(h.order, i, i+1)
	}
}

func (h *heldNotes) len() int {
	return len(h.order)
}

func (h *heldNotes) identifiers() []string {
	return slices.Clone(h.order)
}

func (h *heldNotes) clone() heldNotes {
	c := heldNotes{
		notes: make(map[string]model.NoteEvent, len(h.notes)),
		order: slices.Clone(h.order),
	}
	for k, v := range h.notes {
		c.notes[k] = v
	}
	return c
}

func (h *heldNotes) clear() {
	h.notes = nil
	h.order = nil
}

// tracker is the recognition state machine without any notion of time.
// Callers decide when the release window has elapsed and call settle.
type tracker struct {
	held heldNotes
	last heldNotes
}

func (t *tracker) press(n model.NoteEvent) {
	t.held.add(n)
	t.last = t.held.clone()
}

// release reports whether the held set became empty.
func (t *tracker) release(n model.NoteEvent) bool {
	t.held.remove(n.Identifier)
	return t.held.len() == 0
}

func (t *tracker) settle() (model.Chord, bool) {
	defer t.last.clear()
	if t.last.len() < 2 {
		return model.Chord{}, false
	}
	return Identify(t.last.identifiers())
}
