package highlights

import (
	"sync"

	"github.com/mrlokans/folio/internal/renderhost"
)

// Page is what a view slot currently displays.
type Page struct {
	BookID string
	// Number is zero-based; negative values are clamped when ids are built.
	Number int
	// Href locates the chapter document inside the book.
	Href string
	Host renderhost.Host
}

func (p Page) sameResource(other Page) bool {
	return p.BookID == other.BookID && p.Number == other.Number && p.Href == other.Href
}

// PageHandle is a non-owning reference to a slot at a point in time. It stops
// resolving once the slot shows another resource.
type PageHandle struct {
	Slot       string
	Generation uint64
}

type slotState struct {
	page       Page
	generation uint64
	occupied   bool
	// holders counts handles issued for the current generation.
	holders int
}

// PageRegistry tracks the page shown by each view slot.
type PageRegistry struct {
	mu    sync.RWMutex
	slots map[string]*slotState
}

func NewPageRegistry() *PageRegistry {
	return &PageRegistry{slots: make(map[string]*slotState)}
}

// Show records that slot now displays p. Showing the same resource again
// keeps the generation, so replies for the earlier display still apply;
// showing a different resource invalidates every older handle.
func (r *PageRegistry) Show(slot string, p Page) PageHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slot]
	if !ok {
		s = &slotState{}
		r.slots[slot] = s
	}
	if !s.occupied || !s.page.sameResource(p) {
		s.generation++
		s.holders = 0
	}
	s.holders++
	s.page = p
	s.occupied = true

	return PageHandle{Slot: slot, Generation: s.generation}
}

// Release empties the slot and invalidates its handles.
func (r *PageRegistry) Release(slot string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.slots[slot]; ok && s.occupied {
		s.generation++
		s.page = Page{}
		s.occupied = false
		s.holders = 0
	}
}

// Lookup resolves a handle to the page it refers to, if still displayed.
func (r *PageRegistry) Lookup(h PageHandle) (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[h.Slot]
	if !ok || !s.occupied || s.generation != h.Generation {
		return Page{}, false
	}
	return s.page, true
}

// IsCurrent reports whether the handle still refers to the displayed page.
func (r *PageRegistry) IsCurrent(h PageHandle) bool {
	_, ok := r.Lookup(h)
	return ok
}

// ReleaseHandle drops h. The slot is emptied once every handle issued for
// its current display has been released; handles from an older display are
// ignored.
func (r *PageRegistry) ReleaseHandle(h PageHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[h.Slot]
	if !ok || !s.occupied || s.generation != h.Generation {
		return
	}
	s.holders--
	if s.holders > 0 {
		return
	}
	s.generation++
	s.page = Page{}
	s.occupied = false
	s.holders = 0
}
