package tape

import (
	"sync"

	"github.com/modern-go/gls"
)

// activeRegistry is the per-goroutine "currently active tape" pointer
// required by invariant 5. Go has no native thread-local storage, so
// goroutine identity is borrowed from github.com/modern-go/gls — the
// same library the teacher reaches for in its own multi-goroutine
// sampling example to give each goroutine an independent tape.
type activeRegistry struct {
	mu    sync.Mutex
	store map[int64]*Tape
}

var active = &activeRegistry{store: make(map[int64]*Tape)}

func (r *activeRegistry) get() *Tape {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store[gls.GoID()]
}

func (r *activeRegistry) set(t *Tape) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[gls.GoID()] = t
}

func (r *activeRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.store, gls.GoID())
}

// ActiveTape returns the tape currently active on the calling goroutine,
// or nil if none.
func ActiveTape() *Tape {
	return active.get()
}
