package ad

import "github.com/auto-differentiation/xad-sub000/tape"

// NewTape, Activate, Deactivate and Current are thin convenience
// wrappers over package tape's per-goroutine active-tape registry —
// generalizing the teacher's opt-in MTSafeOn()/mtStore into the
// always-on per-goroutine registry that invariant 5 requires: every
// goroutine recording with package ad gets its own tape automatically
// rather than needing to request "multi-goroutine safe mode".
func NewTape(opts ...tape.Option) *tape.Tape { return tape.New(opts...) }

// Activate makes t the tape that New registers new Reals on for the
// calling goroutine.
func Activate(t *tape.Tape) error { return t.Activate() }

// Deactivate clears t from the active registry for the calling
// goroutine. Returns tape.ErrNoActiveTape if t is not the tape active
// there.
func Deactivate(t *tape.Tape) error { return t.Deactivate() }

// Current returns the tape active on the calling goroutine, or nil.
func Current() *tape.Tape { return tape.ActiveTape() }
