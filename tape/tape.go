package tape

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// INVALID_SLOT marks the absence of a slot (e.g. a passive operand).
const INVALID_SLOT uint32 = ^uint32(0)

// operation is one edge recorded against a statement: the partial
// derivative ("multiplier") of the statement's output with respect to
// the value that lives in Slot.
type operation struct {
	Multiplier float64
	Slot       uint32
}

// statement is one fused assignment: Slot is the output slot, OpStart
// is the index into the operations buffer where this statement's
// operations begin (they run until the next statement's OpStart, or
// the end of the operations buffer for the last statement).
type statement struct {
	OpStart uint32
	Slot    uint32
}

// checkpointEntry associates a callback with the tape position at
// which it was inserted (see checkpoint.go).
type checkpointEntry struct {
	pos int
	cb  CheckpointCallback
}

// Tape is the reverse-mode recording tape (C3): chunked operation and
// statement buffers, a slot allocator, a derivative vector, a stack of
// checkpoint callbacks, and a stack of recording frames for nested
// sub-recordings.
type Tape struct {
	ID uuid.UUID

	ops   *chunkBuf[operation]
	stmts *chunkBuf[statement]
	slots slotAllocator

	derivatives []float64

	checkpoints   []checkpointEntry
	callbackStack []CheckpointCallback
	frames        []recordingFrame
}

// Option configures a new Tape.
type Option func(*Tape)

// WithSlotReuse enables the optional free-range slot reuse scheme
// (§4.2); disabled by default, matching "must not change observable
// adjoints, only the watermark."
func WithSlotReuse() Option {
	return func(t *Tape) { t.slots.reuse = true }
}

// New creates an inactive tape with an empty outermost recording.
func New(opts ...Option) *Tape {
	t := &Tape{
		ID:    uuid.New(),
		ops:   newChunkBuf[operation](opsChunkBits),
		stmts: newChunkBuf[statement](stmtsChunkBits),
	}
	for _, o := range opts {
		o(t)
	}
	// Statement 0 is a dummy boundary so that every real statement has
	// index >= 1; statement i's operations are [stmts.At(i).OpStart,
	// stmts.At(i+1).OpStart), or up to ops.Len() for the last statement.
	t.stmts.Push(statement{OpStart: 0, Slot: INVALID_SLOT})
	t.frames = append(t.frames, recordingFrame{
		stmtStart: t.stmts.Len(),
		opStart:   t.ops.Len(),
		watermark: t.slots.watermark,
		free:      nil,
		derivLen:  0,
	})
	return t
}

// curFrame returns the innermost (topmost) recording frame, the one
// every derivative-vector-validity operation below consults.
func (t *Tape) curFrame() *recordingFrame { return &t.frames[len(t.frames)-1] }

// Activate makes t the active tape on the calling goroutine. Returns
// ErrAlreadyActive if a different tape is already active there.
func (t *Tape) Activate() error {
	if cur := active.get(); cur != nil && cur != t {
		return errors.Wrapf(ErrAlreadyActive, "tape %s already active", cur.ID)
	}
	active.set(t)
	return nil
}

// Deactivate clears t from the active registry if it is the one
// currently active on the calling goroutine. Returns ErrNoActiveTape
// if no tape, or a different tape, is active there.
func (t *Tape) Deactivate() error {
	if active.get() != t {
		return errors.Wrapf(ErrNoActiveTape, "tape %s not active on this goroutine", t.ID)
	}
	active.clear()
	return nil
}

// IsActive reports whether t is the active tape on the calling
// goroutine.
func (t *Tape) IsActive() bool { return active.get() == t }

// NewSlot registers a fresh output slot, grows the derivative vector
// to cover it, and raises the current frame's max_derivative watermark
// if the new slot extends past it.
func (t *Tape) NewSlot() uint32 {
	s := t.slots.register()
	t.ensureDerivative(s)
	if f := t.curFrame(); s+1 > f.maxDerivative {
		f.maxDerivative = s + 1
	}
	return s
}

// RegisterInput registers a slot for an externally-supplied input
// value (used by checkpoint callbacks and external functions to wire
// up adjoints for values that never went through PushStatement).
func (t *Tape) RegisterInput() uint32 {
	return t.NewSlot()
}

// RegisterOutput emits a zero-operation statement for slot, an
// already-registered slot (e.g. from RegisterInput or a plain New), so
// that a seed adjoint set on it directly is still visited by reverse
// propagation even though nothing ever pushed a statement naming it as
// an output (a pass-through result equal to one of the computation's
// raw inputs, for instance).
func (t *Tape) RegisterOutput(slot uint32) {
	t.PushStatement(slot)
}

func (t *Tape) ensureDerivative(slot uint32) {
	if int(slot) >= len(t.derivatives) {
		grown := make([]float64, slot+1)
		copy(grown, t.derivatives)
		t.derivatives = grown
	}
}

// NumSlots returns the number of slots registered so far (the
// derivative vector's logical size), matching the watermark.
func (t *Tape) NumSlots() int { return int(t.slots.watermark) }

// GetPosition returns the current tape position: the index of the
// last recorded statement. original_source/src/Tape.cpp defines
// getPosition() as statement_.size()-1, not stmts.Len() as spec.md's
// prose states; this implementation follows the source.
func (t *Tape) GetPosition() int { return t.stmts.Len() - 1 }

// PushStatement begins a new fused statement with the given output
// slot, associating it with whatever operations are pushed via
// PushOperation until the next PushStatement.
func (t *Tape) PushStatement(outputSlot uint32) {
	t.stmts.Push(statement{OpStart: uint32(t.ops.Len()), Slot: outputSlot})
}

// PushOperation appends one edge to the statement currently being
// recorded.
func (t *Tape) PushOperation(multiplier float64, slot uint32) {
	t.ops.Push(operation{Multiplier: multiplier, Slot: slot})
}

// ReserveOperations pre-grows the operations buffer for n upcoming
// pushes, so a statement's whole multiplier*leaf fan-out can be
// written with PushReserved instead of Push.
func (t *Tape) ReserveOperations(n int) { t.ops.Reserve(n) }

func (t *Tape) opRangeFor(i int) (start, end int) {
	start = int(t.stmts.At(i).OpStart)
	if i+1 < t.stmts.Len() {
		end = int(t.stmts.At(i + 1).OpStart)
	} else {
		end = t.ops.Len()
	}
	return
}

// ensureDerivativesInitialized performs the lazy zero-fill ClearDerivatives
// defers: if the current frame's derivatives_initialized flag is down, the
// vector is zeroed from the frame's start_derivative (the point a nested
// recording's own region begins; zero for the outermost frame) through its
// current length, then the flag is raised. Mirrors original_source's
// Tape::initDerivatives.
func (t *Tape) ensureDerivativesInitialized() {
	f := t.curFrame()
	if f.derivativesInitialized {
		return
	}
	if len(t.derivatives) > f.startDerivative {
		clear := t.derivatives[f.startDerivative:]
		for i := range clear {
			clear[i] = 0
		}
	}
	f.derivativesInitialized = true
}

// Derivative returns the current adjoint stored at slot. Fails with
// ErrOutOfRange if slot is past the current frame's max_derivative
// watermark (invariant 3); otherwise triggers the lazy zero-fill above
// before reading, so a fresh slot reads as 0 rather than stale data.
func (t *Tape) Derivative(slot uint32) (float64, error) {
	if slot >= t.curFrame().maxDerivative {
		return 0, errors.Wrapf(ErrOutOfRange,
			"tape: derivative slot %d out of range (max_derivative %d)", slot, t.curFrame().maxDerivative)
	}
	t.ensureDerivativesInitialized()
	if int(slot) >= len(t.derivatives) {
		return 0, nil
	}
	return t.derivatives[slot], nil
}

// SetDerivative sets the adjoint stored at slot, typically used to
// seed the output adjoint (dy/dy = 1) before propagation. Like the
// original's lvalue-returning derivative() accessor, this is one of
// the setters that establishes derivatives_initialized for the
// current frame.
func (t *Tape) SetDerivative(slot uint32, v float64) {
	t.ensureDerivative(slot)
	t.ensureDerivativesInitialized()
	t.derivatives[slot] = v
}

// IncrementAdjoint adds v to the adjoint at slot. Fails with
// ErrOutOfRange if slot is past the physical derivative vector's
// length, matching original_source's incrementAdjoint, which checks
// the vector's own size rather than max_derivative and never grows
// it — callers (checkpoint callbacks) are expected to have already
// read an adjoint in the same pass, which lazily sizes the vector.
func (t *Tape) IncrementAdjoint(slot uint32, v float64) error {
	if slot == INVALID_SLOT {
		return nil
	}
	if int(slot) >= len(t.derivatives) {
		return errors.Wrapf(ErrOutOfRange,
			"tape: adjoint slot %d out of range (len %d)", slot, len(t.derivatives))
	}
	t.ensureDerivativesInitialized()
	t.derivatives[slot] += v
	return nil
}

// GetAndResetOutputAdjoint reads the adjoint at slot and zeroes it,
// the standard "consume an output adjoint" step of the reverse sweep
// and of checkpoint callbacks pulling their seed value. slot is always
// one this tape itself assigned as a statement's output, so it is
// never out of range in practice.
func (t *Tape) GetAndResetOutputAdjoint(slot uint32) float64 {
	v, _ := t.Derivative(slot)
	if int(slot) < len(t.derivatives) {
		t.derivatives[slot] = 0
	}
	return v
}

// ClearDerivatives marks the current frame's derivative vector
// uninitialized without touching its contents; the next read or
// increment lazily zero-fills it (ensureDerivativesInitialized),
// matching original_source's clearDerivatives.
func (t *Tape) ClearDerivatives() {
	t.curFrame().derivativesInitialized = false
}

// Release drops all recorded state, returning the tape to the state
// New would produce (apart from ID). Does not touch active-tape
// registration.
func (t *Tape) Release() {
	t.ops.Clear()
	t.stmts.Clear()
	t.stmts.Push(statement{OpStart: 0, Slot: INVALID_SLOT})
	t.slots = slotAllocator{reuse: t.slots.reuse}
	t.derivatives = nil
	t.checkpoints = nil
	t.callbackStack = nil
	t.frames = t.frames[:0]
	t.frames = append(t.frames, recordingFrame{
		stmtStart: t.stmts.Len(),
		opStart:   t.ops.Len(),
	})
}
