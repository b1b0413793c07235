package tape

// recordingFrame snapshots enough state at the start of a recording
// region to roll the tape all the way back to it: not just the
// statement/operation position, but the slot watermark, free-range
// list, and derivative-vector length, since a nested recording is
// fully discarded (loop-scoped recordings, checkpoint re-execution),
// unlike a plain ResetTo which only rewinds statements/operations.
//
// maxDerivative, prevMax, startDerivative and derivativesInitialized
// are the "rec_stack frame" derivative-vector-validity state of
// spec.md §4.3, mirroring original_source's SubRecording: maxDerivative
// bounds which slots Derivative/ComputeAdjoints may see for this
// sub-recording (invariant 3), derivativesInitialized gates the lazy
// zero-fill and ComputeAdjoints' precondition (invariant 7),
// startDerivative is where that zero-fill begins, and prevMax is
// scratch the checkpoint-propagation dance would use to hand a saved
// bound to a callback's own nested recording (see the InsertCallback
// deviation note in DESIGN.md for why this tape doesn't exercise that
// path).
type recordingFrame struct {
	stmtStart int
	opStart   int
	watermark uint32
	free      []slotRange
	derivLen  int
	ckptStart int

	maxDerivative          uint32
	prevMax                uint32
	startDerivative        int
	derivativesInitialized bool
}

// NewRecording starts a fresh top-level recording region: clears ops
// and stmts (retaining the sentinel), discards checkpoints, pops
// nested frames back to the outermost, and raises the outermost
// frame's max_derivative to the current watermark + 1 — matching
// original_source's Tape::newRecording. Slot numbering and the
// derivative vector's physical contents are left alone (that is what
// lets a tape be reused across an outer loop without discarding the
// slot numbering accumulated so far); only the frame's
// derivativesInitialized flag drops, so the next access lazily
// zero-fills before reuse.
func (t *Tape) NewRecording() {
	t.ops.Clear()
	t.stmts.Clear()
	t.stmts.Push(statement{OpStart: 0, Slot: INVALID_SLOT})
	t.checkpoints = nil
	t.frames = t.frames[:1]

	f := &t.frames[0]
	f.stmtStart = t.stmts.Len()
	f.opStart = t.ops.Len()
	f.watermark = t.slots.watermark
	f.free = cloneFree(t.slots.free)
	f.derivLen = len(t.derivatives)
	f.ckptStart = 0
	f.maxDerivative = t.slots.watermark + 1
	f.derivativesInitialized = false
}

// NewNestedRecording pushes a frame marking the tape's current state,
// so that a bounded region (a loop body, or a checkpoint callback's
// re-execution) can be fully unwound by EndNestedRecording without
// disturbing anything recorded before it. The new frame inherits the
// enclosing frame's max_derivative (so it can still reference slots
// registered outside it) but starts with derivativesInitialized false
// and start_derivative pinned to that same bound, so a lazy zero-fill
// triggered inside the nested region only clears the tail it itself
// appends, never the enclosing frame's already-live derivatives.
func (t *Tape) NewNestedRecording() {
	cur := t.curFrame()
	t.frames = append(t.frames, recordingFrame{
		stmtStart:              t.stmts.Len(),
		opStart:                t.ops.Len(),
		watermark:              t.slots.watermark,
		free:                   cloneFree(t.slots.free),
		derivLen:               len(t.derivatives),
		ckptStart:              len(t.checkpoints),
		maxDerivative:          cur.maxDerivative,
		prevMax:                cur.maxDerivative,
		startDerivative:        int(cur.maxDerivative),
		derivativesInitialized: false,
	})
}

// EndNestedRecording pops the most recently pushed nested frame and
// fully rolls the tape back to the state it captured: statements,
// operations, slot watermark, free ranges, derivative-vector length,
// and checkpoints. Unlike ResetTo, this does roll back slot
// allocation, since the whole region (including any slots it
// registered) is being discarded rather than merely replayed.
func (t *Tape) EndNestedRecording() {
	n := len(t.frames)
	if n <= 1 {
		return
	}
	f := t.frames[n-1]
	t.frames = t.frames[:n-1]

	t.stmts.Truncate(f.stmtStart)
	t.ops.Truncate(f.opStart)
	t.slots.watermark = f.watermark
	t.slots.free = f.free
	if f.derivLen < len(t.derivatives) {
		t.derivatives = t.derivatives[:f.derivLen]
	}
	t.checkpoints = t.checkpoints[:f.ckptStart]
}

// ResetTo rewinds the tape's statement/operation buffers (and prunes
// checkpoints/free-ranges above the corresponding slot bound) to pos,
// without touching the slot watermark or derivative-vector length —
// mirrors original_source/src/Tape.cpp's resetTo, which is a no-op
// guard followed by truncation, checkpoint pruning via upper_bound,
// and trimming of the reusable-range list from the tail, but never
// rolls back slot allocation (live Real values outside the discarded
// region may still reference slots allocated inside it conceptually
// having been superseded, but the watermark only ever grows across a
// ResetTo — only EndNestedRecording performs a true rollback).
func (t *Tape) ResetTo(pos int) {
	if pos >= t.GetPosition() {
		return
	}
	if pos < 0 {
		pos = 0
	}

	opBound := uint32(t.ops.Len())
	if pos+1 < t.stmts.Len() {
		opBound = t.stmts.At(pos + 1).OpStart
	}

	t.stmts.Truncate(pos + 1)
	t.ops.Truncate(int(opBound))

	// Drop checkpoints inserted after pos (upper_bound on pos).
	i := len(t.checkpoints)
	for i > 0 && t.checkpoints[i-1].pos > pos {
		i--
	}
	t.checkpoints = t.checkpoints[:i]

	t.slots.trimAbove(t.curFrame().maxDerivative)
}

func cloneFree(f []slotRange) []slotRange {
	if f == nil {
		return nil
	}
	c := make([]slotRange, len(f))
	copy(c, f)
	return c
}
