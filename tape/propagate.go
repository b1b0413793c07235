package tape

import (
	"math"

	"github.com/pkg/errors"
)

// ComputeAdjoints runs the reverse sweep over the whole current
// recording, from the last statement back to the start of it. Callers
// seed the output adjoint (SetDerivative on the output slot, usually
// to 1) before calling this; SetDerivative is what raises the current
// frame's derivatives_initialized flag, which ComputeAdjoints requires
// before it will propagate (invariant 7) — fails with
// ErrDerivativesNotInitialized otherwise, matching original_source's
// Tape::computeAdjoints.
func (t *Tape) ComputeAdjoints() error {
	if !t.curFrame().derivativesInitialized {
		return errors.Wrap(ErrDerivativesNotInitialized, "ComputeAdjoints")
	}
	t.ComputeAdjointsTo(t.frames[len(t.frames)-1].stmtStart - 1)
	return nil
}

// ComputeAdjointsTo runs the reverse sweep down to (but not including)
// statement position target, stopping at each checkpoint boundary
// crossed along the way to invoke its callback instead of replaying
// the (unrecorded) region it stands in for.
//
// A checkpoint's recorded position can coincide with another
// checkpoint's (nothing was recorded between them, e.g. a sequence of
// checkpointed calls with no tape statements in between); such ties
// are resolved most-recently-inserted first, since that is the
// correct reverse order regardless of position. This assumes
// checkpoints are encountered in non-decreasing position order across
// one sweep, true as long as callbacks don't themselves insert new
// checkpoints at positions beyond the sweep's own starting position.
func (t *Tape) ComputeAdjointsTo(target int) {
	cur := t.GetPosition()
	for {
		idx, ok := t.nearestCheckpointInRange(target, cur)
		if !ok {
			if cur > target {
				t.computeAdjointsToImpl(target, cur)
			}
			return
		}
		cp := t.checkpoints[idx]
		if cur > cp.pos {
			t.computeAdjointsToImpl(cp.pos, cur)
		}
		cp.cb.ComputeAdjoint(t)
		t.checkpoints = t.checkpoints[:idx]
		cur = cp.pos
	}
}

// nearestCheckpointInRange returns the highest-index checkpoint whose
// position lies in [target, cur], if any — the most recently inserted
// one that still needs to fire before the sweep passes it.
func (t *Tape) nearestCheckpointInRange(target, cur int) (int, bool) {
	for i := len(t.checkpoints) - 1; i >= 0; i-- {
		p := t.checkpoints[i].pos
		if p >= target && p <= cur {
			return i, true
		}
	}
	return 0, false
}

// computeAdjointsToImpl is the inner reverse loop: for each statement
// from start down to pos+1, consume its output adjoint and fan it out
// across its operations' slots, using FMA for accuracy. Statements
// whose output adjoint is exactly zero are skipped (their fan-out
// could only ever add zero).
func (t *Tape) computeAdjointsToImpl(pos, start int) {
	for i := start; i > pos; i-- {
		st := t.stmts.At(i)
		adj := t.GetAndResetOutputAdjoint(st.Slot)
		if adj == 0 {
			continue
		}
		opStart, opEnd := t.opRangeFor(i)
		for o := opStart; o < opEnd; o++ {
			op := t.ops.At(o)
			if op.Slot == INVALID_SLOT {
				continue
			}
			t.ensureDerivative(op.Slot)
			t.derivatives[op.Slot] = math.FMA(adj, op.Multiplier, t.derivatives[op.Slot])
		}
	}
}
