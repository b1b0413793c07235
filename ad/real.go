package ad

import "github.com/auto-differentiation/xad-sub000/tape"

// Real is the active scalar (C5): an ordinary float64 value paired
// with a slot on whichever tape was active when it was created. A
// Real created with no tape active is passive — all arithmetic on it
// still computes the right value, but nothing is recorded and its
// Adjoint is always zero.
type Real struct {
	value float64
	slot  uint32
	tp    *tape.Tape
}

// New creates a Real seeded with v, registering a fresh slot on the
// tape active on the calling goroutine (or none, if no tape is
// active).
func New(v float64) Real {
	tp := tape.ActiveTape()
	if tp == nil {
		return Real{value: v, slot: tape.INVALID_SLOT}
	}
	return Real{value: v, slot: tp.NewSlot(), tp: tp}
}

// ConstReal wraps v as a Real with no tape, i.e. a passive value that
// participates in arithmetic but is never differentiated.
func ConstReal(v float64) Real { return Real{value: v, slot: tape.INVALID_SLOT} }

// Value returns the Real's current value.
func (r Real) Value() float64 { return r.value }

// Slot returns the tape slot backing r, or tape.INVALID_SLOT if r is
// passive.
func (r Real) Slot() uint32 { return r.slot }

// Tape returns the tape r is recorded on, or nil if r is passive.
func (r Real) Tape() *tape.Tape { return r.tp }

func (r Real) expr() Expr { return leafExpr{value: r.value, slot: r.slot} }

// Adjoint returns the accumulated adjoint stored at r's slot. Call
// after the owning tape's ComputeAdjoints. A passive Real, or a slot
// the owning tape no longer considers in range (e.g. after an
// EndNestedRecording that discarded it), reads as 0 — Real's
// slot is always one its own tape assigned it, so tape.ErrOutOfRange
// here would indicate a use-after-discard bug rather than a condition
// callers need to branch on.
func (r Real) Adjoint() float64 {
	if r.tp == nil {
		return 0
	}
	v, _ := r.tp.Derivative(r.slot)
	return v
}

// SetAdjoint seeds r's adjoint directly, typically used to mark an
// output with derivative 1 before calling ComputeAdjoints.
func (r Real) SetAdjoint(v float64) {
	if r.tp != nil {
		r.tp.SetDerivative(r.slot, v)
	}
}

// RegisterOutput marks r as an output of the current computation: it
// emits a zero-operation statement for r's slot so that a seeded
// adjoint on it is found by reverse propagation even if r was never
// the target of an Assign (a pass-through result equal to one of the
// function's raw inputs, for instance). No-op if r is passive.
func (r Real) RegisterOutput() {
	if r.tp != nil {
		r.tp.RegisterOutput(r.slot)
	}
}

// Assign evaluates e and records it as r's defining statement: r's
// value becomes e.Value(), and — unless r is passive — a single fused
// tape statement is pushed with one operation per distinct active
// leaf reachable from e.
func (r *Real) Assign(e Expr) {
	r.value = e.Value()
	if r.tp == nil {
		return
	}
	out := newFanout(e.numLeaves())
	e.walk(1, out)

	r.tp.ReserveOperations(len(out.slots))
	r.tp.PushStatement(r.slot)
	for _, s := range out.slots {
		r.tp.PushOperation(out.coefs[s], s)
	}
}

// AddAssign, SubAssign, MulAssign and DivAssign are Go's substitute
// for the source's `+=`/`-=`/`*=`/`/=` operators: each re-records r as
// a fresh statement combining its previous value with e.
func (r *Real) AddAssign(e Expr) { r.Assign(Add(r.expr(), e)) }
func (r *Real) SubAssign(e Expr) { r.Assign(Sub(r.expr(), e)) }
func (r *Real) MulAssign(e Expr) { r.Assign(Mul(r.expr(), e)) }
func (r *Real) DivAssign(e Expr) { r.Assign(Div(r.expr(), e)) }

// Copy returns a new Real on the same tape, recorded via an identity
// statement (dy/dx = 1). Plain `:=`/`=` of a Real is a passive struct
// copy not observed by the tape — both copies would alias the same
// slot — so code that needs the tape to see a genuine second variable
// must call Copy explicitly.
func (r Real) Copy() Real {
	if r.tp == nil {
		return Real{value: r.value, slot: tape.INVALID_SLOT}
	}
	out := Real{value: r.value, slot: r.tp.NewSlot(), tp: r.tp}
	out.Assign(r.expr())
	return out
}

// Expr exposes r as an Expr for composing into larger expressions,
// e.g. ad.Add(x.Expr(), y.Expr()).
func (r Real) Expr() Expr { return r.expr() }
