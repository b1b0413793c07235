package ad

import (
	"testing"

	"github.com/auto-differentiation/xad-sub000/forward"
	"github.com/auto-differentiation/xad-sub000/tape"
	"github.com/stretchr/testify/require"
)

// Property: reverse-mode (package ad) and forward-mode (package
// forward) agree on both value and derivative for the same expression.
func TestCrossCheckReverseMatchesForward(t *testing.T) {
	xv, yv := 1.4, 0.9

	var revDx, revDy, revVal float64
	withTape(t, func(tp *tape.Tape) {
		x, y := New(xv), New(yv)
		out := New(0)
		out.Assign(Sub(Sin(Mul(x.Expr(), y.Expr())), Div(x.Expr(), y.Expr())))
		revVal = out.Value()

		out.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())
		revDx = x.Adjoint()
		revDy = y.Adjoint()
	})

	// Forward-mode w.r.t. x: seed x's tangent to 1, y's to 0.
	fx := forward.Sin(forward.Mul(forward.Var(xv), forward.Const(yv)))
	fx = forward.Sub(fx, forward.Div(forward.Var(xv), forward.Const(yv)))

	fy := forward.Sin(forward.Mul(forward.Const(xv), forward.Var(yv)))
	fy = forward.Sub(fy, forward.Div(forward.Const(xv), forward.Var(yv)))

	require.InDelta(t, fx.Value, revVal, 1e-12)
	require.InDelta(t, fx.Derivative, revDx, 1e-9)
	require.InDelta(t, fy.Derivative, revDy, 1e-9)
}
