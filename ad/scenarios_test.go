package ad

import (
	"math"
	"testing"

	"github.com/auto-differentiation/xad-sub000/tape"
	"github.com/stretchr/testify/require"
)

// S1: y = 2*x1 + 3*x2.
func TestScenarioS1LinearCombination(t *testing.T) {
	withTape(t, func(tp *tape.Tape) {
		x1, x2 := New(5), New(7)
		y := New(0)
		y.Assign(Add(Mul(Const(2), x1.Expr()), Mul(Const(3), x2.Expr())))

		y.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())
		require.Equal(t, 2.0, x1.Adjoint())
		require.Equal(t, 3.0, x2.Adjoint())
	})
}

// S2: y = x1 * x2.
func TestScenarioS2Product(t *testing.T) {
	withTape(t, func(tp *tape.Tape) {
		x1, x2 := New(5), New(7)
		y := New(0)
		y.Assign(Mul(x1.Expr(), x2.Expr()))

		y.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())
		require.Equal(t, x2.Value(), x1.Adjoint())
		require.Equal(t, x1.Value(), x2.Adjoint())
	})
}

// S3: y = x^4, dy/dx = 4x^3.
func TestScenarioS3Quartic(t *testing.T) {
	withTape(t, func(tp *tape.Tape) {
		x := New(2.5)
		a := New(0)
		a.Assign(Mul(x.Expr(), x.Expr()))
		y := New(0)
		y.Assign(Mul(a.Expr(), a.Expr()))

		y.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())
		require.InDelta(t, 4*math.Pow(x.Value(), 3), x.Adjoint(), 1e-9)
	})
}

// S4: a compound expression mixing several operators and a math
// function, checked against a finite-difference estimate.
func TestScenarioS4CompoundExpression(t *testing.T) {
	f := func(xv, yv float64) float64 {
		return math.Sin(xv*yv) + xv/yv - math.Sqrt(yv)
	}

	withTape(t, func(tp *tape.Tape) {
		x, y := New(1.3), New(2.1)
		out := New(0)
		out.Assign(Sub(Add(Sin(Mul(x.Expr(), y.Expr())), Div(x.Expr(), y.Expr())), Sqrt(y.Expr())))

		require.InDelta(t, f(x.Value(), y.Value()), out.Value(), 1e-9)

		out.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())

		const h = 1e-6
		dx := (f(x.Value()+h, y.Value()) - f(x.Value()-h, y.Value())) / (2 * h)
		dy := (f(x.Value(), y.Value()+h) - f(x.Value(), y.Value()-h)) / (2 * h)
		require.InDelta(t, dx, x.Adjoint(), 1e-5)
		require.InDelta(t, dy, y.Adjoint(), 1e-5)
	})
}

// sinCheckpointCb mirrors original_source/samples/checkpointing: instead
// of recording sin's operation on the outer tape, its adjoint is
// recomputed on demand from the passive value.
type sinCheckpointCb struct {
	x       float64
	inSlot  uint32
	outSlot uint32
}

func (c *sinCheckpointCb) ComputeAdjoint(tp *tape.Tape) {
	outAdj := tp.GetAndResetOutputAdjoint(c.outSlot)
	_ = tp.IncrementAdjoint(c.inSlot, outAdj*math.Cos(c.x))
}

// S5: repeated sin with checkpointing — y = sin(sin(...sin(x)...))
// over n iterations, each iteration's sin checkpointed instead of
// fused into the tape; no statement is recorded, so the reverse sweep
// consists of the checkpoint callbacks firing most recent first.
func TestScenarioS5RepeatedSinWithCheckpointing(t *testing.T) {
	withTape(t, func(tp *tape.Tape) {
		const n = 5
		x := New(0.6)
		cur := x

		xv := x.Value()
		for i := 0; i < n; i++ {
			next := New(math.Sin(xv))
			tp.InsertCallback(&sinCheckpointCb{x: xv, inSlot: cur.Slot(), outSlot: next.Slot()})
			xv = next.Value()
			cur = next
		}

		cur.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())

		// Reference: d/dx of repeated sin via direct finite difference.
		apply := func(v float64) float64 {
			for i := 0; i < n; i++ {
				v = math.Sin(v)
			}
			return v
		}
		const h = 1e-6
		want := (apply(x.Value()+h) - apply(x.Value()-h)) / (2 * h)
		require.InDelta(t, want, x.Adjoint(), 1e-5)
	})
}

// sumSquaresCallback implements the external summation callback of S6:
// y = sqrt(sum(x_i^2)), with the sum of squares computed outside the
// tape and inserted as a checkpoint callback whose gradient is
// supplied directly (2*x_i), rather than fusing n multiply-adds.
type sumSquaresCallback struct {
	inputs  []Real
	xs      []float64
	sumSlot uint32
}

func (c *sumSquaresCallback) ComputeAdjoint(tp *tape.Tape) {
	outAdj := tp.GetAndResetOutputAdjoint(c.sumSlot)
	for i, in := range c.inputs {
		_ = tp.IncrementAdjoint(in.Slot(), outAdj*2*c.xs[i])
	}
}

// S6: y = sqrt(sum_i x_i^2), where the sum is an external (checkpointed)
// function rather than a sequence of fused tape statements.
func TestScenarioS6ExternalSummationCallback(t *testing.T) {
	withTape(t, func(tp *tape.Tape) {
		xs := []Real{New(1), New(2), New(3), New(4)}
		values := make([]float64, len(xs))
		sumSq := 0.0
		for i, x := range xs {
			values[i] = x.Value()
			sumSq += x.Value() * x.Value()
		}

		sumVar := New(sumSq)
		tp.InsertCallback(&sumSquaresCallback{inputs: xs, xs: values, sumSlot: sumVar.Slot()})

		y := New(0)
		y.Assign(Sqrt(sumVar.Expr()))

		y.SetAdjoint(1)
		require.NoError(t, tp.ComputeAdjoints())

		for i, x := range xs {
			want := values[i] / math.Sqrt(sumSq) // d/dxi sqrt(sum xj^2) = xi/sqrt(sum)
			require.InDelta(t, want, x.Adjoint(), 1e-9)
		}
	})
}
