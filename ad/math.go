package ad

import "math"

const (
	ln2  = math.Ln2
	ln10 = math.Ln10
)

func unary(v float64, x Expr, dv float64) Expr {
	return newNode(v, []Expr{x}, []float64{dv})
}

func binary(v float64, x, y Expr, dx, dy float64) Expr {
	return newNode(v, []Expr{x, y}, []float64{dx, dy})
}

// Sqrt, Pow, Log and friends are the full math function set from the
// external-interfaces section: each a unary or binary Expr
// constructor whose local partial follows ordinary calculus.

func Sqrt(x Expr) Expr {
	v := math.Sqrt(x.Value())
	return unary(v, x, 0.5/v)
}

func Pow(x, y Expr) Expr {
	xv, yv := x.Value(), y.Value()
	v := math.Pow(xv, yv)
	return binary(v, x, y, yv*math.Pow(xv, yv-1), v*math.Log(xv))
}

func Log(x Expr) Expr    { return unary(math.Log(x.Value()), x, 1/x.Value()) }
func Log2(x Expr) Expr   { return unary(math.Log2(x.Value()), x, 1/(x.Value()*ln2)) }
func Log10(x Expr) Expr  { return unary(math.Log10(x.Value()), x, 1/(x.Value()*ln10)) }
func Exp(x Expr) Expr    { v := math.Exp(x.Value()); return unary(v, x, v) }
func Exp2(x Expr) Expr   { v := math.Exp2(x.Value()); return unary(v, x, v*ln2) }
func Expm1(x Expr) Expr  { return unary(math.Expm1(x.Value()), x, math.Exp(x.Value())) }
func Log1p(x Expr) Expr  { return unary(math.Log1p(x.Value()), x, 1/(1+x.Value())) }

// Ldexp is active-times-passive-integer-exponent, per
// original_source/src/XAD/UnaryOperators.hpp: x*2^exp, derivative 2^exp.
func Ldexp(x Expr, exp int) Expr {
	scale := math.Ldexp(1, exp)
	return unary(math.Ldexp(x.Value(), exp), x, scale)
}

// Frexp mirrors the original's out-parameter pattern as a second
// return value: frac is active (derivative 1/2^exp locally), exp is
// the passive integer exponent.
func Frexp(x Expr) (frac Expr, exp int) {
	f, e := math.Frexp(x.Value())
	return unary(f, x, math.Ldexp(1, -e)), e
}

// Modf splits x into integer and fractional parts; the integer part
// is piecewise constant (derivative 0), the fractional part tracks x
// exactly (derivative 1).
func Modf(x Expr) (intPart, fracPart Expr) {
	i, f := math.Modf(x.Value())
	return unary(i, x, 0), unary(f, x, 1)
}

func Fmod(x, y Expr) Expr {
	return binary(math.Mod(x.Value(), y.Value()), x, y, 1, -math.Trunc(x.Value()/y.Value()))
}

func Remainder(x, y Expr) Expr {
	return binary(math.Remainder(x.Value(), y.Value()), x, y, 1, -math.Round(x.Value()/y.Value()))
}

// Remquo additionally returns the passive low-order bits of the
// quotient, matching the original's out-parameter.
func Remquo(x, y Expr) (Expr, int) {
	xv, yv := x.Value(), y.Value()
	q := int(math.Round(xv / yv))
	return binary(math.Remainder(xv, yv), x, y, 1, -math.Round(xv/yv)), q
}

// Min, Max, Fmin and Fmax route the full derivative to whichever
// operand is selected (a subgradient choice); an exact tie splits the
// subgradient evenly between both operands instead of favoring either.
func Min(x, y Expr) Expr { return minmaxNode(x, y, x.Value() < y.Value()) }
func Max(x, y Expr) Expr { return minmaxNode(x, y, x.Value() > y.Value()) }
func Fmin(x, y Expr) Expr {
	v := math.Min(x.Value(), y.Value())
	return minmaxTo(v, x, y, x.Value() < y.Value())
}
func Fmax(x, y Expr) Expr {
	v := math.Max(x.Value(), y.Value())
	return minmaxTo(v, x, y, x.Value() > y.Value())
}

// minmaxNode picks x's or y's value as the result according to xWins
// (already the correct strict comparison for Min or Max) and builds
// the matching subgradient node.
func minmaxNode(x, y Expr, xWins bool) Expr {
	v := y.Value()
	if xWins {
		v = x.Value()
	}
	return minmaxTo(v, x, y, xWins)
}

// minmaxTo builds the Min/Max node for the already-selected value v:
// xWins routes the full subgradient to x, otherwise an exact tie
// (x.Value() == y.Value(), i.e. neither strictly won) splits it evenly
// between both operands, and a strict win for y routes it there.
func minmaxTo(v float64, x, y Expr, xWins bool) Expr {
	switch {
	case xWins:
		return binary(v, x, y, 1, 0)
	case x.Value() == y.Value():
		return binary(v, x, y, 0.5, 0.5)
	default:
		return binary(v, x, y, 0, 1)
	}
}

// SmoothAbs is the differentiable surrogate for Abs from
// original_source/src/XAD/JITGraphInterpreter.cpp: the odd piecewise
// cubic ax^2*(2/c - ax/c^2) for |x| <= c (ax = |x|), equal to |x|
// itself beyond c, parameterized by a smoothing width c that controls
// how sharp the approximation is (c -> 0 recovers Abs exactly).
func SmoothAbs(x Expr, c float64) Expr {
	xv := x.Value()
	ax := math.Abs(xv)
	sign := math.Copysign(1, xv)
	if ax > c {
		return unary(ax, x, sign)
	}
	v := ax * ax * (2/c - ax/(c*c))
	dv := sign * (4*ax/c - 3*ax*ax/(c*c))
	return unary(v, x, dv)
}

// SmoothMax and SmoothMin are differentiable approximations to
// Max/Min, composed from SmoothAbs exactly as
// original_source/src/XAD/JITGraphInterpreter.cpp derives them:
// max(a,b) = (a+b+|a-b|)/2, min(a,b) = (a+b-|a-b|)/2, with the smooth
// surrogate substituted for the absolute value. Composing through Add/
// Sub/Mul/SmoothAbs lets the existing fusion walk accumulate the
// partials instead of hand-deriving a binary node's coefficients.
func SmoothMax(a, b Expr, c float64) Expr {
	return Mul(Const(0.5), Add(Add(a, b), SmoothAbs(Sub(a, b), c)))
}

func SmoothMin(a, b Expr, c float64) Expr {
	return Mul(Const(0.5), Sub(Add(a, b), SmoothAbs(Sub(a, b), c)))
}

func Abs(x Expr) Expr  { return absLike(x) }
func Fabs(x Expr) Expr { return absLike(x) }

func absLike(x Expr) Expr {
	xv := x.Value()
	sign := math.Copysign(1, xv)
	return unary(math.Abs(xv), x, sign)
}

func Tan(x Expr) Expr  { v := math.Tan(x.Value()); return unary(v, x, 1+v*v) }
func Atan(x Expr) Expr { return unary(math.Atan(x.Value()), x, 1/(1+x.Value()*x.Value())) }
func Tanh(x Expr) Expr { v := math.Tanh(x.Value()); return unary(v, x, 1-v*v) }

func Atan2(y, x Expr) Expr {
	xv, yv := x.Value(), y.Value()
	denom := xv*xv + yv*yv
	return binary(math.Atan2(yv, xv), y, x, xv/denom, -yv/denom)
}

func Cos(x Expr) Expr  { return unary(math.Cos(x.Value()), x, -math.Sin(x.Value())) }
func Acos(x Expr) Expr { return unary(math.Acos(x.Value()), x, -1/math.Sqrt(1-x.Value()*x.Value())) }
func Cosh(x Expr) Expr { return unary(math.Cosh(x.Value()), x, math.Sinh(x.Value())) }
func Acosh(x Expr) Expr {
	xv := x.Value()
	return unary(math.Acosh(xv), x, 1/math.Sqrt(xv*xv-1))
}

func Sin(x Expr) Expr  { return unary(math.Sin(x.Value()), x, math.Cos(x.Value())) }
func Asin(x Expr) Expr { return unary(math.Asin(x.Value()), x, 1/math.Sqrt(1-x.Value()*x.Value())) }
func Sinh(x Expr) Expr { return unary(math.Sinh(x.Value()), x, math.Cosh(x.Value())) }
func Asinh(x Expr) Expr {
	xv := x.Value()
	return unary(math.Asinh(xv), x, 1/math.Sqrt(xv*xv+1))
}

func Cbrt(x Expr) Expr {
	v := math.Cbrt(x.Value())
	return unary(v, x, 1/(3*v*v))
}

func Erf(x Expr) Expr {
	xv := x.Value()
	return unary(math.Erf(xv), x, 2/math.SqrtPi*math.Exp(-xv*xv))
}

func Erfc(x Expr) Expr {
	xv := x.Value()
	return unary(math.Erfc(xv), x, -2/math.SqrtPi*math.Exp(-xv*xv))
}

// Nextafter is treated as an identity in x for differentiation
// purposes (it moves x by the smallest representable step toward y);
// y's direction contributes no derivative.
func Nextafter(x, y Expr) Expr {
	return binary(math.Nextafter(x.Value(), y.Value()), x, y, 1, 0)
}

// Trunc, Round, Floor and Ceil are piecewise constant: derivative 0
// everywhere they're differentiable.
func Trunc(x Expr) Expr { return unary(math.Trunc(x.Value()), x, 0) }
func Round(x Expr) Expr { return unary(math.Round(x.Value()), x, 0) }
func Floor(x Expr) Expr { return unary(math.Floor(x.Value()), x, 0) }
func Ceil(x Expr) Expr  { return unary(math.Ceil(x.Value()), x, 0) }

func Copysign(x, y Expr) Expr {
	v := math.Copysign(x.Value(), y.Value())
	return binary(v, x, y, math.Copysign(1, y.Value())*math.Copysign(1, x.Value()), 0)
}

func Hypot(x, y Expr) Expr {
	v := math.Hypot(x.Value(), y.Value())
	return binary(v, x, y, x.Value()/v, y.Value()/v)
}

// FPClassify, IsFinite, IsNaN, IsInf, Signbit and IsNormal are
// non-differentiable introspection on an Expr's current value; they
// return plain Go types, not Expr.
func FPClassify(x Expr) int {
	v := x.Value()
	switch {
	case math.IsNaN(v):
		return FPNaN
	case math.IsInf(v, 0):
		return FPInfinite
	case v == 0:
		return FPZero
	case math.Abs(v) < math.SmallestNonzeroFloat64*(1<<52):
		return FPSubnormal
	default:
		return FPNormal
	}
}

const (
	FPNaN = iota
	FPInfinite
	FPZero
	FPSubnormal
	FPNormal
)

func IsFinite(x Expr) bool { v := x.Value(); return !math.IsNaN(v) && !math.IsInf(v, 0) }
func IsNaN(x Expr) bool    { return math.IsNaN(x.Value()) }
func IsInf(x Expr) bool    { return math.IsInf(x.Value(), 0) }
func Signbit(x Expr) bool  { return math.Signbit(x.Value()) }
func IsNormal(x Expr) bool { return FPClassify(x) == FPNormal }
