package forward

// Dual is a value paired with its derivative with respect to some
// implicit independent variable, propagated eagerly rather than
// recorded for later reverse traversal.
type Dual struct {
	Value      float64
	Derivative float64
}

// Var creates an independent variable seeded with derivative 1.
func Var(v float64) Dual { return Dual{Value: v, Derivative: 1} }

// Const creates a passive value with derivative 0.
func Const(v float64) Dual { return Dual{Value: v} }

func Neg(x Dual) Dual { return Dual{-x.Value, -x.Derivative} }

func Add(x, y Dual) Dual {
	return Dual{x.Value + y.Value, x.Derivative + y.Derivative}
}

func Sub(x, y Dual) Dual {
	return Dual{x.Value - y.Value, x.Derivative - y.Derivative}
}

func Mul(x, y Dual) Dual {
	return Dual{x.Value * y.Value, x.Derivative*y.Value + x.Value*y.Derivative}
}

func Div(x, y Dual) Dual {
	v := x.Value / y.Value
	return Dual{v, (x.Derivative - v*y.Derivative) / y.Value}
}

func (x Dual) Add(y Dual) Dual { return Add(x, y) }
func (x Dual) Sub(y Dual) Dual { return Sub(x, y) }
func (x Dual) Mul(y Dual) Dual { return Mul(x, y) }
func (x Dual) Div(y Dual) Dual { return Div(x, y) }
func (x Dual) Neg() Dual       { return Neg(x) }
