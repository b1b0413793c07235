package ad

// Neg, Add, Sub, Mul and Div are Go's substitute for operator
// overloading: package-level functions (and the matching methods
// below) that build an Expr node instead of an overloaded infix
// operator.
func Neg(x Expr) Expr {
	return newNode(-x.Value(), []Expr{x}, []float64{-1})
}

func Add(x, y Expr) Expr {
	return newNode(x.Value()+y.Value(), []Expr{x, y}, []float64{1, 1})
}

func Sub(x, y Expr) Expr {
	return newNode(x.Value()-y.Value(), []Expr{x, y}, []float64{1, -1})
}

func Mul(x, y Expr) Expr {
	return newNode(x.Value()*y.Value(), []Expr{x, y}, []float64{y.Value(), x.Value()})
}

func Div(x, y Expr) Expr {
	yv := y.Value()
	v := x.Value() / yv
	return newNode(v, []Expr{x, y}, []float64{1 / yv, -v / yv})
}

// Sum fuses an arbitrary number of operands into a single node,
// avoiding the O(n) chain of binary Add nodes a fold would build.
func Sum(xs ...Expr) Expr {
	v := 0.0
	coefs := make([]float64, len(xs))
	for i, x := range xs {
		v += x.Value()
		coefs[i] = 1
	}
	return newNode(v, xs, coefs)
}

func (r Real) Neg() Expr     { return Neg(r.expr()) }
func (r Real) Add(y Expr) Expr { return Add(r.expr(), y) }
func (r Real) Sub(y Expr) Expr { return Sub(r.expr(), y) }
func (r Real) Mul(y Expr) Expr { return Mul(r.expr(), y) }
func (r Real) Div(y Expr) Expr { return Div(r.expr(), y) }
