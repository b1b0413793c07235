package ad

import "reflect"

// GradientFunc computes the partial derivative of an elemental
// function's output with respect to each of its inputs, given the
// already-evaluated input values and the output value.
type GradientFunc func(output float64, inputs []float64) []float64

var elementals = map[uintptr]GradientFunc{}

func fkey(fn interface{}) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// RegisterElemental associates fn with grad so that a call to fn built
// with Elemental is recorded, once assigned, as a single fused tape
// statement. This generalizes the teacher's math-only elemental
// registry (sqrt, exp, log, ...) to arbitrary external functions, such
// as a summation with a hand-supplied gradient, which has no
// closed-form built-in partial the way math.Sin does.
func RegisterElemental(fn interface{}, grad GradientFunc) {
	elementals[fkey(fn)] = grad
}

// ElementalGradient looks up the gradient registered for fn.
func ElementalGradient(fn interface{}) (GradientFunc, bool) {
	g, ok := elementals[fkey(fn)]
	return g, ok
}

// Elemental evaluates fn(inputs...) once and returns an Expr node whose
// partials come from fn's registered gradient, so that Assign records
// the call as a single fused statement without ever recording fn's
// internals on the tape. fn must have been registered with
// RegisterElemental first.
func Elemental(fn func(...float64) float64, args ...Expr) Expr {
	grad, ok := ElementalGradient(fn)
	if !ok {
		panic("ad: Elemental called with unregistered function")
	}

	values := make([]float64, len(args))
	for i, a := range args {
		values[i] = a.Value()
	}
	out := fn(values...)
	coefs := grad(out, values)
	return newNode(out, args, coefs)
}
