package ad

import "github.com/auto-differentiation/xad-sub000/tape"

// Expr is an in-memory expression node built by arithmetic on Real
// values and passive constants. Building an Expr never touches the
// tape; only Assign does, by walking the tree once and recording it
// as a single fused statement.
type Expr interface {
	// Value returns the expression's already-computed result.
	Value() float64

	numLeaves() int
	walk(coef float64, out *fanout)
}

// fanout accumulates, per active slot, the total chain-rule
// coefficient contributed by every occurrence of that slot in the
// expression tree being recorded — the mechanism that turns a tree
// with repeated leaves (x*x, or any expression using x twice) into a
// single tape operation per leaf instead of one per occurrence.
type fanout struct {
	slots []uint32
	coefs map[uint32]float64
}

func newFanout(capacityHint int) *fanout {
	return &fanout{coefs: make(map[uint32]float64, capacityHint)}
}

func (f *fanout) add(slot uint32, coef float64) {
	if slot == tape.INVALID_SLOT || coef == 0 {
		return
	}
	if _, ok := f.coefs[slot]; !ok {
		f.slots = append(f.slots, slot)
	}
	f.coefs[slot] += coef
}

// constExpr is a passive (non-differentiable) value: a plain float64
// literal used in an expression, e.g. ad.Mul(x, ad.Const(2)).
type constExpr float64

// Const wraps a passive float64 for use in an expression.
func Const(v float64) Expr { return constExpr(v) }

func (c constExpr) Value() float64                { return float64(c) }
func (c constExpr) numLeaves() int                 { return 0 }
func (c constExpr) walk(coef float64, out *fanout) {}

// leafExpr references an active Real's current value and slot.
type leafExpr struct {
	value float64
	slot  uint32
}

func (l leafExpr) Value() float64 { return l.value }
func (l leafExpr) numLeaves() int { return 1 }
func (l leafExpr) walk(coef float64, out *fanout) {
	out.add(l.slot, coef)
}

// node is the single generic representation for every non-leaf,
// non-constant expression: a computed value plus, for each child
// sub-expression, the local partial derivative of this node's value
// with respect to that child. Unary, binary and n-ary operators are
// all just nodes with one, two, or more kids.
type node struct {
	value     float64
	kids      []Expr
	coefs     []float64
	leafCount int
}

func newNode(value float64, kids []Expr, coefs []float64) *node {
	n := &node{value: value, kids: kids, coefs: coefs}
	for _, k := range kids {
		n.leafCount += k.numLeaves()
	}
	return n
}

func (n *node) Value() float64 { return n.value }
func (n *node) numLeaves() int { return n.leafCount }
func (n *node) walk(coef float64, out *fanout) {
	for i, k := range n.kids {
		c := n.coefs[i]
		if c == 0 {
			continue
		}
		k.walk(coef*c, out)
	}
}
