// Package ad provides the operator-overloaded active scalar (Real)
// and the expression-fusion layer that sits between ordinary Go
// arithmetic and package tape's recording primitives.
//
// Go has no operator overloading, so arithmetic on Real is written as
// package-level functions and methods (ad.Add, x.Mul(y), ad.Sin(x))
// instead of infix operators. Building an expression out of these
// calls does not touch the tape at all: the calls build an in-memory
// Expr tree (with values computed eagerly), and only Assign (called by
// Real's assignment operators) walks that tree once and records it as
// a single fused tape statement, one operation per distinct active
// leaf.
package ad
