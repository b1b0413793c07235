// Package tape implements the reverse-mode recording tape: chunked
// append-only buffers of operations and statements, a slot allocator for
// the derivative vector, nested sub-recordings, checkpoint callbacks, and
// the reverse propagation sweep.
//
// tape has no notion of expressions or of the active scalar type that
// user code writes arithmetic with; see package ad for those. tape only
// knows about slots (uint32 indices into the derivative vector) and the
// two record types that describe how they combine.
package tape
