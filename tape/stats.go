package tape

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats reports the tape's current memory footprint, giving §5's
// "memory" discussion (peak memory across a loop of recordings,
// ResetTo bounding it) something a test can actually assert on.
type Stats struct {
	Statements  int
	Operations  int
	Slots       int
	FreeSlots   int
	Checkpoints int
	Bytes       uint64
}

// String renders Stats using humanize.Bytes, matching how the rest of
// this corpus formats memory figures for logs.
func (s Stats) String() string {
	return fmt.Sprintf("stmts=%d ops=%d slots=%d free=%d checkpoints=%d mem=%s",
		s.Statements, s.Operations, s.Slots, s.FreeSlots, s.Checkpoints,
		humanize.Bytes(s.Bytes))
}

// Stats computes the tape's current memory footprint from its buffer
// and vector lengths.
func (t *Tape) Stats() Stats {
	const opSize = 16   // float64 + uint32, padded
	const stmtSize = 8  // uint32 + uint32
	const derivSize = 8 // float64

	return Stats{
		Statements:  t.stmts.Len(),
		Operations:  t.ops.Len(),
		Slots:       int(t.slots.watermark),
		FreeSlots:   t.slots.totalFree(),
		Checkpoints: len(t.checkpoints),
		Bytes: uint64(t.stmts.Len())*stmtSize +
			uint64(t.ops.Len())*opSize +
			uint64(len(t.derivatives))*derivSize,
	}
}
