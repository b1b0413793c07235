package tape

import "sort"

// slotRange is a half-open range [Lo, Hi) of free slots.
type slotRange struct {
	Lo, Hi uint32
}

// slotAllocator assigns and releases slot indices (C2). With reuse
// disabled it is just a watermark counter; with reuse enabled it also
// tracks a sorted, disjoint set of free ranges so that released slots
// can be handed back out, keeping the derivative vector compact.
type slotAllocator struct {
	reuse     bool
	watermark uint32
	free      []slotRange // sorted by Lo, pairwise disjoint, non-empty
}

// register returns a fresh slot, preferring the first free range when
// reuse is enabled.
func (a *slotAllocator) register() uint32 {
	if a.reuse && len(a.free) > 0 {
		r := &a.free[0]
		s := r.Lo
		r.Lo++
		if r.Lo == r.Hi {
			a.free = a.free[1:]
		}
		return s
	}
	s := a.watermark
	a.watermark++
	return s
}

// unregister releases slot. Without reuse, only a release of the most
// recently allocated slot has any effect (the watermark decrements);
// otherwise the release is silently ignored, matching §4.2.
func (a *slotAllocator) unregister(slot uint32) {
	if !a.reuse {
		if slot == a.watermark-1 {
			a.watermark--
		}
		return
	}

	if slot == a.watermark-1 {
		// Case (a): shrink the watermark, absorbing any free range
		// that now borders it from below.
		a.watermark--
		for len(a.free) > 0 {
			last := &a.free[len(a.free)-1]
			if last.Hi != a.watermark {
				break
			}
			a.watermark = last.Lo
			a.free = a.free[:len(a.free)-1]
		}
		return
	}

	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].Lo >= slot })

	// Case (b): adjacent to an existing range.
	if i > 0 && a.free[i-1].Hi == slot {
		a.free[i-1].Hi++
		if i < len(a.free) && a.free[i-1].Hi == a.free[i].Lo {
			a.free[i-1].Hi = a.free[i].Hi
			a.free = append(a.free[:i], a.free[i+1:]...)
		}
		return
	}
	if i < len(a.free) && a.free[i].Lo == slot+1 {
		a.free[i].Lo = slot
		return
	}

	// Case (c): new singleton range at the binary-search position.
	a.free = append(a.free, slotRange{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = slotRange{Lo: slot, Hi: slot + 1}
}

// trimAbove drops (or clamps) free ranges at or beyond max, used by
// ResetTo to keep invariant 4 holding across a rollback
// (EndNestedRecording instead restores the frame's saved free list).
func (a *slotAllocator) trimAbove(max uint32) {
	for len(a.free) > 0 {
		last := &a.free[len(a.free)-1]
		if last.Hi < max {
			break
		}
		if last.Lo >= max {
			a.free = a.free[:len(a.free)-1]
			continue
		}
		last.Hi = max
		break
	}
}

// totalFree returns the number of slots currently free, for Stats.
func (a *slotAllocator) totalFree() int {
	n := 0
	for _, r := range a.free {
		n += int(r.Hi - r.Lo)
	}
	return n
}
