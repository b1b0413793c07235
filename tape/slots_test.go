package tape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotAllocatorNoReuseIgnoresRelease(t *testing.T) {
	a := &slotAllocator{}
	s0 := a.register()
	s1 := a.register()
	require.Equal(t, uint32(0), s0)
	require.Equal(t, uint32(1), s1)
	a.unregister(s0)
	s2 := a.register()
	require.Equal(t, uint32(2), s2, "releasing a non-tip slot without reuse must not be reclaimed")
}

func TestSlotAllocatorNoReuseShrinksTip(t *testing.T) {
	a := &slotAllocator{}
	a.register()
	s1 := a.register()
	a.unregister(s1)
	require.Equal(t, uint32(1), a.watermark)
	s2 := a.register()
	require.Equal(t, s1, s2)
}

func TestSlotAllocatorReuseWatermarkAbsorption(t *testing.T) {
	a := &slotAllocator{reuse: true}
	for i := 0; i < 5; i++ {
		a.register()
	}
	a.unregister(4)
	a.unregister(3)
	require.Equal(t, uint32(3), a.watermark)
	require.Empty(t, a.free)
}

func TestSlotAllocatorReuseAdjacentMerge(t *testing.T) {
	a := &slotAllocator{reuse: true}
	for i := 0; i < 10; i++ {
		a.register()
	}
	a.unregister(3)
	a.unregister(5)
	a.unregister(4) // should merge [3,4) and [5,6) into [3,6)
	require.Equal(t, []slotRange{{Lo: 3, Hi: 6}}, a.free)
}

func TestSlotAllocatorReuseBinarySearchInsert(t *testing.T) {
	a := &slotAllocator{reuse: true}
	for i := 0; i < 10; i++ {
		a.register()
	}
	a.unregister(2)
	a.unregister(7)
	a.unregister(4)
	require.Equal(t, []slotRange{{Lo: 2, Hi: 3}, {Lo: 4, Hi: 5}, {Lo: 7, Hi: 8}}, a.free)
}

func TestSlotAllocatorReuseRegisterFromFree(t *testing.T) {
	a := &slotAllocator{reuse: true}
	for i := 0; i < 5; i++ {
		a.register()
	}
	a.unregister(2)
	s := a.register()
	require.Equal(t, uint32(2), s)
	require.Empty(t, a.free)
}

func TestSlotAllocatorTrimAbove(t *testing.T) {
	a := &slotAllocator{reuse: true, free: []slotRange{{Lo: 2, Hi: 4}, {Lo: 6, Hi: 9}}}
	a.trimAbove(7)
	require.Equal(t, []slotRange{{Lo: 2, Hi: 4}, {Lo: 6, Hi: 7}}, a.free)
}
