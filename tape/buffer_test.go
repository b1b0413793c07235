package tape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkBufPushAt(t *testing.T) {
	b := newChunkBuf[int](2) // chunk size 4
	for i := 0; i < 10; i++ {
		require.Equal(t, i, b.Push(i*10))
	}
	require.Equal(t, 10, b.Len())
	for i := 0; i < 10; i++ {
		require.Equal(t, i*10, *b.At(i))
	}
}

func TestChunkBufAddressesStableAcrossGrowth(t *testing.T) {
	b := newChunkBuf[int](1) // chunk size 2
	b.Push(1)
	p := b.At(0)
	for i := 0; i < 20; i++ {
		b.Push(i)
	}
	require.Equal(t, 1, *p, "address obtained before growth must stay valid")
}

func TestChunkBufReserveThenPushReserved(t *testing.T) {
	b := newChunkBuf[int](2)
	b.Reserve(9)
	for i := 0; i < 9; i++ {
		b.PushReserved(i)
	}
	require.Equal(t, 9, b.Len())
	require.Equal(t, 8, *b.At(8))
}

func TestChunkBufTruncate(t *testing.T) {
	b := newChunkBuf[int](2)
	for i := 0; i < 20; i++ {
		b.Push(i)
	}
	b.Truncate(5)
	require.Equal(t, 5, b.Len())
	b.Push(99)
	require.Equal(t, 99, *b.At(5))
}

func TestChunkBufClear(t *testing.T) {
	b := newChunkBuf[int](2)
	for i := 0; i < 20; i++ {
		b.Push(i)
	}
	b.Clear()
	require.Equal(t, 0, b.Len())
}

func TestChunkBufChunksWalksValidCounts(t *testing.T) {
	b := newChunkBuf[int](2) // chunk size 4
	for i := 0; i < 10; i++ {
		b.Push(i)
	}
	var total int
	b.Chunks(func(chunk []int, valid int) bool {
		total += valid
		require.LessOrEqual(t, valid, len(chunk))
		return true
	})
	require.Equal(t, 10, total)
}
