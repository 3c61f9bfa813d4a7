package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Bitmap_SetClearAcrossWords(t *testing.T) {
	b := NewBitmap(130)
	require.Equal(t, 3, b.Words())
	require.Equal(t, 130, b.Len())

	for _, i := range []int{0, 63, 64, 129} {
		b.Set(i)
		require.True(t, b.Test(i), "bit %d", i)
	}
	require.Equal(t, 4, b.Count())
	require.Equal(t, uint64(1)|1<<63, b.Word(0))

	require.True(t, b.Clear(63))
	require.False(t, b.Clear(63), "second clear reports bit already clear")
	require.False(t, b.Test(63))
	require.Equal(t, 3, b.Count())

	b.Reset()
	require.Equal(t, 0, b.Count())
}

func Test_Bitmap_NextSet(t *testing.T) {
	b := NewBitmap(200)
	b.Set(3)
	b.Set(70)
	b.Set(199)

	require.Equal(t, 3, b.NextSet(0))
	require.Equal(t, 3, b.NextSet(3))
	require.Equal(t, 70, b.NextSet(4))
	require.Equal(t, 199, b.NextSet(71))
	require.Equal(t, -1, b.NextSet(200))

	b.Clear(199)
	require.Equal(t, -1, b.NextSet(71))
}
