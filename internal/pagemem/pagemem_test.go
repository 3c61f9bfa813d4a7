package pagemem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap_ZeroedAndWritable(t *testing.T) {
	p, err := Map(8192)
	require.NoError(t, err)
	require.Len(t, p.Data, 8192)

	for _, b := range p.Data {
		require.Zero(t, b)
	}
	p.Data[0] = 0xde
	p.Data[8191] = 0xad
	require.Equal(t, byte(0xad), p.Data[8191])

	require.NoError(t, p.Release())
	require.Nil(t, p.Data)
	require.NoError(t, p.Release(), "second release is a no-op")
}

func TestMap_InvalidSize(t *testing.T) {
	_, err := Map(0)
	require.Error(t, err)
}

func TestHeap(t *testing.T) {
	p, err := Heap(16)
	require.NoError(t, err)
	require.Len(t, p.Data, 16)
	require.NoError(t, p.Release())
}
