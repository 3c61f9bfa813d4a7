package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_PageConfig_DefaultSchedule(t *testing.T) {
	require.Equal(t, []int{16, 64, 256, 1024, 4096, 4096}, ConfigDefault.Schedule(6))
}

func Test_PageConfig_Presets(t *testing.T) {
	tests := []struct {
		cfg  PageConfig
		want []int
	}{
		{ConfigCompact, []int{8, 16, 32, 64, 128, 256, 512, 512}},
		{ConfigThroughput, []int{256, 2048, 16384, 65536}},
		{ConfigFixed(10), []int{10, 10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.String(), func(t *testing.T) {
			require.NoError(t, tt.cfg.Validate())
			require.Equal(t, tt.want, tt.cfg.Schedule(len(tt.want)))
		})
	}
}

func Test_PageConfig_Validate(t *testing.T) {
	bad := []PageConfig{
		{First: 0, Growth: 2},
		{First: 16, Growth: 0},
		{First: 16, Growth: 2, Max: 8},
	}
	for _, c := range bad {
		err := c.Validate()
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrBadConfig))
	}
}

func Test_PageConfig_UnsetMax(t *testing.T) {
	c := PageConfig{First: 1, Growth: 2}
	require.Equal(t, 1<<16, c.Capacity(40))
	require.Equal(t, 8, c.Capacity(3))
}

func Test_CapacityOf_ClampsCustomPolicies(t *testing.T) {
	require.Equal(t, 1, CapacityOf(PolicyFunc(func(int) int { return 0 }), 0))
	require.Equal(t, 16, CapacityOf(nil, 0))
	require.Equal(t, 5, CapacityOf(PolicyFunc(func(i int) int { return i + 5 }), 0))
}

func Test_Accounting_Snapshot(t *testing.T) {
	var a Accounting
	a.PageAllocated(16)
	a.PageAllocated(64)
	a.PageFreed(16)
	a.PageOrphaned()

	s := a.Snapshot()
	require.Equal(t, int64(2), s.PagesAllocated)
	require.Equal(t, int64(1), s.PagesFreed)
	require.Equal(t, int64(80), s.SlotsAllocated)
	require.Equal(t, int64(16), s.SlotsFreed)
	require.Equal(t, int64(1), s.PagesOrphaned)
	require.Equal(t, int64(1), a.LivePages())
}
