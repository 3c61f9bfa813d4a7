package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/hive/store"
)

func resetFlags(t *testing.T) {
	t.Helper()
	jsonOut, quiet, verbose = false, false, false
	cfg = store.DefaultConfig()
	t.Cleanup(func() {
		jsonOut, quiet, verbose = false, false, false
		cfg = store.DefaultConfig()
	})
}

func TestParsePolicy(t *testing.T) {
	resetFlags(t)

	tests := []struct {
		name    string
		want    alloc.PageConfig
		wantErr bool
	}{
		{name: "", want: alloc.ConfigDefault},
		{name: "default", want: alloc.ConfigDefault},
		{name: "Compact", want: alloc.ConfigCompact},
		{name: "throughput", want: alloc.ConfigThroughput},
		{name: "fixed:32", want: alloc.ConfigFixed(32)},
		{name: "fixed:0", wantErr: true},
		{name: "fixed:x", wantErr: true},
		{name: "huge", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePolicy(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	resetFlags(t)
	layoutPolicy, layoutPages = "default", 5

	out, err := captureOutput(t, runLayout)
	require.NoError(t, err)
	assertContains(t, out, []string{"Policy: Default", "4,096", "5,456"})
}

func TestLayoutCommand_JSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true
	layoutPolicy, layoutPages = "fixed:10", 3

	out, err := captureOutput(t, runLayout)
	require.NoError(t, err)
	assertJSON(t, out)

	var got struct {
		Policy string      `json:"policy"`
		Pages  []LayoutRow `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "Fixed10", got.Policy)
	require.Equal(t, []LayoutRow{{0, 10, 10}, {1, 10, 20}, {2, 10, 30}}, got.Pages)
}

func setSimulateFlags(objects, workers, removeEvery, holdEvery, rawElems int, closeFirst bool) {
	simObjects, simWorkers = objects, workers
	simRemoveEvery, simHoldEvery = removeEvery, holdEvery
	simRawElems, simCloseFirst = rawElems, closeFirst
}

func TestSimulateCommand_JSON(t *testing.T) {
	for _, closeFirst := range []bool{false, true} {
		resetFlags(t)
		jsonOut = true
		setSimulateFlags(300, 3, 3, 5, 50, closeFirst)

		out, err := captureOutput(t, runSimulate)
		require.NoError(t, err)

		var res SimulateResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Equal(t, 900, res.Added)
		require.Equal(t, 300, res.Removed)
		require.Equal(t, 60, res.Held)
		require.Equal(t, 600, res.Visited)
		require.Equal(t, 600, res.Hive.Live)
		require.Equal(t, 60, res.Hive.Zombies)
		require.Equal(t, 150, res.Raw.Live)

		require.NotNil(t, res.AfterClose)
		require.Equal(t, res.AfterClose.PagesAllocated, res.AfterClose.PagesFreed, "no page outlives its handles")
		if closeFirst {
			require.NotZero(t, res.AfterClose.PagesOrphaned)
		} else {
			require.Zero(t, res.AfterClose.PagesOrphaned)
		}
	}
}

func TestSimulateCommand_Text(t *testing.T) {
	resetFlags(t)
	setSimulateFlags(100, 2, 0, 0, 0, false)

	out, err := captureOutput(t, runSimulate)
	require.NoError(t, err)
	assertContains(t, out, []string{"2 workers, 200 added, 0 removed", "hivectl.particle", "After close"})
}

func TestSimulateCommand_BadFlags(t *testing.T) {
	resetFlags(t)
	setSimulateFlags(10, 0, 0, 0, 0, false)
	require.Error(t, runSimulate())
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	out, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assertContains(t, out, []string{"hivectl dev", "commit: none"})

	jsonOut = true
	out, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "dev", info.Version)
}
