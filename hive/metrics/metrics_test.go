package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/ref"
	"github.com/joshuapare/hivekit/hive/store"
	"github.com/joshuapare/hivekit/internal/testutil"
)

type sample struct {
	A, B int64
}

type (
	enemy struct {
		ref.Base
		HP int
	}
	ally struct {
		ref.Base
		HP int
	}
)

// gauge returns the value of the series of family name whose labels include
// every pair of want.
func gauge(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("no series %s%v", name, want)
	return 0
}

func TestRegister(t *testing.T) {
	probes := testutil.ProbeFactory()
	reg := &class.Registry{}
	reg.MustRegister(probes)

	s := store.New(reg, store.DefaultConfig())
	defer s.Close()

	h, err := s.GetHive(probes.TypeID())
	require.NoError(t, err)
	held := h.Add()
	require.NoError(t, h.Remove(held.Get()))
	for i := 0; i < 4; i++ {
		p := h.Add()
		p.Release()
	}

	r, err := store.RawHiveOf[sample](s)
	require.NoError(t, err)
	r.Allocate()
	r.Allocate()

	promReg := prometheus.NewRegistry()
	Register(promReg, s)

	name := h.Name()
	require.Equal(t, 4.0, gauge(t, promReg, "hivekit_hive_slots", map[string]string{"type": name, "state": "live"}))
	require.Equal(t, 1.0, gauge(t, promReg, "hivekit_hive_slots", map[string]string{"type": name, "state": "zombie"}))
	require.Equal(t, 11.0, gauge(t, promReg, "hivekit_hive_slots", map[string]string{"type": name, "state": "free"}))
	require.Equal(t, 1.0, gauge(t, promReg, "hivekit_hive_pages", map[string]string{"type": name}))

	rawID := class.IDOf[sample]().String()
	require.Equal(t, 2.0, gauge(t, promReg, "hivekit_raw_slots", map[string]string{"type_id": rawID, "state": "live"}))
	require.Equal(t, 14.0, gauge(t, promReg, "hivekit_raw_slots", map[string]string{"type_id": rawID, "state": "free"}))

	require.Equal(t, 2.0, gauge(t, promReg, "hivekit_pages_allocated_total", nil))
	require.Equal(t, 2.0, gauge(t, promReg, "hivekit_live_pages", nil))
	require.Equal(t, 32.0, gauge(t, promReg, "hivekit_live_slots", nil))

	held.Release()
	require.Zero(t, gauge(t, promReg, "hivekit_hive_slots", map[string]string{"type": name, "state": "zombie"}))
}

func TestCollect_SameNameDistinctTypes(t *testing.T) {
	reg := &class.Registry{}
	reg.MustRegister(class.NewFactory[enemy]("unit"))
	reg.MustRegister(class.NewFactory[ally]("unit"))

	s := store.New(reg, store.DefaultConfig())
	defer s.Close()

	for _, id := range []class.TypeID{class.IDOf[enemy](), class.IDOf[ally]()} {
		h, err := s.GetHive(id)
		require.NoError(t, err)
		p := h.Add()
		defer p.Release()
	}

	promReg := prometheus.NewRegistry()
	Register(promReg, s)
	_, err := promReg.Gather()
	require.NoError(t, err)

	for _, id := range []class.TypeID{class.IDOf[enemy](), class.IDOf[ally]()} {
		labels := map[string]string{"type": "unit", "type_id": id.String()}
		require.Equal(t, 1.0, gauge(t, promReg, "hivekit_hive_pages", labels))
		labels["state"] = "live"
		require.Equal(t, 1.0, gauge(t, promReg, "hivekit_hive_slots", labels))
	}
}
