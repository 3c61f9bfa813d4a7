// Package metrics exports pool statistics of a store.Store to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joshuapare/hivekit/hive"
	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/raw"
	"github.com/joshuapare/hivekit/hive/store"
)

const namespace = "hivekit"

var (
	hiveSlotsDesc = prometheus.NewDesc(
		namespace+"_hive_slots",
		"Slots of an object pool by state.",
		[]string{"type", "type_id", "state"},
		nil,
	)
	hivePagesDesc = prometheus.NewDesc(
		namespace+"_hive_pages",
		"Pages owned by an object pool.",
		[]string{"type", "type_id"},
		nil,
	)
	rawSlotsDesc = prometheus.NewDesc(
		namespace+"_raw_slots",
		"Slots of a raw pool by state.",
		[]string{"type_id", "state"},
		nil,
	)
	rawBytesDesc = prometheus.NewDesc(
		namespace+"_raw_bytes",
		"Page memory held by a raw pool.",
		[]string{"type_id"},
		nil,
	)
)

// Collector reports per-pool gauges for every pool of a store.
type Collector struct {
	store *store.Store
}

// NewCollector returns a collector for s. It is not registered.
func NewCollector(s *store.Store) *Collector {
	return &Collector{store: s}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- hiveSlotsDesc
	descs <- hivePagesDesc
	descs <- rawSlotsDesc
	descs <- rawBytesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(m chan<- prometheus.Metric) {
	c.store.ForEachHive(func(h *hive.Hive) bool {
		st := h.Stats()
		id := st.TypeID.String()
		for state, n := range map[string]int{
			"live":    st.Live,
			"zombie":  st.Zombies,
			"expired": st.Expired,
			"free":    st.Free,
		} {
			m <- prometheus.MustNewConstMetric(hiveSlotsDesc, prometheus.GaugeValue, float64(n), st.Name, id, state)
		}
		m <- prometheus.MustNewConstMetric(hivePagesDesc, prometheus.GaugeValue, float64(st.Pages), st.Name, id)
		return true
	})
	c.store.ForEachRawHive(func(id class.TypeID, r *raw.Pool) bool {
		st := r.Stats()
		m <- prometheus.MustNewConstMetric(rawSlotsDesc, prometheus.GaugeValue, float64(st.Live), id.String(), "live")
		m <- prometheus.MustNewConstMetric(rawSlotsDesc, prometheus.GaugeValue, float64(st.Capacity-st.Live), id.String(), "free")
		m <- prometheus.MustNewConstMetric(rawBytesDesc, prometheus.GaugeValue, float64(st.Bytes), id.String())
		return true
	})
}

// Register registers the per-pool collector of s and the store-wide page
// accounting with reg.
func Register(reg prometheus.Registerer, s *store.Store) *Collector {
	c := NewCollector(s)
	reg.MustRegister(c)

	acct := s.Accounting()
	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_allocated_total",
		Help:      "Pages allocated by all pools of the store.",
	}, func() float64 { return float64(acct.Snapshot().PagesAllocated) })
	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_freed_total",
		Help:      "Pages released by all pools of the store, including orphaned pages.",
	}, func() float64 { return float64(acct.Snapshot().PagesFreed) })
	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_orphaned_total",
		Help:      "Pages that outlived their pool because objects or observers still referenced them.",
	}, func() float64 { return float64(acct.Snapshot().PagesOrphaned) })
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_pages",
		Help:      "Pages currently allocated, including orphaned pages.",
	}, func() float64 { return float64(acct.LivePages()) })
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_slots",
		Help:      "Slots in currently allocated pages.",
	}, func() float64 {
		snap := acct.Snapshot()
		return float64(snap.SlotsAllocated - snap.SlotsFreed)
	})
	return c
}
