// Package store maps type identifiers to the pools that hold their
// instances.
//
// A Store owns one object pool (package hive) per registered class and one raw
// pool (package hive/raw) per plain element type. Pools are created lazily
// on first request and kept in slices sorted by type ID, so lookups are a
// binary search under a shared lock.
//
//	reg := &class.Registry{}
//	reg.MustRegister(class.NewFactory[Widget](""))
//
//	s := store.New(reg, store.DefaultConfig())
//	defer s.Close()
//
//	h, err := s.GetHive(class.IDOf[Widget]())
//	if err != nil {
//		return err
//	}
//	w := h.Add()
//	defer w.Release()
package store
