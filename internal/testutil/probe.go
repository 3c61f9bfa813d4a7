package testutil

import "github.com/joshuapare/hivekit/hive/ref"

// Probe is a small pooled object for tests.
type Probe struct {
	ref.Base
	State ProbeState
	Live  bool
}

// ProbeState is the part of a Probe that iteration benchmarks and state
// visitors touch.
type ProbeState struct {
	Value int64
	Ticks int64
}

// Init implements class.Initializer.
func (p *Probe) Init() { p.Live = true }

// Finalize implements ref.Finalizer.
func (p *Probe) Finalize() {
	p.Live = false
}

// Bump increments the probe's value and returns the new value.
func (p *Probe) Bump() int64 {
	p.State.Value++
	return p.State.Value
}

// AsProbe returns obj as a *Probe, or nil.
func AsProbe(obj ref.Object) *Probe {
	p, _ := obj.(*Probe)
	return p
}
