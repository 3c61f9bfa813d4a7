package hive

import (
	"log/slog"

	"github.com/joshuapare/hivekit/hive/alloc"
)

// Option configures a Hive.
type Option func(*Hive)

// WithPolicy sets the page capacity policy. Default: alloc.ConfigDefault.
func WithPolicy(p alloc.Policy) Option {
	return func(h *Hive) { h.policy = p }
}

// WithAccounting shares page accounting with other pools.
func WithAccounting(a *alloc.Accounting) Option {
	return func(h *Hive) {
		if a != nil {
			h.acct = a
		}
	}
}

// WithLogger sets the logger used for page lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hive) { h.log = l }
}

// WithName overrides the pool name (the factory name by default).
func WithName(name string) Option {
	return func(h *Hive) { h.name = name }
}
