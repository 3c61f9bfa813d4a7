package raw

import (
	"log/slog"

	"github.com/joshuapare/hivekit/hive/alloc"
)

// Option configures a Pool.
type Option func(*Pool)

// WithPolicy sets the page capacity policy. Default: alloc.ConfigDefault.
func WithPolicy(p alloc.Policy) Option {
	return func(r *Pool) { r.policy = p }
}

// WithAccounting shares page accounting with other pools.
func WithAccounting(a *alloc.Accounting) Option {
	return func(r *Pool) {
		if a != nil {
			r.acct = a
		}
	}
}

// WithLogger sets the logger used for page lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Pool) { r.log = l }
}

// WithHeapPages allocates pages on the Go heap instead of mapping them.
func WithHeapPages(heap bool) Option {
	return func(r *Pool) { r.heap = heap }
}
