package store

import (
	"log/slog"

	"github.com/joshuapare/hivekit/hive/alloc"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger handed to every pool the store creates.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithAccounting sets the page accounting shared by the store's pools.
func WithAccounting(a *alloc.Accounting) Option {
	return func(s *Store) {
		if a != nil {
			s.acct = a
		}
	}
}
