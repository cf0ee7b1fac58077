// Package app holds process lifecycle helpers.
package app

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry tracks closeable resources acquired during startup and releases
// them in reverse order during shutdown.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	logger  zerolog.Logger
}

type entry struct {
	name  string
	close func() error
}

// NewRegistry constructs an empty resource registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{logger: logger.With().Str("component", "registry").Logger()}
}

// Register records a named resource and its close function.
func (r *Registry) Register(name string, close func() error) {
	if close == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, close: close})
}

// Close releases every registered resource in reverse acquisition order.
// Failures are logged and do not stop the remaining releases.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = nil
	r.mu.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		if err := entries[i].close(); err != nil {
			r.logger.Warn().Err(err).Str("resource", entries[i].name).Msg("failed to release resource")
			continue
		}
		r.logger.Debug().Str("resource", entries[i].name).Msg("resource released")
	}
}
