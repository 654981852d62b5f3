package engine

import (
	"time"

	"github.com/krewshul/pyxchange/internal/usecase/metrics"
)

// Options represents configuration options for the Engine.
type Options struct {
	// ReadBackoff is the pause after a failed read before the next attempt.
	ReadBackoff time.Duration
	// CommitTimeout bounds the offset commit after the engine context is cancelled.
	CommitTimeout time.Duration
	// Metrics records message handling time when set.
	Metrics *metrics.Metrics
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ReadBackoff:   100 * time.Millisecond,
		CommitTimeout: 5 * time.Second,
	}
}
