// Package relay defines worker contracts for asynchronous admission and
// settlement callbacks.
package relay

import (
	"time"

	"github.com/codexfield/codex-marketplace/internal/domain/model"
	"github.com/codexfield/codex-marketplace/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithOrigin sets the account the worker reports as the callback origin.
func WithOrigin(origin model.Account) Option {
	return func(w *Worker) {
		if origin != "" {
			w.origin = origin
		}
	}
}

// WithLatencyRange sets the simulated cross-domain round-trip latency.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(w *Worker) {
		if minLatency >= 0 && maxLatency >= minLatency {
			w.minLatency = minLatency
			w.maxLatency = maxLatency
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
