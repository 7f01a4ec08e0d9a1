// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Identity is the delegate account group owners pre-authorize.
	Identity string `koanf:"identity"`

	// Treasury receives the protocol fee on every settled sale.
	Treasury string `koanf:"treasury"`

	// FeeRateBps is the protocol fee rate in basis points.
	FeeRateBps uint64 `koanf:"fee_rate_bps"`

	// TrustedRelayer is the only accepted settlement callback origin.
	// Empty means the origin of the service's own relay pipeline.
	TrustedRelayer string `koanf:"trusted_relayer"`

	// RelayFee is the initial fee quote of the in-process relay.
	RelayFee uint64 `koanf:"relay_fee"`

	// RelayQueueSize bounds the in-memory admission queue.
	RelayQueueSize int `koanf:"relay_queue_size"`

	// RelayWorkerCount sets the number of relay workers.
	RelayWorkerCount int `koanf:"relay_worker_count"`

	// MaxPageLimit caps the limit query parameter on paged reads.
	MaxPageLimit int `koanf:"max_page_limit"`

	// RelayLatencyMinMS and RelayLatencyMaxMS simulate external
	// settlement latency bounds.
	RelayLatencyMinMS int `koanf:"relay_latency_min_ms"`
	RelayLatencyMaxMS int `koanf:"relay_latency_max_ms"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		Identity:          "marketplace",
		Treasury:          "treasury",
		FeeRateBps:        100,
		RelayFee:          1,
		RelayQueueSize:    10_000,
		RelayWorkerCount:  4,
		MaxPageLimit:      100,
		RelayLatencyMinMS: 20,
		RelayLatencyMaxMS: 80,
	}
	return c
}
