package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// feeDenominator caps FeeRateBps at 100% expressed in basis points.
const feeDenominator = 10_000

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if MARKET_CONFIG is set
//  3. env (prefix MARKET_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MARKET_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: MARKET_ADDR, MARKET_FEE_RATE_BPS, ...
	// Map env keys like MARKET_FEE_RATE_BPS -> fee_rate_bps (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MARKET_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "market_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Identity == "":
		return fmt.Errorf("%w: identity must not be empty", ErrInvalidConfig)
	case c.Treasury == "":
		return fmt.Errorf("%w: treasury must not be empty", ErrInvalidConfig)
	case c.FeeRateBps > feeDenominator:
		return fmt.Errorf("%w: fee_rate_bps %d exceeds %d", ErrInvalidConfig, c.FeeRateBps, feeDenominator)
	case c.RelayQueueSize < 1:
		return fmt.Errorf("%w: relay_queue_size must be positive", ErrInvalidConfig)
	case c.RelayWorkerCount < 1:
		return fmt.Errorf("%w: relay_worker_count must be positive", ErrInvalidConfig)
	case c.MaxPageLimit < 1:
		return fmt.Errorf("%w: max_page_limit must be positive", ErrInvalidConfig)
	case c.RelayLatencyMinMS < 0 || c.RelayLatencyMaxMS < c.RelayLatencyMinMS:
		return fmt.Errorf("%w: relay latency bounds out of order", ErrInvalidConfig)
	}
	return nil
}
