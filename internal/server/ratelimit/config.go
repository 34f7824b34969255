package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Tier groups endpoints by cost. Generation endpoints spend upstream model
// quota, so they sit in their own tier.
type Tier string

const (
	// TierGenerate covers endpoints that trigger model calls.
	TierGenerate Tier = "generate"
	// TierWrite covers state-changing endpoints without model calls.
	TierWrite Tier = "write"
	// TierRead covers everything else.
	TierRead Tier = "read"
)

// TierLimit is the budget for one tier.
type TierLimit struct {
	PerMinute int // sustained requests per minute; 0 disables the limit
	Burst     int // burst capacity; defaults to PerMinute when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	CleanupInterval time.Duration
	Generate        TierLimit
	Write           TierLimit
	Read            TierLimit
}

func (c *Config) limitFor(tier Tier) TierLimit {
	switch tier {
	case TierGenerate:
		return c.Generate
	case TierWrite:
		return c.Write
	default:
		return c.Read
	}
}

// DefaultConfig returns the limits the server ships with.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		CleanupInterval: 5 * time.Minute,
		Generate:        TierLimit{PerMinute: 6, Burst: 2},
		Write:           TierLimit{PerMinute: 60, Burst: 10},
		Read:            TierLimit{PerMinute: 600, Burst: 100},
	}
}

// LoadConfig loads rate limiting configuration from environment variables,
// falling back to defaults for anything unset.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	if !cfg.Enabled {
		return cfg
	}
	cfg.Generate.PerMinute = getEnvInt("RATE_LIMIT_GENERATE_PER_MINUTE", cfg.Generate.PerMinute)
	cfg.Write.PerMinute = getEnvInt("RATE_LIMIT_WRITE_PER_MINUTE", cfg.Write.PerMinute)
	cfg.Read.PerMinute = getEnvInt("RATE_LIMIT_READ_PER_MINUTE", cfg.Read.PerMinute)
	return cfg
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
