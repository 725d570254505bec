package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBudget allows six back-to-back document scans per window, or sixty
// text operations, or any mix in between.
const DefaultBudget = 60

// LoadConfig builds the limiter configuration from the environment:
// RATE_LIMIT_ENABLED, RATE_LIMIT_BUDGET, RATE_LIMIT_WINDOW, and
// RATE_LIMIT_EXEMPT (comma-separated client IDs). Unset or unparseable
// values keep their defaults.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:    true,
		Budget:     DefaultBudget,
		Window:     time.Minute,
		SweepEvery: 5 * time.Minute,
		Exempt:     make(map[string]bool),
		Costs:      DefaultRouteCosts(),
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = enabled
		}
	}
	if v := os.Getenv("RATE_LIMIT_BUDGET"); v != "" {
		if budget, err := strconv.ParseFloat(v, 64); err == nil && budget > 0 {
			cfg.Budget = budget
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if window, err := time.ParseDuration(v); err == nil && window > 0 {
			cfg.Window = window
		}
	}
	for _, id := range strings.Split(os.Getenv("RATE_LIMIT_EXEMPT"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.Exempt[id] = true
		}
	}

	return cfg
}
