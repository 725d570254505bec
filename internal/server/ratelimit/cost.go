package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// defaultCost is billed for any route without an explicit entry.
const defaultCost = 1.0

// RouteCost assigns a work-unit cost to a route. A Path ending in "/" is a
// prefix pattern; anything else must match exactly. Cost 0 marks the route
// free.
type RouteCost struct {
	Method string
	Path   string
	Cost   float64
}

// DefaultRouteCosts prices the scan API. A document scan decodes and walks
// an untrusted PDF, so it is billed an order of magnitude above the pure
// string operations.
func DefaultRouteCosts() []RouteCost {
	return []RouteCost{
		{Method: http.MethodPost, Path: "/scan", Cost: 10},
		{Method: http.MethodPost, Path: "/sanitize", Cost: 1},
		{Method: http.MethodPost, Path: "/wrap", Cost: 1},
		{Method: http.MethodGet, Path: "/reports", Cost: 1},
		{Method: http.MethodGet, Path: "/reports/", Cost: 1},
		{Method: http.MethodDelete, Path: "/reports/", Cost: 2},
		{Method: http.MethodGet, Path: "/health", Cost: 0},
	}
}

// lookupCost resolves the cost of a request. Exact path entries win over
// prefix entries; an unpriced route bills the default cost.
func lookupCost(costs []RouteCost, method string, path string) float64 {
	for _, rc := range costs {
		if rc.Method == method && rc.Path == path {
			return rc.Cost
		}
	}
	for _, rc := range costs {
		if rc.Method == method && strings.HasSuffix(rc.Path, "/") && strings.HasPrefix(path, rc.Path) {
			return rc.Cost
		}
	}
	return defaultCost
}

// Config holds the limiter configuration.
type Config struct {
	Enabled    bool
	Budget     float64 // work units per client per window
	Window     time.Duration
	SweepEvery time.Duration
	Exempt     map[string]bool // client IDs never billed
	Costs      []RouteCost
}
