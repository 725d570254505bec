package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) *Limiter {
	t.Helper()
	if cfg.Exempt == nil {
		cfg.Exempt = make(map[string]bool)
	}
	if cfg.Costs == nil {
		cfg.Costs = DefaultRouteCosts()
	}
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	return l
}

func TestAllow_ScanBudgetExhaustion(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 60, Window: time.Minute})

	// Six scans cover the full budget; the seventh has nothing left to bill.
	for i := 0; i < 6; i++ {
		allowed, _ := l.Allow("198.51.100.7", "/scan", http.MethodPost)
		require.True(t, allowed, "scan %d", i+1)
	}

	allowed, info := l.Allow("198.51.100.7", "/scan", http.MethodPost)
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_TextOperationsAreCheap(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 60, Window: time.Minute})

	// Sanitize and wrap each bill one unit, so the whole budget goes a
	// long way for pure text traffic.
	for i := 0; i < 30; i++ {
		allowed, _ := l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
		require.True(t, allowed, "sanitize %d", i+1)
		allowed, _ = l.Allow("198.51.100.7", "/wrap", http.MethodPost)
		require.True(t, allowed, "wrap %d", i+1)
	}

	allowed, _ := l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	assert.False(t, allowed, "budget should be spent after 60 text operations")
}

func TestAllow_BudgetSharedAcrossRoutes(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 60, Window: time.Minute})

	// Five scans leave ten units; ten sanitize calls drain them.
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("198.51.100.7", "/scan", http.MethodPost)
		require.True(t, allowed)
	}
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
		require.True(t, allowed, "sanitize %d", i+1)
	}

	allowed, _ := l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	assert.False(t, allowed, "scans and text operations bill the same budget")
}

func TestAllow_HealthIsFree(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 1, Window: time.Minute})

	for i := 0; i < 100; i++ {
		allowed, info := l.Allow("198.51.100.7", "/health", http.MethodGet)
		require.True(t, allowed)
		assert.Zero(t, info.Limit, "free routes carry no budget headers")
	}
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 10, Window: time.Minute})

	allowed, _ := l.Allow("198.51.100.7", "/scan", http.MethodPost)
	require.True(t, allowed)
	allowed, _ = l.Allow("198.51.100.7", "/scan", http.MethodPost)
	require.False(t, allowed, "first client spent its budget")

	allowed, _ = l.Allow("203.0.113.9", "/scan", http.MethodPost)
	assert.True(t, allowed, "second client has its own budget")
}

func TestAllow_ExemptClient(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled: true,
		Budget:  10,
		Window:  time.Minute,
		Exempt:  map[string]bool{"10.0.0.1": true},
	})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/scan", http.MethodPost)
		require.True(t, allowed, "exempt client is never billed")
	}
}

func TestAllow_Disabled(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("198.51.100.7", "/scan", http.MethodPost)
		require.True(t, allowed)
	}
}

func TestAllow_BudgetRefills(t *testing.T) {
	// Two units per 100ms. One sanitize call per refilled unit.
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 2, Window: 100 * time.Millisecond})

	allowed, _ := l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	require.True(t, allowed)
	allowed, _ = l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	require.True(t, allowed)
	allowed, _ = l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	require.False(t, allowed)

	time.Sleep(150 * time.Millisecond)

	allowed, _ = l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	assert.True(t, allowed, "budget should refill over time")
}

func TestAllow_Concurrent(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 1000, Window: time.Hour})

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			clientID := fmt.Sprintf("198.51.100.%d", n%5)
			if ok, _ := l.Allow(clientID, "/scan", http.MethodPost); ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// 5 clients, 10 scans each at cost 10 against a 1000-unit budget with
	// negligible refill: every request fits.
	assert.Equal(t, 50, granted)
}

func TestLookupCost(t *testing.T) {
	costs := DefaultRouteCosts()

	testCases := []struct {
		name     string
		method   string
		path     string
		expected float64
	}{
		{"scan upload", http.MethodPost, "/scan", 10},
		{"sanitize", http.MethodPost, "/sanitize", 1},
		{"wrap", http.MethodPost, "/wrap", 1},
		{"report list", http.MethodGet, "/reports", 1},
		{"report read by id", http.MethodGet, "/reports/550e8400-e29b-41d4-a716-446655440000", 1},
		{"report delete by id", http.MethodDelete, "/reports/550e8400-e29b-41d4-a716-446655440000", 2},
		{"health", http.MethodGet, "/health", 0},
		{"unknown route", http.MethodGet, "/metrics", defaultCost},
		{"method matters", http.MethodGet, "/scan", defaultCost},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lookupCost(costs, tc.method, tc.path))
		})
	}
}

func TestDropIdle(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: true, Budget: 60, Window: time.Minute})

	l.Allow("198.51.100.7", "/sanitize", http.MethodPost)
	l.Allow("203.0.113.9", "/sanitize", http.MethodPost)
	require.Len(t, l.clients, 2)

	// Age one client past the cutoff.
	l.mu.Lock()
	l.clients["198.51.100.7"].lastSeen = time.Now().Add(-2 * idleTTL)
	l.mu.Unlock()

	l.dropIdle(time.Now().Add(-idleTTL))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "198.51.100.7")
	assert.Contains(t, l.clients, "203.0.113.9")
}

func TestStop_Idempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, Budget: 60, Window: time.Minute, SweepEvery: time.Minute, Exempt: map[string]bool{}, Costs: DefaultRouteCosts()})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, float64(DefaultBudget), cfg.Budget)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.NotEmpty(t, cfg.Costs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_BUDGET", "120")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_EXEMPT", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.Equal(t, float64(120), cfg.Budget)
	assert.Equal(t, 30*time.Second, cfg.Window)
	assert.True(t, cfg.Exempt["10.0.0.1"])
	assert.True(t, cfg.Exempt["10.0.0.2"])
}
