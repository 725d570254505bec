// Package ratelimit bounds how much scanner work a single client can demand.
// Parsing an untrusted PDF costs far more than sanitizing a string, so
// instead of counting requests per endpoint, every client draws from one
// budget of work units and each route bills its own cost against it. The
// budget refills continuously; a client that burns it on uploads has nothing
// left for anything else until it recovers.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// idleTTL is how long an inactive client's budget is retained before the
// sweeper drops it.
const idleTTL = time.Hour

// Info describes the budget state after an Allow decision. Limit and
// Remaining are in work units, not requests.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// budget is a continuously refilling reservoir of work units.
type budget struct {
	mu       sync.Mutex
	capacity float64
	rate     float64 // units per second
	units    float64
	last     time.Time
}

func newBudget(capacity, rate float64) *budget {
	return &budget{
		capacity: capacity,
		rate:     rate,
		units:    capacity,
		last:     time.Now(),
	}
}

// spend refills the budget for elapsed time, then bills cost against it.
// When the budget cannot cover the cost, wait is how long until it can.
func (b *budget) spend(cost float64) (ok bool, remaining float64, wait time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.units = math.Min(b.capacity, b.units+now.Sub(b.last).Seconds()*b.rate)
	b.last = now

	if b.units >= cost {
		b.units -= cost
		return true, b.units, 0
	}
	wait = time.Duration((cost - b.units) / b.rate * float64(time.Second))
	return false, b.units, wait
}

type clientEntry struct {
	budget   *budget
	lastSeen time.Time
}

// Limiter tracks one work budget per client.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	config  *Config

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter from the given configuration. A nil config
// loads defaults from the environment.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		clients: make(map[string]*clientEntry),
		config:  config,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.SweepEvery > 0 {
		go l.sweep()
	}
	return l
}

// Allow bills the route's cost against the client's budget and reports
// whether the request may proceed.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Exempt[clientID] {
		return true, Info{Allowed: true}
	}

	cost := lookupCost(l.config.Costs, method, path)
	if cost <= 0 {
		// Free route, nothing to bill.
		return true, Info{Allowed: true}
	}

	ok, remaining, wait := l.budgetFor(clientID).spend(cost)

	info := Info{
		Allowed:   ok,
		Limit:     int(l.config.Budget),
		Remaining: int(remaining),
		ResetTime: time.Now().Add(l.timeToFull(remaining)),
	}
	if !ok {
		info.RetryAfter = wait
	}
	return ok, info
}

// budgetFor returns the client's budget, creating it on first sight.
func (l *Limiter) budgetFor(clientID string) *budget {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.clients[clientID]
	if !exists {
		rate := l.config.Budget / l.config.Window.Seconds()
		entry = &clientEntry{budget: newBudget(l.config.Budget, rate)}
		l.clients[clientID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.budget
}

// timeToFull is how long until a budget at the given level is back at capacity.
func (l *Limiter) timeToFull(remaining float64) time.Duration {
	missing := l.config.Budget - remaining
	if missing <= 0 {
		return 0
	}
	rate := l.config.Budget / l.config.Window.Seconds()
	return time.Duration(missing / rate * float64(time.Second))
}

// sweep periodically drops budgets for clients that have gone quiet.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(l.config.SweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdle(time.Now().Add(-idleTTL))
		case <-l.stop:
			return
		}
	}
}

// dropIdle removes every client not seen since the cutoff.
func (l *Limiter) dropIdle(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, id)
		}
	}
}

// Stop terminates the sweeper. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
