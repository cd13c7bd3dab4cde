package http

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// rateLimiter throttles dataset loads per client IP. A load fetches and
// parses a potentially multi-gigabyte remote file, so each client gets a
// fixed budget per minute; the cheap GET endpoints the frontend polls are
// never throttled.
type rateLimiter struct {
	mu           sync.Mutex
	loadsPerMin  int
	clients      map[string]*loadBudget
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type loadBudget struct {
	windowStart time.Time
	loads       int
}

func newRateLimiter(loadsPerMin int) *rateLimiter {
	rl := &rateLimiter{
		loadsPerMin: loadsPerMin,
		clients:     make(map[string]*loadBudget),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client budgets.
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes budgets whose window ended over 10 minutes ago.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, budget := range rl.clients {
		if budget.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

// throttled reports whether the request exceeds the client's load budget.
// Only POSTs to the load endpoints count against it.
func (rl *rateLimiter) throttled(r *http.Request, clientIP string, metrics *securityMetrics) bool {
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/load/") {
		return false
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	budget, exists := rl.clients[clientIP]
	if !exists || now.Sub(budget.windowStart) > time.Minute {
		rl.clients[clientIP] = &loadBudget{windowStart: now, loads: 1}
		return false
	}

	budget.loads++
	if budget.loads > rl.loadsPerMin {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return true
	}
	return false
}
