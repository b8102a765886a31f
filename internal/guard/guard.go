package guard

import (
	"sync"

	"golang.org/x/time/rate"
)

// SubmissionGuard rate-limits node submissions per remote address. Each
// address gets its own token bucket refilling at the configured
// per-minute rate.
type SubmissionGuard struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewSubmissionGuard(perMinute int) *SubmissionGuard {
	if perMinute < 1 {
		perMinute = 1
	}
	return &SubmissionGuard{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

// Allow reports whether the given address may submit right now.
func (g *SubmissionGuard) Allow(addr string) bool {
	g.mu.Lock()
	l, ok := g.limiters[addr]
	if !ok {
		l = rate.NewLimiter(g.limit, g.burst)
		g.limiters[addr] = l
		g.clean()
	}
	g.mu.Unlock()
	return l.Allow()
}

// clean drops idle buckets once the map grows large. Called with the lock
// held.
func (g *SubmissionGuard) clean() {
	if len(g.limiters) < 10000 {
		return
	}
	for addr, l := range g.limiters {
		if l.Tokens() >= float64(g.burst) {
			delete(g.limiters, addr)
		}
	}
}
