// Package ratelimit holds the two limiters guarding the public API: a per-IP
// token bucket applied as edge middleware, and a per-email fixed window
// applied inside the intake pipeline.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	bucketTTL     = 5 * time.Minute
	sweepInterval = 3 * time.Minute
)

// Limiter is the per-IP half of the pair: one token bucket per client
// address, with idle buckets swept by a background goroutine.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     rate.Limit
	burst   int
}

type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// NewLimiter creates a per-IP limiter allowing rps requests per second with
// the given burst, and starts the sweep goroutine.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go l.sweepLoop()
	return l
}

// Allow reports whether a request from the given client address should be
// permitted, creating a fresh bucket on first sight.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()

	return b.tokens.Allow()
}

// Len reports the number of client addresses currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	for range t.C {
		l.sweep(time.Now())
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) >= bucketTTL {
			delete(l.buckets, ip)
		}
	}
}
