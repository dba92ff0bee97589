package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// sweepEvery bounds memory growth without a timer: every Nth Allow call
// evicts entries whose window has already expired.
const sweepEvery = 100

// Window is a fixed-window limiter keyed by a normalized identity (an email
// address). It allows at most max calls per identity per window. State is
// process-local; a multi-instance deployment needs a shared counter store
// behind the same interface instead.
type Window struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	max     int
	period  time.Duration
	now     func() time.Time
	calls   int
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewWindow creates a fixed-window limiter allowing max calls per period.
// now is the clock; pass nil for time.Now.
func NewWindow(max int, period time.Duration, now func() time.Time) *Window {
	if now == nil {
		now = time.Now
	}
	return &Window{
		entries: make(map[string]*windowEntry),
		max:     max,
		period:  period,
		now:     now,
	}
}

// Allow reports whether a call for identity is within the limit, counting it
// if so. Identities are lowercased and trimmed before lookup.
func (w *Window) Allow(identity string) bool {
	id := strings.ToLower(strings.TrimSpace(identity))

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.calls++
	if w.calls%sweepEvery == 0 {
		w.sweepLocked(now)
	}

	e, ok := w.entries[id]
	if !ok || !now.Before(e.resetAt) {
		w.entries[id] = &windowEntry{count: 1, resetAt: now.Add(w.period)}
		return true
	}
	if e.count < w.max {
		e.count++
		return true
	}
	return false
}

// Len returns the number of tracked identities.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

func (w *Window) sweepLocked(now time.Time) {
	for id, e := range w.entries {
		if !now.Before(e.resetAt) {
			delete(w.entries, id)
		}
	}
}
