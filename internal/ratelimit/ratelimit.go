// Package ratelimit bounds per-connection message rates. Each (connection,
// event) pair gets its own token bucket; messages over the limit are dropped
// silently by the caller.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type key struct {
	connID string
	event  string
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Ledger tracks token buckets for live connections. Unlike the room state it
// is touched from transport goroutines, so it carries its own lock.
type Ledger struct {
	mu      sync.Mutex
	buckets map[key]*entry
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

// New creates a ledger allowing rps events per second with the given burst.
func New(rps float64, burst int) *Ledger {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Ledger{
		buckets: make(map[key]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the connection may send another message of this
// event type right now.
func (l *Ledger) Allow(connID, event string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{connID: connID, event: event}
	e, ok := l.buckets[k]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[k] = e
	}
	e.lastAccess = l.now()
	return e.limiter.Allow()
}

// Forget drops all buckets belonging to a connection.
func (l *Ledger) Forget(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.buckets {
		if k.connID == connID {
			delete(l.buckets, k)
		}
	}
}

// Sweep removes buckets idle longer than maxIdle.
func (l *Ledger) Sweep(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-maxIdle)
	for k, e := range l.buckets {
		if e.lastAccess.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}
