// Package ratelimit keeps one token bucket per caller identity.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Default bucket settings: five requests per minute per identity.
const (
	DefaultCapacity     = 5
	DefaultWindow       = time.Minute
	DefaultIdleTTL      = 10 * time.Minute
	DefaultCleanupEvery = time.Minute
)

// Config describes the buckets handed out by a Limiter.
// A bucket holds up to Capacity tokens and refills completely over one Window.
type Config struct {
	Capacity     int
	Window       time.Duration
	IdleTTL      time.Duration
	CleanupEvery time.Duration
}

// DefaultConfig returns the default bucket settings.
func DefaultConfig() Config {
	return Config{
		Capacity:     DefaultCapacity,
		Window:       DefaultWindow,
		IdleTTL:      DefaultIdleTTL,
		CleanupEvery: DefaultCleanupEvery,
	}
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // zero when allowed
	Identity   string
}

// Limiter admits requests per identity. Buckets are created on first use and dropped
// after IdleTTL without traffic.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*bucket

	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	every   time.Duration
	clock   clockwork.Clock
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Limiter) { l.clock = clock }
}

// New creates a Limiter from cfg. Zero fields fall back to the defaults.
func New(cfg Config, opts ...Option) *Limiter {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}

	l := &Limiter{
		entries: make(map[string]*bucket),
		limit:   rate.Every(cfg.Window / time.Duration(cfg.Capacity)),
		burst:   cfg.Capacity,
		idleTTL: cfg.IdleTTL,
		every:   cfg.CleanupEvery,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Admit takes one token from the identity's bucket. A denied request consumes nothing.
func (l *Limiter) Admit(identity string) Decision {
	now := l.clock.Now()
	lim := l.bucketFor(identity, now)

	decision := Decision{Identity: identity}
	if lim.AllowN(now, 1) {
		decision.Allowed = true
		decision.Remaining = int(math.Floor(lim.TokensAt(now)))
		return decision
	}

	tokens := lim.TokensAt(now)
	decision.Remaining = 0
	decision.RetryAfter = time.Duration((1 - tokens) / float64(l.limit) * float64(time.Second))
	if decision.RetryAfter <= 0 {
		decision.RetryAfter = time.Nanosecond
	}

	return decision
}

func (l *Limiter) bucketFor(identity string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[identity]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.entries[identity] = &bucket{lim: lim, lastSeen: now}

	return lim
}

// Count returns the number of identities currently holding a bucket.
func (l *Limiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Cleanup drops buckets idle for longer than IdleTTL. It returns how many were removed.
func (l *Limiter) Cleanup() int {
	cutoff := l.clock.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
			removed++
		}
	}

	return removed
}

// StartJanitor runs Cleanup every CleanupEvery until ctx is cancelled.
// It does nothing when CleanupEvery is not positive.
func (l *Limiter) StartJanitor(ctx context.Context) {
	if l.every <= 0 {
		return
	}

	ticker := l.clock.NewTicker(l.every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				l.Cleanup()
			}
		}
	}()
}
