package ratelimit

import (
	"context"
	"log"
	"math"
	"sync"
	"time"
)

// PolicyGetter resolves the policy applied to a scope. Implemented by
// ConfigCache; swappable in tests. On error the returned policy is ignored
// and the limiter falls back to the hardcoded default.
type PolicyGetter interface {
	Get(ctx context.Context, scope string) (Policy, error)
}

// Decision reports the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    int64 // epoch seconds
	RetryAfter int   // seconds, set only on denial
}

type entry struct {
	count       int
	windowStart time.Time
	windowMs    int64
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.windowStart).Milliseconds() > e.windowMs
}

// Limiter is a fixed-window admission gate. Counters are keyed by
// "callerAddr:scope" and live in a process-local table guarded by a mutex;
// a background sweep evicts expired windows to bound memory.
type Limiter struct {
	policies      PolicyGetter
	sweepInterval time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	done      chan struct{}
	closeOnce sync.Once
}

type LimiterOption func(*Limiter)

func WithSweepInterval(d time.Duration) LimiterOption {
	return func(l *Limiter) { l.sweepInterval = d }
}

func NewLimiter(policies PolicyGetter, opts ...LimiterOption) *Limiter {
	l := &Limiter{
		policies:      policies,
		sweepInterval: 60 * time.Second,
		entries:       make(map[string]*entry),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	go l.sweepLoop()

	return l
}

// Admit counts one request against the caller's window for the scope.
// The policy lookup may block on the store; the counter update itself runs
// under the mutex so concurrent borderline requests cannot both win a slot.
// If the policy lookup fails the request is admitted without counting:
// limiter infrastructure faults must never block traffic.
func (l *Limiter) Admit(ctx context.Context, callerAddr, scope string) Decision {
	now := time.Now()

	policy, err := l.policies.Get(ctx, scope)
	if err != nil {
		log.Printf("ratelimit: policy lookup for scope %q failed, admitting: %v", scope, err)
		fallback := defaultPolicy(scope)
		return Decision{
			Allowed:   true,
			Limit:     fallback.MaxRequests,
			Remaining: fallback.MaxRequests,
			ResetAt:   now.Add(time.Duration(fallback.WindowMs) * time.Millisecond).Unix(),
		}
	}

	identifier := callerAddr + ":" + scope

	l.mu.Lock()
	e, ok := l.entries[identifier]
	if !ok || e.expired(now) {
		e = &entry{count: 1, windowStart: now, windowMs: policy.WindowMs}
		l.entries[identifier] = e
	} else {
		e.count++
	}
	count := e.count
	windowStart := e.windowStart
	windowMs := e.windowMs
	l.mu.Unlock()

	resetAt := windowStart.Add(time.Duration(windowMs) * time.Millisecond)

	remaining := policy.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   count <= policy.MaxRequests,
		Limit:     policy.MaxRequests,
		Remaining: remaining,
		ResetAt:   resetAt.Unix(),
	}

	if !d.Allowed {
		retryAfter := int(math.Ceil(resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		d.RetryAfter = retryAfter
	}

	return d
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep(time.Now())
		case <-l.done:
			return
		}
	}
}

// sweep removes entries whose own window has expired. Expiry is judged by
// windowMs alone; an idle entry that is still mid-window survives.
func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	for identifier, e := range l.entries {
		if e.expired(now) {
			delete(l.entries, identifier)
		}
	}
	l.mu.Unlock()
}

// Close stops the sweep goroutine. Safe to call more than once.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
