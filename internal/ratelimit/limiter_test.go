package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/classboard/gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPolicies struct {
	policy Policy
	err    error
}

func (s *stubPolicies) Get(ctx context.Context, scope string) (Policy, error) {
	if s.err != nil {
		return Policy{}, s.err
	}
	p := s.policy
	p.Scope = scope
	return p, nil
}

func newTestLimiter(t *testing.T, policies PolicyGetter) *Limiter {
	t.Helper()
	l := NewLimiter(policies, WithSweepInterval(time.Hour))
	t.Cleanup(l.Close)
	return l
}

func TestAdmitCountsDownWithinWindow(t *testing.T) {
	l := newTestLimiter(t, &stubPolicies{policy: Policy{WindowMs: 1000, MaxRequests: 5}})

	for i, wantRemaining := range []int{4, 3, 2, 1, 0} {
		d := l.Admit(context.Background(), "1.2.3.4", "read")
		require.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 5, d.Limit)
		assert.Equal(t, wantRemaining, d.Remaining)
		assert.NotZero(t, d.ResetAt)
	}

	d := l.Admit(context.Background(), "1.2.3.4", "read")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, 0)
}

func TestAdmitKeysByCallerAndScope(t *testing.T) {
	l := newTestLimiter(t, &stubPolicies{policy: Policy{WindowMs: 1000, MaxRequests: 1}})

	require.True(t, l.Admit(context.Background(), "1.2.3.4", "read").Allowed)
	assert.False(t, l.Admit(context.Background(), "1.2.3.4", "read").Allowed)

	// Different caller and different scope each get their own window
	assert.True(t, l.Admit(context.Background(), "5.6.7.8", "read").Allowed)
	assert.True(t, l.Admit(context.Background(), "1.2.3.4", "write").Allowed)
}

func TestAdmitResetsAfterWindowExpiry(t *testing.T) {
	l := newTestLimiter(t, &stubPolicies{policy: Policy{WindowMs: 50, MaxRequests: 5}})

	for i := 0; i < 5; i++ {
		require.True(t, l.Admit(context.Background(), "1.2.3.4", "read").Allowed)
	}
	require.False(t, l.Admit(context.Background(), "1.2.3.4", "read").Allowed)

	time.Sleep(80 * time.Millisecond)

	d := l.Admit(context.Background(), "1.2.3.4", "read")
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining, "expired window should reset to count=1")
}

func TestAdmitFailsOpenOnPolicyFault(t *testing.T) {
	l := newTestLimiter(t, &stubPolicies{err: errors.New("store unreachable")})

	for i := 0; i < 500; i++ {
		d := l.Admit(context.Background(), "1.2.3.4", "read")
		require.True(t, d.Allowed, "limiter faults must never block traffic")
		require.Equal(t, DefaultMaxRequests, d.Limit, "fail-open reports the hardcoded default, not the errored policy")
		require.Equal(t, DefaultMaxRequests, d.Remaining)
	}
}

func TestConcurrentAdmitDuringStoreOutage(t *testing.T) {
	source := &slowFailingSource{delay: 100 * time.Millisecond}
	l := newTestLimiter(t, NewConfigCache(source))

	const callers = 10

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := l.Admit(context.Background(), "1.2.3.4", "read")
			assert.True(t, d.Allowed)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 3*source.delay,
		"fail-open admits must not serialize behind the policy fetch")
}

func TestConcurrentAdmitExactBoundary(t *testing.T) {
	const limit = 50
	const callers = 200

	l := newTestLimiter(t, &stubPolicies{policy: Policy{WindowMs: 60000, MaxRequests: limit}})

	var wg sync.WaitGroup
	results := make([]bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Admit(context.Background(), "1.2.3.4", "read").Allowed
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, ok := range results {
		if ok {
			admitted++
		}
	}

	assert.Equal(t, limit, admitted, "exactly maxRequests must win, no over/under counting")
}

func TestSweepKeepsMidWindowEntries(t *testing.T) {
	l := NewLimiter(
		&stubPolicies{policy: Policy{WindowMs: 60000, MaxRequests: 5}},
		WithSweepInterval(10*time.Millisecond),
	)
	defer l.Close()

	require.True(t, l.Admit(context.Background(), "1.2.3.4", "read").Allowed)

	// Several sweeps pass while the entry sits idle mid-window
	time.Sleep(50 * time.Millisecond)

	d := l.Admit(context.Background(), "1.2.3.4", "read")
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Remaining, "idle mid-window counter must survive the sweep")
}

func TestSweepEvictsExpiredEntries(t *testing.T) {
	l := newTestLimiter(t, &stubPolicies{policy: Policy{WindowMs: 20, MaxRequests: 5}})

	l.Admit(context.Background(), "1.2.3.4", "read")
	l.Admit(context.Background(), "5.6.7.8", "read")

	time.Sleep(40 * time.Millisecond)
	l.sweep(time.Now())

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.entries)
}

func TestAdmitSeesUpdatedPolicyAfterInvalidate(t *testing.T) {
	source := &fakeSource{configs: []models.RateLimitConfig{
		{Key: "read", WindowMs: 60000, MaxRequests: 2, Enabled: true},
	}}
	cache := NewConfigCache(source)
	l := newTestLimiter(t, cache)

	d := l.Admit(context.Background(), "1.2.3.4", "read")
	require.Equal(t, 2, d.Limit)

	source.mu.Lock()
	source.configs[0].MaxRequests = 10
	source.mu.Unlock()
	cache.Invalidate()

	d = l.Admit(context.Background(), "1.2.3.4", "read")
	assert.Equal(t, 10, d.Limit, "invalidate must bypass the TTL")
	assert.True(t, d.Allowed)
}
