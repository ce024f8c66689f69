package ratelimit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/compass/internal/ratelimit"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (*ratelimit.Limiter, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return ratelimit.New(ratelimit.DefaultConfig(), ratelimit.WithClock(clock)), clock
}

func TestLimiter_Admit(t *testing.T) {
	t.Run("capacity plus one is denied", func(t *testing.T) {
		limiter, _ := newLimiter(t)

		for i := range ratelimit.DefaultCapacity {
			decision := limiter.Admit("user-1")
			require.True(t, decision.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, ratelimit.DefaultCapacity-i-1, decision.Remaining)
			assert.Zero(t, decision.RetryAfter)
		}

		decision := limiter.Admit("user-1")
		assert.False(t, decision.Allowed)
		assert.Equal(t, "user-1", decision.Identity)
		assert.Zero(t, decision.Remaining)
		assert.InDelta(t, (12 * time.Second).Seconds(), decision.RetryAfter.Seconds(), 0.01)
	})

	t.Run("denial consumes nothing", func(t *testing.T) {
		limiter, clock := newLimiter(t)

		for range ratelimit.DefaultCapacity {
			limiter.Admit("user-1")
		}
		for range 3 {
			assert.False(t, limiter.Admit("user-1").Allowed)
		}

		clock.Advance(13 * time.Second)

		assert.True(t, limiter.Admit("user-1").Allowed)
		assert.False(t, limiter.Admit("user-1").Allowed)
	})

	t.Run("full window refills the bucket", func(t *testing.T) {
		limiter, clock := newLimiter(t)

		for range ratelimit.DefaultCapacity {
			limiter.Admit("user-1")
		}
		require.False(t, limiter.Admit("user-1").Allowed)

		clock.Advance(ratelimit.DefaultWindow + time.Second)

		for range ratelimit.DefaultCapacity {
			assert.True(t, limiter.Admit("user-1").Allowed)
		}
		assert.False(t, limiter.Admit("user-1").Allowed)
	})

	t.Run("refill never exceeds capacity", func(t *testing.T) {
		limiter, clock := newLimiter(t)

		limiter.Admit("user-1")
		clock.Advance(time.Hour)

		allowed := 0
		for range 2 * ratelimit.DefaultCapacity {
			if limiter.Admit("user-1").Allowed {
				allowed++
			}
		}
		assert.Equal(t, ratelimit.DefaultCapacity, allowed)
	})

	t.Run("identities are independent", func(t *testing.T) {
		limiter, _ := newLimiter(t)

		for range ratelimit.DefaultCapacity {
			limiter.Admit("user-1")
		}

		assert.False(t, limiter.Admit("user-1").Allowed)
		assert.True(t, limiter.Admit("user-2").Allowed)
		assert.Equal(t, 2, limiter.Count())
	})

	t.Run("custom capacity and window", func(t *testing.T) {
		clock := clockwork.NewFakeClock()
		limiter := ratelimit.New(ratelimit.Config{Capacity: 2, Window: 10 * time.Second}, ratelimit.WithClock(clock))

		assert.True(t, limiter.Admit("k").Allowed)
		assert.True(t, limiter.Admit("k").Allowed)

		decision := limiter.Admit("k")
		require.False(t, decision.Allowed)
		assert.InDelta(t, 5.0, decision.RetryAfter.Seconds(), 0.01)
	})
}

func TestLimiter_ConcurrentAdmit(t *testing.T) {
	limiter, _ := newLimiter(t)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Admit("shared").Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(ratelimit.DefaultCapacity), allowed.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newLimiter(t)

	limiter.Admit("idle")
	clock.Advance(ratelimit.DefaultIdleTTL / 2)
	limiter.Admit("active")
	clock.Advance(ratelimit.DefaultIdleTTL/2 + time.Second)

	removed := limiter.Cleanup()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, limiter.Count())

	// an evicted identity starts over with a full bucket
	for range ratelimit.DefaultCapacity {
		assert.True(t, limiter.Admit("idle").Allowed)
	}
}

func TestLimiter_StartJanitor(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := ratelimit.New(ratelimit.Config{IdleTTL: time.Minute, CleanupEvery: 30 * time.Second},
		ratelimit.WithClock(clock))
	ctx := t.Context()

	limiter.Admit("idle")
	limiter.StartJanitor(ctx)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	clock.Advance(90 * time.Second)

	assert.Eventually(t, func() bool { return limiter.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLimiter_StartJanitorDisabled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := ratelimit.New(ratelimit.Config{}, ratelimit.WithClock(clock))

	limiter.StartJanitor(t.Context())

	assert.Equal(t, 0, limiter.Count())
}
