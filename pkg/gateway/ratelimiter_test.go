package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientRateLimiter_Acquire(t *testing.T) {
	t.Run("should allow requests under limit", func(t *testing.T) {
		limiter := NewClientRateLimiter(10, 5)

		for i := 0; i < 5; i++ {
			allowed, reason := limiter.Acquire()
			assert.True(t, allowed)
			assert.Empty(t, reason)
		}
	})

	t.Run("should reject when concurrent limit exceeded", func(t *testing.T) {
		limiter := NewClientRateLimiter(100, 3)

		for i := 0; i < 3; i++ {
			allowed, _ := limiter.Acquire()
			assert.True(t, allowed)
		}

		allowed, reason := limiter.Acquire()
		assert.False(t, allowed)
		assert.Equal(t, ReasonTooConcurrent, reason)

		limiter.Release()
		allowed, _ = limiter.Acquire()
		assert.True(t, allowed)
	})

	t.Run("should reject when rate limit exceeded", func(t *testing.T) {
		limiter := NewClientRateLimiter(5, 10)

		for i := 0; i < 5; i++ {
			allowed, _ := limiter.Acquire()
			assert.True(t, allowed)
			limiter.Release()
		}

		allowed, reason := limiter.Acquire()
		assert.False(t, allowed)
		assert.Equal(t, ReasonRateLimited, reason)
	})

	t.Run("should allow requests after window expires", func(t *testing.T) {
		limiter := NewClientRateLimiter(2, 10)
		now := time.Now()
		limiter.now = func() time.Time { return now }

		for i := 0; i < 2; i++ {
			limiter.Acquire()
			limiter.Release()
		}
		allowed, _ := limiter.Acquire()
		assert.False(t, allowed)

		now = now.Add(61 * time.Second)
		allowed, _ = limiter.Acquire()
		assert.True(t, allowed)

		count, inFlight := limiter.Stats()
		assert.Equal(t, 1, count)
		assert.Equal(t, 1, inFlight)
	})
}

func TestNewClientRateLimiter_Unlimited(t *testing.T) {
	limiter := NewClientRateLimiter(0, -1)
	assert.True(t, limiter.Unlimited())

	for i := 0; i < 1000; i++ {
		allowed, reason := limiter.Acquire()
		assert.True(t, allowed)
		assert.Empty(t, reason)
	}

	count, inFlight := limiter.Stats()
	assert.Equal(t, 0, count)
	assert.Equal(t, 1000, inFlight)
}

func TestClientRateLimiter_SingleLimit(t *testing.T) {
	t.Run("concurrency only", func(t *testing.T) {
		limiter := NewClientRateLimiter(0, 2)
		assert.False(t, limiter.Unlimited())

		for i := 0; i < 50; i++ {
			allowed, _ := limiter.Acquire()
			assert.True(t, allowed)
			limiter.Release()
		}
		limiter.Acquire()
		limiter.Acquire()
		allowed, reason := limiter.Acquire()
		assert.False(t, allowed)
		assert.Equal(t, ReasonTooConcurrent, reason)
	})

	t.Run("rate only", func(t *testing.T) {
		limiter := NewClientRateLimiter(3, 0)

		for i := 0; i < 3; i++ {
			allowed, _ := limiter.Acquire()
			assert.True(t, allowed)
		}
		allowed, reason := limiter.Acquire()
		assert.False(t, allowed)
		assert.Equal(t, ReasonRateLimited, reason)
	})
}

func TestClientRateLimiter_ReleaseWithoutAcquire(t *testing.T) {
	limiter := NewClientRateLimiter(1, 1)
	limiter.Release()

	_, inFlight := limiter.Stats()
	assert.Equal(t, 0, inFlight)
}
