package gateway

import (
	"sync"
	"time"
)

// Rejection reasons returned by Acquire.
const (
	ReasonRateLimited   = "rate limit exceeded"
	ReasonTooConcurrent = "too many concurrent requests"
)

// ClientRateLimiter optionally bounds tool calls per websocket connection
// with a sliding one-minute window and a concurrency cap. A zero limit
// disables that check.
type ClientRateLimiter struct {
	mu                sync.Mutex
	requestsPerMinute int
	maxConcurrent     int
	window            []time.Time
	inFlight          int
	now               func() time.Time
}

// NewClientRateLimiter creates a limiter; non-positive limits mean unlimited.
func NewClientRateLimiter(requestsPerMinute, maxConcurrent int) *ClientRateLimiter {
	if requestsPerMinute < 0 {
		requestsPerMinute = 0
	}
	if maxConcurrent < 0 {
		maxConcurrent = 0
	}
	return &ClientRateLimiter{
		requestsPerMinute: requestsPerMinute,
		maxConcurrent:     maxConcurrent,
		now:               time.Now,
	}
}

// Acquire reserves a slot. On rejection it returns false and the reason.
// Every successful Acquire must be paired with Release.
func (r *ClientRateLimiter) Acquire() (bool, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxConcurrent > 0 && r.inFlight >= r.maxConcurrent {
		return false, ReasonTooConcurrent
	}

	if r.requestsPerMinute > 0 {
		now := r.now()
		r.prune(now)
		if len(r.window) >= r.requestsPerMinute {
			return false, ReasonRateLimited
		}
		r.window = append(r.window, now)
	}
	r.inFlight++
	return true, ""
}

// Unlimited reports whether both limits are disabled.
func (r *ClientRateLimiter) Unlimited() bool {
	return r.requestsPerMinute == 0 && r.maxConcurrent == 0
}

// Release frees a slot taken by Acquire
func (r *ClientRateLimiter) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight > 0 {
		r.inFlight--
	}
}

// Stats returns the requests in the current window and in flight.
func (r *ClientRateLimiter) Stats() (windowCount, inFlight int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(r.now())
	return len(r.window), r.inFlight
}

func (r *ClientRateLimiter) prune(now time.Time) {
	cutoff := now.Add(-time.Minute)
	i := 0
	for i < len(r.window) && !r.window[i].After(cutoff) {
		i++
	}
	r.window = r.window[i:]
}
