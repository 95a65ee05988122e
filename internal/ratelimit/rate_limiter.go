// rate_limiter.go - Rate limiting to stay under model API request quotas

package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	tokens         int
	maxTokens      int
	refillRate     time.Duration
	lastRefillTime time.Time
	mu             sync.Mutex
}

// NewRateLimiter creates a new rate limiter
// maxTokens: bucket capacity
// refillRate: time between token refills
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillRate:     refillRate,
		lastRefillTime: time.Now(),
	}
}

// Wait blocks until a token is available
func (rl *RateLimiter) Wait() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	for rl.tokens <= 0 {
		rl.mu.Unlock()
		time.Sleep(100 * time.Millisecond)
		rl.mu.Lock()
		rl.refill()
	}

	rl.tokens--
}

// refill adds tokens based on elapsed time. Caller must hold mu.
func (rl *RateLimiter) refill() {
	now := time.Now()
	tokensToAdd := int(now.Sub(rl.lastRefillTime) / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefillTime = now
	}
}

// Global rate limiter shared by all model API calls.
// Sized below the 15 RPM free-tier limit to absorb latency and bursts:
// 12 tokens refilled one per 5 seconds leaves ~20% headroom.
var globalRateLimiter = NewRateLimiter(12, 5*time.Second)

// WaitForRateLimit waits if we're hitting rate limits
func WaitForRateLimit() {
	globalRateLimiter.Wait()
}
