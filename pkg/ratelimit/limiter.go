package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// FixedInterval enforces a minimum spacing between consecutive calls. It is a
// deliberate coarse fixed-delay policy, not adaptive backoff: the remote
// source tolerates slow steady clients and throttles bursty ones.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval rate limiter
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous call returned. The first call never blocks.
func (f *FixedInterval) Wait() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.last.IsZero() {
		if remaining := f.interval - time.Since(f.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	f.last = time.Now()
}

// Reset clears the last-call timestamp so the next Wait does not block
func (f *FixedInterval) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = time.Time{}
}

// Noop is a limiter that never blocks, for tests and dry runs
type Noop struct{}

func (Noop) Wait()  {}
func (Noop) Reset() {}
