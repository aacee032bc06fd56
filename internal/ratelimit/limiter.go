// Package ratelimit throttles upload bandwidth with a token bucket where
// one token is one byte. Capture machines often share the lab uplink with
// live recording sessions, so the upload command can be capped to a fixed
// byte rate.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Limiter is a token bucket over bytes. The bucket holds at most one
// second's worth of rate, so a stalled transfer cannot bank an unbounded
// burst.
type Limiter struct {
	mu          sync.Mutex
	tokens      float64
	bytesPerSec float64
	lastRefill  time.Time
}

// NewLimiter creates a limiter allowing bytesPerSec sustained throughput.
// The bucket starts full.
func NewLimiter(bytesPerSec int64) *Limiter {
	return &Limiter{
		tokens:      float64(bytesPerSec),
		bytesPerSec: float64(bytesPerSec),
		lastRefill:  time.Now(),
	}
}

// WaitN blocks until n bytes of budget are available or ctx is done.
// Requests larger than one second of budget are drained in bucket-sized
// slices rather than rejected.
func (l *Limiter) WaitN(ctx context.Context, n int64) error {
	remaining := float64(n)
	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		l.mu.Lock()
		l.refill()
		grant := l.tokens
		if grant > remaining {
			grant = remaining
		}
		l.tokens -= grant
		remaining -= grant

		var wait time.Duration
		if remaining > 0 {
			need := remaining
			if need > l.bytesPerSec {
				need = l.bytesPerSec
			}
			wait = time.Duration(need / l.bytesPerSec * float64(time.Second))
		}
		l.mu.Unlock()

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}

// refill credits tokens for the time elapsed since the last refill.
// Caller holds mu.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now

	l.tokens += elapsed * l.bytesPerSec
	if l.tokens > l.bytesPerSec {
		l.tokens = l.bytesPerSec
	}
}

// rateSuffixes maps the accepted unit suffixes to their byte multipliers.
var rateSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"G", 1 << 30},
	{"M", 1 << 20},
	{"K", 1 << 10},
}

// ParseRate parses a human rate like "5M", "512K", or "1048576" into bytes
// per second. Suffixes are case-insensitive and binary (K = 1024).
func ParseRate(s string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return 0, fmt.Errorf("empty rate")
	}

	mult := int64(1)
	for _, rs := range rateSuffixes {
		if strings.HasSuffix(trimmed, rs.suffix) {
			mult = rs.mult
			trimmed = strings.TrimSuffix(trimmed, rs.suffix)
			break
		}
	}

	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("rate must be positive, got %q", s)
	}
	return value * mult, nil
}
