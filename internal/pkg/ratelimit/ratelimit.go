// Package ratelimit paces sequential calls against rate-limited upstreams.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next call may be admitted.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay admits a call after a constant pause.
type FixedDelay struct {
	Delay time.Duration
}

func (p FixedDelay) Wait(ctx context.Context) error {
	return Sleep(ctx, p.Delay)
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TokenBucket admits one call per interval with a burst of one. The bucket
// starts empty: a Wait right after construction or Reset blocks for a full
// interval, so the call made just before it is spaced like every other.
type TokenBucket struct {
	interval time.Duration

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewTokenBucket returns an empty bucket that admits one call every interval.
func NewTokenBucket(interval time.Duration) *TokenBucket {
	if interval <= 0 {
		interval = time.Millisecond
	}
	b := &TokenBucket{interval: interval}
	b.Reset()
	return b
}

// Reset empties the bucket, dropping any credit built up while idle.
func (b *TokenBucket) Reset() {
	lim := rate.NewLimiter(rate.Every(b.interval), 1)
	lim.Allow()
	b.mu.Lock()
	b.limiter = lim
	b.mu.Unlock()
}

func (b *TokenBucket) Wait(ctx context.Context) error {
	b.mu.Lock()
	lim := b.limiter
	b.mu.Unlock()
	return lim.Wait(ctx)
}

// Restart marks the start of a paced run: the call about to be made counts as
// admitted, and the next Wait is measured from now. Stateless pacers ignore it.
func Restart(p Pacer) {
	if r, ok := p.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// New builds a pacer by kind: "fixed" (default) or "bucket".
func New(kind string, interval time.Duration) (Pacer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "fixed":
		return FixedDelay{Delay: interval}, nil
	case "bucket", "token_bucket":
		return NewTokenBucket(interval), nil
	default:
		return nil, fmt.Errorf("unknown pacer %q", kind)
	}
}
