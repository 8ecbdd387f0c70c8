package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedDelayWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay{Delay: 20 * time.Millisecond}.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FixedDelay{Delay: time.Hour}.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenBucketStartsEmpty(t *testing.T) {
	b := NewTokenBucket(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, b.Wait(ctx))
}

func TestTokenBucketSpacesCalls(t *testing.T) {
	b := NewTokenBucket(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRestartDropsIdleCredit(t *testing.T) {
	b := NewTokenBucket(40 * time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	Restart(b)
	start := time.Now()
	require.NoError(t, b.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	// no-op for stateless pacers
	Restart(FixedDelay{Delay: time.Millisecond})
}

func TestNewPacer(t *testing.T) {
	p, err := New("", time.Millisecond)
	require.NoError(t, err)
	assert.IsType(t, FixedDelay{}, p)
	p, err = New("bucket", time.Millisecond)
	require.NoError(t, err)
	assert.IsType(t, &TokenBucket{}, p)
	_, err = New("leaky", time.Millisecond)
	assert.Error(t, err)
}
