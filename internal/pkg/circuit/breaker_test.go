package circuit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	now := time.Unix(0, 0)
	b := New("test", 2, time.Minute)
	b.now = func() time.Time { return now }
	boom := errors.New("boom")

	assert.ErrorIs(t, b.Do(func() error { return boom }, nil), boom)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Do(func() error { return boom }, nil), boom)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil }, nil)
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.NoError(t, b.Do(func() error { return nil }, nil))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	now := time.Unix(0, 0)
	b := New("test", 1, time.Second)
	b.now = func() time.Time { return now }
	boom := errors.New("boom")

	_ = b.Do(func() error { return boom }, nil)
	now = now.Add(2 * time.Second)
	_ = b.Do(func() error { return boom }, nil)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerIgnoresUncountedErrors(t *testing.T) {
	b := New("test", 1, time.Minute)
	notFound := errors.New("not found")
	err := b.Do(func() error { return notFound }, func(err error) bool { return !errors.Is(err, notFound) })
	assert.ErrorIs(t, err, notFound)
	assert.Equal(t, StateClosed, b.State())
}

func TestNilBreakerRunsFn(t *testing.T) {
	var b *Breaker
	called := false
	assert.NoError(t, b.Do(func() error { called = true; return nil }, nil))
	assert.True(t, called)
}
