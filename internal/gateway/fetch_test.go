package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"assetscope/internal/pkg/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()
	f, base, err := NewFetcher(Config{Name: "t", BaseURL: srv.URL + "/"}, "http://unused")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, base)

	var out struct{ OK bool }
	require.NoError(t, f.GetJSON(context.Background(), base, &out))
	assert.True(t, out.OK)
}

func TestFetcherTripsOnRateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	f, base, err := NewFetcher(Config{Name: "t", BaseURL: srv.URL, BreakerThreshold: 2, BreakerCooldown: time.Hour}, "")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.Get(context.Background(), base)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.True(t, se.RateLimited())
	}
	_, err = f.Get(context.Background(), base)
	assert.ErrorIs(t, err, circuit.ErrOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetcherNotFoundDoesNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	f, base, err := NewFetcher(Config{Name: "t", BaseURL: srv.URL, BreakerThreshold: 1}, "")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.Get(context.Background(), base)
		assert.NotErrorIs(t, err, circuit.ErrOpen)
	}
	assert.Equal(t, circuit.StateClosed, f.Breaker.State())
}

func TestUnavailableWraps(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "refused")
	assert.Same(t, err, Unavailable(err))
	assert.NoError(t, Unavailable(nil))
}

func TestNewFetcherRejectsBadProxy(t *testing.T) {
	_, _, err := NewFetcher(Config{ProxyURL: "://bad"}, "http://x")
	assert.Error(t, err)
}

func TestStatusErrorCarriesBodyExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("{\"error\": {\n  \"label\": \"" + strings.Repeat("x", 400) + "\"}}"))
	}))
	defer srv.Close()
	f, base, err := NewFetcher(Config{Name: "t", BaseURL: srv.URL}, "")
	require.NoError(t, err)

	_, err = f.Get(context.Background(), base)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.True(t, strings.HasPrefix(se.Body, `{"error": { "label":`))
	assert.True(t, strings.HasSuffix(se.Body, "..."))
	assert.NotContains(t, se.Body, "\n")
	assert.Contains(t, se.Error(), "unexpected status 400: ")
}
