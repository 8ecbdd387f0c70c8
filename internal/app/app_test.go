package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetscope/internal/config"
	"assetscope/internal/view"
)

func testConfig(upstream string) *config.Config {
	cfg := config.Default()
	cfg.App.HTTPAddr = "127.0.0.1:0"
	for _, src := range []*config.SourceConfig{
		&cfg.Sources.CoinGecko, &cfg.Sources.CryptoCompare, &cfg.Sources.Eurostat, &cfg.Sources.WorldBank,
	} {
		src.BaseURL = upstream
		src.TimeoutSeconds = 2
	}
	cfg.Catalog.ProbeDelayMS = 0
	return cfg
}

func TestNewAppRequiresConfig(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}

func TestRunWithUnavailableUpstreams(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	a, err := NewApp(testConfig(upstream.URL))
	require.NoError(t, err)
	require.NotNil(t, a.Server())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		return a.Crypto().Snapshot().Display == view.DisplayEmpty &&
			a.Economy().Snapshot().Display == view.DisplayEmpty
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.ErrorIs(t, a.Crypto().Select("bitcoin"), view.ErrUnknownEntity)
}

func TestSummary(t *testing.T) {
	cfg := config.Default()
	cfg.Economy.DefaultWindow = 0
	cfg.Detail.DefaultWindow = 90
	out := newSummary(cfg).String()
	assert.Contains(t, out, "coingecko")
	assert.Contains(t, out, "https://api.coingecko.com/api/v3")
	assert.Contains(t, out, "crypto window 90")
	assert.Contains(t, out, "nama_10_gdp, window max")
	assert.Contains(t, out, "fixed pacer every 120ms")
}
