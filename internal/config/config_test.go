package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "usd", cfg.Sources.CoinGecko.Currency)
	assert.Equal(t, "USD", cfg.Sources.CryptoCompare.Currency)
	assert.Equal(t, 50, cfg.Catalog.Limit)
	assert.Equal(t, 120*time.Millisecond, cfg.Catalog.ProbeDelay())
	assert.Equal(t, "fixed", cfg.Catalog.Pacer)
	assert.Equal(t, 30, cfg.Detail.DefaultWindow)
	assert.Equal(t, 0, cfg.Economy.DefaultWindow)
	assert.Equal(t, "nama_10_gdp", cfg.Economy.CountriesDataset)
	assert.Equal(t, 15*time.Second, cfg.Sources.Eurostat.Timeout())
	assert.Equal(t, 30*time.Second, cfg.Breaker.Cooldown())
	require.NoError(t, validate(cfg))
}

func TestLoadWithIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sources.yaml", `
sources:
  coingecko:
    base_url: http://127.0.0.1:9000/api/v3/
    timeout_seconds: 3
`)
	path := writeFile(t, dir, "config.yaml", `
include:
  - sources.yaml
app:
  log_level: debug
  http_addr: ":9999"
detail:
  default_window: 0
catalog:
  limit: 5
  pacer: bucket
chart:
  snapshot: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, ":9999", cfg.App.HTTPAddr)
	assert.Equal(t, "http://127.0.0.1:9000/api/v3", cfg.Sources.CoinGecko.BaseURL)
	assert.Equal(t, 3, cfg.Sources.CoinGecko.TimeoutSeconds)
	assert.Equal(t, "usd", cfg.Sources.CoinGecko.Currency)
	assert.Equal(t, 0, cfg.Detail.DefaultWindow, "explicit 0 means max and is kept")
	assert.Equal(t, 5, cfg.Catalog.Limit)
	assert.Equal(t, "bucket", cfg.Catalog.Pacer)
	assert.True(t, cfg.Chart.Snapshot)
	assert.Equal(t, 960, cfg.Chart.Width)
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")
	_, err := Load(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"bad level":  "app:\n  log_level: loud\n",
		"bad pacer":  "catalog:\n  pacer: random\n",
		"bad url":    "sources:\n  eurostat:\n    base_url: not-a-url\n",
		"neg window": "economy:\n  default_window: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", body)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, found, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	path := writeFile(t, t.TempDir(), "config.yaml", "app:\n  env: prod\n")
	cfg, found, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "prod", cfg.App.Env)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, PathFromEnv())
	t.Setenv(EnvPath, "/etc/assetscope.yaml")
	assert.Equal(t, "/etc/assetscope.yaml", PathFromEnv())
}

func TestDumpMasksKeys(t *testing.T) {
	cfg := Default()
	cfg.Sources.CryptoCompare.APIKey = "secret"
	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "***")
	assert.NotContains(t, out, "secret")
	assert.Equal(t, "secret", cfg.Sources.CryptoCompare.APIKey)
}
