package config

import "strings"

// Config is the root of configs/config.yaml.
type Config struct {
	App     AppConfig     `mapstructure:"app" yaml:"app"`
	Sources SourcesConfig `mapstructure:"sources" yaml:"sources"`
	Breaker BreakerConfig `mapstructure:"breaker" yaml:"breaker"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Detail  DetailConfig  `mapstructure:"detail" yaml:"detail"`
	Economy EconomyConfig `mapstructure:"economy" yaml:"economy"`
	Chart   ChartConfig   `mapstructure:"chart" yaml:"chart"`
}

type AppConfig struct {
	Env       string `mapstructure:"env" yaml:"env"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	HTTPAddr  string `mapstructure:"http_addr" yaml:"http_addr"`
	LogPath   string `mapstructure:"log_path" yaml:"log_path"`
}

type SourcesConfig struct {
	CoinGecko     SourceConfig `mapstructure:"coingecko" yaml:"coingecko"`
	CryptoCompare SourceConfig `mapstructure:"cryptocompare" yaml:"cryptocompare"`
	Eurostat      SourceConfig `mapstructure:"eurostat" yaml:"eurostat"`
	WorldBank     SourceConfig `mapstructure:"worldbank" yaml:"worldbank"`
}

// SourceConfig describes one upstream HTTP API.
type SourceConfig struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Currency       string `mapstructure:"currency" yaml:"currency,omitempty"`
	Proxy          string `mapstructure:"proxy" yaml:"proxy,omitempty"`
}

type BreakerConfig struct {
	Threshold       int `mapstructure:"threshold" yaml:"threshold"`
	CooldownSeconds int `mapstructure:"cooldown_seconds" yaml:"cooldown_seconds"`
}

// CatalogConfig controls how the crypto catalog is built and probed.
type CatalogConfig struct {
	Limit        int    `mapstructure:"limit" yaml:"limit"`
	ProbeLimit   int    `mapstructure:"probe_limit" yaml:"probe_limit"`
	ProbeDelayMS int    `mapstructure:"probe_delay_ms" yaml:"probe_delay_ms"`
	Pacer        string `mapstructure:"pacer" yaml:"pacer"`
}

// DetailConfig holds the crypto detail view defaults. A window of 0 means max.
type DetailConfig struct {
	DefaultWindow int `mapstructure:"default_window" yaml:"default_window"`
}

type EconomyConfig struct {
	DefaultWindow    int    `mapstructure:"default_window" yaml:"default_window"`
	CountriesDataset string `mapstructure:"countries_dataset" yaml:"countries_dataset"`
}

type ChartConfig struct {
	Width     int  `mapstructure:"width" yaml:"width"`
	Height    int  `mapstructure:"height" yaml:"height"`
	EMAPeriod int  `mapstructure:"ema_period" yaml:"ema_period"`
	Snapshot  bool `mapstructure:"snapshot" yaml:"snapshot"`
}

type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault fills one field unless the key was set explicitly.
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
