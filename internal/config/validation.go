package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	for name, src := range map[string]SourceConfig{
		"coingecko":     c.Sources.CoinGecko,
		"cryptocompare": c.Sources.CryptoCompare,
		"eurostat":      c.Sources.Eurostat,
		"worldbank":     c.Sources.WorldBank,
	} {
		if err := src.validate("sources." + name); err != nil {
			return err
		}
	}
	if c.Breaker.Threshold <= 0 {
		return fmt.Errorf("breaker.threshold must be > 0")
	}
	if c.Breaker.CooldownSeconds < 0 {
		return fmt.Errorf("breaker.cooldown_seconds must be >= 0")
	}
	if err := c.Catalog.validate(); err != nil {
		return err
	}
	if c.Detail.DefaultWindow < 0 {
		return fmt.Errorf("detail.default_window must be >= 0 (0 = max)")
	}
	if c.Economy.DefaultWindow < 0 {
		return fmt.Errorf("economy.default_window must be >= 0 (0 = max)")
	}
	if strings.TrimSpace(c.Economy.CountriesDataset) == "" {
		return fmt.Errorf("economy.countries_dataset cannot be empty")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be > 0")
	}
	if c.Chart.EMAPeriod <= 1 {
		return fmt.Errorf("chart.ema_period must be > 1")
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level %q is not one of debug/info/warn/error", a.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(a.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("app.log_format %q must be text or json", a.LogFormat)
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (s SourceConfig) validate(prefix string) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s.base_url %q is not an absolute URL", prefix, s.BaseURL)
	}
	if s.TimeoutSeconds <= 0 {
		return fmt.Errorf("%s.timeout_seconds must be > 0", prefix)
	}
	if s.Proxy != "" {
		if _, err := url.Parse(s.Proxy); err != nil {
			return fmt.Errorf("%s.proxy: %w", prefix, err)
		}
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	if c.Limit <= 0 || c.Limit > 250 {
		return fmt.Errorf("catalog.limit must be within 1..250")
	}
	if c.ProbeLimit <= 0 {
		return fmt.Errorf("catalog.probe_limit must be > 0")
	}
	if c.ProbeDelayMS < 0 {
		return fmt.Errorf("catalog.probe_delay_ms must be >= 0")
	}
	switch c.Pacer {
	case "fixed", "bucket", "token_bucket":
	default:
		return fmt.Errorf("catalog.pacer %q must be fixed or bucket", c.Pacer)
	}
	return nil
}
