package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"assetscope/internal/pkg/circuit"
)

// Config describes how to reach one upstream host.
type Config struct {
	Name        string
	BaseURL     string
	HTTPTimeout time.Duration
	ProxyURL    string

	BreakerThreshold int
	BreakerCooldown  time.Duration
}

func (c *Config) withDefaults(defaultBase string) Config {
	out := *c
	out.BaseURL = strings.TrimRight(strings.TrimSpace(out.BaseURL), "/")
	if out.BaseURL == "" {
		out.BaseURL = defaultBase
	}
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = 15 * time.Second
	}
	if out.BreakerThreshold <= 0 {
		out.BreakerThreshold = 5
	}
	if out.BreakerCooldown <= 0 {
		out.BreakerCooldown = time.Minute
	}
	out.ProxyURL = strings.TrimSpace(out.ProxyURL)
	return out
}

// NewFetcher builds a Fetcher for cfg, falling back to defaultBase when no
// base URL is configured. It returns the resolved base URL alongside.
func NewFetcher(cfg Config, defaultBase string) (*Fetcher, string, error) {
	final := cfg.withDefaults(defaultBase)
	httpClient := &http.Client{Timeout: final.HTTPTimeout}
	if final.ProxyURL != "" {
		proxyURL, err := url.Parse(final.ProxyURL)
		if err != nil {
			return nil, "", fmt.Errorf("invalid proxy url for %s: %w", final.Name, err)
		}
		baseTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok || baseTransport == nil {
			return nil, "", fmt.Errorf("http DefaultTransport is not *http.Transport")
		}
		transport := baseTransport.Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		httpClient.Transport = transport
	}
	breaker := circuit.New(final.Name, final.BreakerThreshold, final.BreakerCooldown)
	return &Fetcher{Name: final.Name, Client: httpClient, Breaker: breaker}, final.BaseURL, nil
}
