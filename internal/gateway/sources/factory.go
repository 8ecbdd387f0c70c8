// Package sources builds every upstream client from the loaded configuration.
package sources

import (
	"fmt"

	"assetscope/internal/config"
	"assetscope/internal/gateway"
	"assetscope/internal/gateway/coingecko"
	"assetscope/internal/gateway/cryptocompare"
	"assetscope/internal/gateway/eurostat"
	"assetscope/internal/gateway/worldbank"
)

// Set holds one client per upstream.
type Set struct {
	CoinGecko     *coingecko.Client
	CryptoCompare *cryptocompare.Client
	Eurostat      *eurostat.Client
	WorldBank     *worldbank.Client
}

func gatewayConfig(name string, src config.SourceConfig, br config.BreakerConfig) gateway.Config {
	return gateway.Config{
		Name:             name,
		BaseURL:          src.BaseURL,
		HTTPTimeout:      src.Timeout(),
		ProxyURL:         src.Proxy,
		BreakerThreshold: br.Threshold,
		BreakerCooldown:  br.Cooldown(),
	}
}

func NewFromConfig(cfg *config.Config) (*Set, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	srcs := cfg.Sources
	cg, err := coingecko.New(gatewayConfig("coingecko", srcs.CoinGecko, cfg.Breaker), srcs.CoinGecko.Currency)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	cc, err := cryptocompare.New(gatewayConfig("cryptocompare", srcs.CryptoCompare, cfg.Breaker), cryptocompare.Options{
		APIKey:     srcs.CryptoCompare.APIKey,
		Quote:      srcs.CryptoCompare.Currency,
		ProbeLimit: cfg.Catalog.ProbeLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("cryptocompare: %w", err)
	}
	es, err := eurostat.New(gatewayConfig("eurostat", srcs.Eurostat, cfg.Breaker))
	if err != nil {
		return nil, fmt.Errorf("eurostat: %w", err)
	}
	wb, err := worldbank.New(gatewayConfig("worldbank", srcs.WorldBank, cfg.Breaker))
	if err != nil {
		return nil, fmt.Errorf("worldbank: %w", err)
	}
	return &Set{CoinGecko: cg, CryptoCompare: cc, Eurostat: es, WorldBank: wb}, nil
}
