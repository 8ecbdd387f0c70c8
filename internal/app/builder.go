package app

import (
	"fmt"

	"assetscope/internal/catalog"
	"assetscope/internal/chart"
	"assetscope/internal/config"
	"assetscope/internal/gateway/sources"
	"assetscope/internal/market"
	"assetscope/internal/pkg/ratelimit"
	"assetscope/internal/series"
	dashboardhttp "assetscope/internal/transport/http/dashboard"
	"assetscope/internal/view"
)

type Builder struct {
	cfg *config.Config

	sourcesFn func(*config.Config) (*sources.Set, error)
	chartFn   chart.Builder
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, opts ...BuilderOption) *Builder {
	b := &Builder{
		cfg:       cfg,
		sourcesFn: sources.NewFromConfig,
		chartFn:   chart.NewCandleChart,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// WithSources replaces how upstream clients are created.
func WithSources(fn func(*config.Config) (*sources.Set, error)) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.sourcesFn = fn
		}
	}
}

func WithChartBuilder(fn chart.Builder) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.chartFn = fn
		}
	}
}

func (b *Builder) Build() (*App, error) {
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	set, err := b.sourcesFn(cfg)
	if err != nil {
		return nil, fmt.Errorf("building sources: %w", err)
	}

	pacer, err := ratelimit.New(cfg.Catalog.Pacer, cfg.Catalog.ProbeDelay())
	if err != nil {
		return nil, err
	}
	var crypto *view.CryptoBoard
	filter := catalog.New(set.CoinGecko, set.CryptoCompare, pacer, cfg.Catalog.Limit,
		catalog.WithProgress(func(p catalog.Progress) { crypto.ObserveProgress(p) }))

	canvas := chart.NewCanvas("crypto-candles", cfg.Chart.Width, cfg.Chart.Height)
	manager := chart.NewManager(canvas,
		chart.WithBuilder(b.chartFn),
		chart.WithEMAPeriod(cfg.Chart.EMAPeriod),
		chart.WithTitle(func(gen uint64) string {
			if set := crypto.Settled(); set != nil {
				return fmt.Sprintf("%s / %s", set.Asset.TickerSymbol(), set.Selection.Window)
			}
			return ""
		}),
	)
	crypto = view.NewCryptoBoard(filter, series.NewAggregator(set.CoinGecko, set.CryptoCompare), manager, view.CryptoOptions{
		DefaultWindow: market.Window(cfg.Detail.DefaultWindow),
		ChartSize:     chart.Size{Width: cfg.Chart.Width, Height: cfg.Chart.Height * 2 / 3},
	})

	economy := view.NewEconomyBoard(set.Eurostat, series.NewMacroAggregator(set.Eurostat, set.WorldBank), view.EconomyOptions{
		CountriesDataset: cfg.Economy.CountriesDataset,
		DefaultWindow:    market.Window(cfg.Economy.DefaultWindow),
		ChartSize:        chart.Size{Width: cfg.Chart.Width / 2, Height: cfg.Chart.Height},
	})

	srv, err := dashboardhttp.NewServer(dashboardhttp.ServerConfig{
		Addr:     cfg.App.HTTPAddr,
		Crypto:   crypto,
		Economy:  economy,
		Snapshot: cfg.Chart.Snapshot,
	})
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:     cfg,
		crypto:  crypto,
		economy: economy,
		http:    srv,
		Summary: newSummary(cfg),
	}, nil
}
