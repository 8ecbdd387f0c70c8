package app

import (
	"fmt"
	"strings"

	"assetscope/internal/config"
	"assetscope/internal/logger"
)

type StartupSummary struct {
	Env       string
	HTTPAddr  string
	Sources   []SourceSummary
	Catalog   config.CatalogConfig
	Detail    string
	Economy   string
	ChartSize string
	Snapshot  bool
}

type SourceSummary struct {
	Name    string
	BaseURL string
	Timeout string
}

func newSummary(cfg *config.Config) *StartupSummary {
	src := func(name string, s config.SourceConfig) SourceSummary {
		return SourceSummary{Name: name, BaseURL: s.BaseURL, Timeout: s.Timeout().String()}
	}
	return &StartupSummary{
		Env:      cfg.App.Env,
		HTTPAddr: cfg.App.HTTPAddr,
		Sources: []SourceSummary{
			src("coingecko", cfg.Sources.CoinGecko),
			src("cryptocompare", cfg.Sources.CryptoCompare),
			src("eurostat", cfg.Sources.Eurostat),
			src("worldbank", cfg.Sources.WorldBank),
		},
		Catalog:   cfg.Catalog,
		Detail:    windowLabel(cfg.Detail.DefaultWindow),
		Economy:   fmt.Sprintf("%s, window %s", cfg.Economy.CountriesDataset, windowLabel(cfg.Economy.DefaultWindow)),
		ChartSize: fmt.Sprintf("%dx%d, EMA %d", cfg.Chart.Width, cfg.Chart.Height, cfg.Chart.EMAPeriod),
		Snapshot:  cfg.Chart.Snapshot,
	}
}

func windowLabel(w int) string {
	if w <= 0 {
		return "max"
	}
	return fmt.Sprintf("%d", w)
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	line := strings.Repeat("=", 72)
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "assetscope (env=%s, http=%s)\n", s.Env, s.HTTPAddr)
	b.WriteString(line + "\n")
	b.WriteString("[SOURCES]\n")
	for _, src := range s.Sources {
		fmt.Fprintf(&b, "  %-14s %s (timeout %s)\n", src.Name, src.BaseURL, src.Timeout)
	}
	b.WriteString("[CATALOG]\n")
	fmt.Fprintf(&b, "  limit %d, probe %d bars, %s pacer every %dms\n",
		s.Catalog.Limit, s.Catalog.ProbeLimit, s.Catalog.Pacer, s.Catalog.ProbeDelayMS)
	b.WriteString("[VIEWS]\n")
	fmt.Fprintf(&b, "  crypto window %s\n", s.Detail)
	fmt.Fprintf(&b, "  economy %s\n", s.Economy)
	fmt.Fprintf(&b, "  chart %s, snapshot=%t\n", s.ChartSize, s.Snapshot)
	b.WriteString(line)
	return b.String()
}

func (s *StartupSummary) Print() {
	logger.InfoBlock(s.String())
}
