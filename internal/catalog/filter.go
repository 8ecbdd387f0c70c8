// Package catalog builds the selectable asset catalog by keeping only assets
// for which the candle source actually has data.
package catalog

import (
	"context"
	"time"

	"assetscope/internal/logger"
	"assetscope/internal/market"
	"assetscope/internal/pkg/ratelimit"
)

// DefaultProbeDelay keeps a 50-asset probe run under the candle source's
// public rate limit.
const DefaultProbeDelay = 120 * time.Millisecond

type Lister interface {
	FetchCatalog(ctx context.Context, limit int) (market.Catalog, error)
}

type Prober interface {
	ProbeAvailability(ctx context.Context, symbol string) bool
}

// Progress is reported after every probe.
type Progress struct {
	Probed int `json:"probed"`
	Total  int `json:"total"`
	Kept   int `json:"kept"`
}

type Filter struct {
	lister     Lister
	prober     Prober
	pacer      ratelimit.Pacer
	limit      int
	onProgress func(Progress)
}

type Option func(*Filter)

// WithProgress registers a callback invoked after each probe.
func WithProgress(fn func(Progress)) Option {
	return func(f *Filter) { f.onProgress = fn }
}

func New(lister Lister, prober Prober, pacer ratelimit.Pacer, limit int, opts ...Option) *Filter {
	if pacer == nil {
		pacer = ratelimit.FixedDelay{Delay: DefaultProbeDelay}
	}
	if limit <= 0 {
		limit = 50
	}
	f := &Filter{lister: lister, prober: prober, pacer: pacer, limit: limit}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Build fetches the raw catalog and probes each asset one at a time, pacing
// between probes. The result keeps the raw (rank) order. When the raw catalog
// is unavailable the error is returned as is and no retry is attempted.
// Cancelling ctx abandons the run.
func (f *Filter) Build(ctx context.Context) (market.Catalog, error) {
	raw, err := f.lister.FetchCatalog(ctx, f.limit)
	if err != nil {
		return market.Catalog{}, err
	}
	kept := make(market.Catalog, 0, len(raw))
	start := time.Now()
	for i, listing := range raw {
		if i == 0 {
			ratelimit.Restart(f.pacer)
		} else if err := f.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		if f.prober.ProbeAvailability(ctx, listing.Asset.Symbol) {
			kept = append(kept, listing)
		} else {
			logger.Debugf("catalog: %s (%s) has no candles, skipped", listing.Asset.ID, listing.Asset.Symbol)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.onProgress != nil {
			f.onProgress(Progress{Probed: i + 1, Total: len(raw), Kept: len(kept)})
		}
	}
	logger.Infof("catalog: kept %d/%d assets in %s", len(kept), len(raw), time.Since(start).Round(time.Millisecond))
	return kept, nil
}
