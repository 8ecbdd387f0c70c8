// Package series fetches every series a detail view needs for one selection
// and merges them into a single settled set.
package series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetscope/internal/generation"
	"assetscope/internal/logger"
	"assetscope/internal/market"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNoData means every call succeeded but at least one series came back empty.
var ErrNoData = errors.New("no market data available")

type HistorySource interface {
	FetchHistory(ctx context.Context, id string, window market.Window) (market.History, error)
}

type CandleSource interface {
	FetchCandles(ctx context.Context, symbol string, window market.Window) ([]market.Candle, error)
}

// Aggregator joins the market history and candle sources.
type Aggregator struct {
	history HistorySource
	candles CandleSource
}

func NewAggregator(history HistorySource, candles CandleSource) *Aggregator {
	return &Aggregator{history: history, candles: candles}
}

// Aggregate runs the history and candle calls concurrently and waits for both
// to settle. The set is ready only when every series is non-empty; otherwise
// it carries StatusNoData and no series at all. Values are passed through
// untouched and malformed bars are reported in Issues, not corrected.
func (a *Aggregator) Aggregate(ctx context.Context, tok generation.Token, asset market.AssetDescriptor) market.SeriesSet {
	set := market.SeriesSet{
		Generation: tok.Gen,
		TraceID:    uuid.NewString(),
		Selection:  tok.Selection,
		Asset:      asset,
	}
	log := logger.With("trace", set.TraceID, "asset", asset.ID, "gen", tok.Gen)
	start := time.Now()

	var (
		history market.History
		candles []market.Candle
	)
	var eg errgroup.Group
	eg.Go(func() error {
		h, err := a.history.FetchHistory(ctx, asset.ID, tok.Selection.Window)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		history = h
		return nil
	})
	eg.Go(func() error {
		c, err := a.candles.FetchCandles(ctx, asset.TickerSymbol(), tok.Selection.Window)
		if err != nil {
			return fmt.Errorf("candles: %w", err)
		}
		candles = c
		return nil
	})
	err := eg.Wait()
	if err == nil {
		err = checkComplete(history, candles)
	}
	if err != nil {
		set.Status = market.StatusNoData
		set.Reason = err.Error()
		log.Info("selection has no data", "reason", set.Reason, "dur", time.Since(start).Round(time.Millisecond))
		return set
	}

	set.Status = market.StatusReady
	set.Prices = history.Prices
	set.MarketCaps = history.MarketCaps
	set.Volumes = history.Volumes
	set.Candles = candles
	set.Issues = market.CheckCandles(candles)
	for _, issue := range set.Issues {
		log.Warn("candle data-quality issue", "issue", issue.String())
	}
	log.Debug("selection settled", "bars", len(candles), "points", len(history.Prices), "dur", time.Since(start).Round(time.Millisecond))
	return set
}

func checkComplete(h market.History, candles []market.Candle) error {
	switch {
	case len(candles) == 0:
		return fmt.Errorf("candles: %w", ErrNoData)
	case len(h.Prices) == 0:
		return fmt.Errorf("prices: %w", ErrNoData)
	case len(h.MarketCaps) == 0:
		return fmt.Errorf("market caps: %w", ErrNoData)
	case len(h.Volumes) == 0:
		return fmt.Errorf("volumes: %w", ErrNoData)
	}
	return nil
}
