package series

import (
	"context"
	"fmt"
	"time"

	"assetscope/internal/gateway/eurostat"
	"assetscope/internal/generation"
	"assetscope/internal/logger"
	"assetscope/internal/market"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type StructuralSource interface {
	Fetch(ctx context.Context, ind eurostat.Indicator, country string, window market.Window) (market.Observations, error)
}

type SectorSource interface {
	FetchSectorShares(ctx context.Context, country string) ([]market.SectorShare, error)
}

// MacroAggregator joins the structural indicators and the sector breakdown of
// one country. The first failure cancels the rest and fails the whole set.
type MacroAggregator struct {
	structural StructuralSource
	sectors    SectorSource
}

func NewMacroAggregator(structural StructuralSource, sectors SectorSource) *MacroAggregator {
	return &MacroAggregator{structural: structural, sectors: sectors}
}

func (a *MacroAggregator) Aggregate(ctx context.Context, tok generation.Token) (market.MacroSet, error) {
	set := market.MacroSet{
		Generation: tok.Gen,
		TraceID:    uuid.NewString(),
		Selection:  tok.Selection,
	}
	country := tok.Selection.EntityID
	start := time.Now()

	var gdp, inflation, unemployment market.Observations
	var sectors []market.SectorShare
	eg, egCtx := errgroup.WithContext(ctx)
	fetch := func(ind eurostat.Indicator, dst *market.Observations) {
		eg.Go(func() error {
			obs, err := a.structural.Fetch(egCtx, ind, country, tok.Selection.Window)
			if err != nil {
				return fmt.Errorf("%s: %w", ind.Name, err)
			}
			*dst = obs
			return nil
		})
	}
	fetch(eurostat.GDP, &gdp)
	fetch(eurostat.Inflation, &inflation)
	fetch(eurostat.Unemployment, &unemployment)
	if a.sectors != nil {
		eg.Go(func() error {
			s, err := a.sectors.FetchSectorShares(egCtx, country)
			if err != nil {
				return fmt.Errorf("sectors: %w", err)
			}
			sectors = s
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		set.Status = market.StatusFailed
		set.Reason = err.Error()
		logger.Warnf("macro %s (trace=%s gen=%d) failed: %v", country, set.TraceID, tok.Gen, err)
		return set, err
	}
	set.Status = market.StatusReady
	set.GDP = gdp
	set.Inflation = inflation
	set.Unemployment = unemployment
	set.Sectors = sectors
	logger.Debugf("macro %s (trace=%s gen=%d) settled in %s", country, set.TraceID, tok.Gen, time.Since(start).Round(time.Millisecond))
	return set, nil
}
