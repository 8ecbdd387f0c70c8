package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"assetscope/internal/catalog"
	"assetscope/internal/chart"
	"assetscope/internal/generation"
	"assetscope/internal/logger"
	"assetscope/internal/market"
)

// ErrNoSeries is returned by the series renderers while nothing is settled.
var ErrNoSeries = errors.New("no settled series")

type CatalogBuilder interface {
	Build(ctx context.Context) (market.Catalog, error)
}

type SeriesAggregator interface {
	Aggregate(ctx context.Context, tok generation.Token, asset market.AssetDescriptor) market.SeriesSet
}

type CryptoOptions struct {
	DefaultWindow market.Window
	ChartSize     chart.Size
}

// CryptoSnapshot is what the crypto dashboard shows right now.
type CryptoSnapshot struct {
	Display    Display           `json:"display"`
	Message    string            `json:"message,omitempty"`
	Progress   catalog.Progress  `json:"progress"`
	Catalog    market.Catalog    `json:"catalog"`
	State      State             `json:"state"`
	Generation uint64            `json:"generation"`
	Settled    *market.SeriesSet `json:"settled,omitempty"`
	Chart      chart.Stats       `json:"chart"`
}

// CryptoBoard drives the crypto dashboard: it loads the filtered catalog,
// fetches the detail series for each selection and feeds the candle chart.
type CryptoBoard struct {
	catalog CatalogBuilder
	agg     SeriesAggregator
	charts  *chart.Manager
	size    chart.Size
	machine *Machine
	guard   generation.Guard

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// actions serializes user intents so the machine and the guard move together.
	actions sync.Mutex

	mu             sync.RWMutex
	started        bool
	closed         bool
	catalogLoading bool
	catalogErr     error
	progress       catalog.Progress
	listings       market.Catalog
	loadingDetail  bool
	settled        *market.SeriesSet
}

func NewCryptoBoard(builder CatalogBuilder, agg SeriesAggregator, charts *chart.Manager, opts CryptoOptions) *CryptoBoard {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.ChartSize.Width <= 0 || opts.ChartSize.Height <= 0 {
		opts.ChartSize = chart.Size{Width: 960, Height: 300}
	}
	return &CryptoBoard{
		catalog: builder,
		agg:     agg,
		charts:  charts,
		size:    opts.ChartSize,
		machine: NewMachine(opts.DefaultWindow),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start loads the catalog in the background. Once it is built the first
// entry is selected. Calling Start twice is a no-op.
func (b *CryptoBoard) Start() {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.catalogLoading = true
	b.mu.Unlock()

	b.wg.Add(1)
	go b.loadCatalog()
}

func (b *CryptoBoard) loadCatalog() {
	defer b.wg.Done()
	listings, err := b.catalog.Build(b.ctx)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.catalogLoading = false
	if err != nil {
		b.catalogErr = err
		b.listings = market.Catalog{}
	} else {
		b.listings = listings
	}
	b.mu.Unlock()

	if err != nil {
		logger.Warnf("crypto catalog unavailable: %v", err)
		return
	}
	if len(listings) == 0 {
		logger.Warnf("crypto catalog is empty after probing")
		return
	}
	if b.machine.State().Mode == ModeBrowsing {
		if err := b.Select(listings[0].Asset.ID); err != nil && !errors.Is(err, ErrClosed) {
			logger.Warnf("auto-select %s: %v", listings[0].Asset.ID, err)
		}
	}
}

// ObserveProgress records catalog probe progress for the loading message.
func (b *CryptoBoard) ObserveProgress(p catalog.Progress) {
	b.mu.Lock()
	b.progress = p
	b.mu.Unlock()
}

// Select makes id the active asset and fetches its series.
func (b *CryptoBoard) Select(id string) error {
	b.actions.Lock()
	defer b.actions.Unlock()

	listing, ok := b.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, id)
	}
	if b.isClosed() {
		return ErrClosed
	}
	sel, err := b.machine.Open(id)
	if err != nil {
		return err
	}
	b.begin(sel, listing.Asset)
	return nil
}

// SetWindow refetches the active asset for a new window.
func (b *CryptoBoard) SetWindow(w market.Window) error {
	b.actions.Lock()
	defer b.actions.Unlock()

	if b.isClosed() {
		return ErrClosed
	}
	sel, err := b.machine.SetWindow(w)
	if err != nil {
		return err
	}
	listing, ok := b.lookup(sel.EntityID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, sel.EntityID)
	}
	b.begin(sel, listing.Asset)
	return nil
}

// begin issues a new generation, resets the detail view and starts the fetch.
// Callers hold b.actions.
func (b *CryptoBoard) begin(sel market.Selection, asset market.AssetDescriptor) {
	tok := b.guard.Begin(sel)
	b.guard.Apply(tok, func() {
		b.mu.Lock()
		b.settled = nil
		b.loadingDetail = true
		b.mu.Unlock()
		b.charts.Dispose()
	})
	logger.Debugf("crypto select %s gen=%d", sel.Key(), tok.Gen)

	b.wg.Add(1)
	go b.fetch(tok, asset)
}

func (b *CryptoBoard) fetch(tok generation.Token, asset market.AssetDescriptor) {
	defer b.wg.Done()
	set := b.agg.Aggregate(b.ctx, tok, asset)

	applied := b.guard.Apply(tok, func() {
		b.mu.Lock()
		b.settled = &set
		b.loadingDetail = false
		b.mu.Unlock()
		if err := b.charts.Present(tok.Gen, set.Candles); err != nil {
			logger.Warnf("crypto chart gen=%d: %v", tok.Gen, err)
		}
	})
	if !applied {
		logger.Debugf("crypto gen=%d (%s) superseded, result dropped", tok.Gen, tok.Selection.Key())
	}
}

func (b *CryptoBoard) lookup(id string) (market.Listing, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.listings.Find(id)
}

func (b *CryptoBoard) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Snapshot derives the display state from one consistent read.
func (b *CryptoBoard) Snapshot() CryptoSnapshot {
	st := b.machine.State()
	gen := b.guard.Current()
	stats := b.charts.Stats()

	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := CryptoSnapshot{
		Progress:   b.progress,
		Catalog:    b.listings,
		State:      st,
		Generation: gen,
		Settled:    b.settled,
		Chart:      stats,
	}
	switch {
	case b.catalogLoading:
		snap.Display = DisplayLoadingCatalog
		snap.Message = fmt.Sprintf("Loading assets (%d/%d)", b.progress.Probed, b.progress.Total)
	case len(b.listings) == 0:
		snap.Display = DisplayEmpty
		snap.Message = "No assets available"
	case st.Mode == ModeBrowsing:
		snap.Display = DisplayBrowsing
	case b.loadingDetail || b.settled == nil:
		snap.Display = DisplayLoadingDetail
		snap.Message = "Loading market data"
	case b.settled.Ready():
		snap.Display = DisplayReady
	default:
		snap.Display = DisplayNoData
		snap.Message = "No market data available"
	}
	return snap
}

// Settled returns the current data set or nil.
func (b *CryptoBoard) Settled() *market.SeriesSet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settled
}

// RenderChart writes the live candle chart. It reports false when none is
// attached.
func (b *CryptoBoard) RenderChart(w io.Writer) (bool, error) {
	return b.charts.Canvas().Render(w)
}

// SnapshotChart screenshots the live candle chart.
func (b *CryptoBoard) SnapshotChart(ctx context.Context) ([]byte, error) {
	h := b.charts.Live()
	if h == nil {
		return nil, ErrNoSeries
	}
	return h.Snapshot(ctx)
}

func (b *CryptoBoard) RenderMarketCap(w io.Writer) error {
	set := b.Settled()
	if !set.Ready() {
		return ErrNoSeries
	}
	return chart.RenderArea(w, fmt.Sprintf("%s market cap", set.Asset.Name), b.size, set.MarketCaps)
}

func (b *CryptoBoard) RenderVolume(w io.Writer) error {
	set := b.Settled()
	if !set.Ready() {
		return ErrNoSeries
	}
	return chart.RenderBars(w, fmt.Sprintf("%s volume", set.Asset.Name), b.size, set.Volumes)
}

// Close abandons outstanding work and tears down the chart surface. It does
// not wait for in-flight requests.
func (b *CryptoBoard) Close() {
	b.actions.Lock()
	defer b.actions.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.catalogLoading = false
	b.mu.Unlock()

	b.guard.Invalidate()
	b.cancel()
	b.charts.Dispose()
	b.charts.Canvas().Close()
}

// Wait blocks until every background goroutine has returned.
func (b *CryptoBoard) Wait() {
	b.wg.Wait()
}
