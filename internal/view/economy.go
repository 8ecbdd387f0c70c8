package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"assetscope/internal/chart"
	"assetscope/internal/generation"
	"assetscope/internal/logger"
	"assetscope/internal/market"
)

type CountrySource interface {
	FetchCountries(ctx context.Context, dataset string) ([]market.Country, error)
}

type MacroAggregator interface {
	Aggregate(ctx context.Context, tok generation.Token) (market.MacroSet, error)
}

type EconomyOptions struct {
	CountriesDataset string
	DefaultWindow    market.Window
	ChartSize        chart.Size
}

// EconomySnapshot is what the economy dashboard shows right now.
type EconomySnapshot struct {
	Display    Display               `json:"display"`
	Message    string                `json:"message,omitempty"`
	Countries  []market.Country      `json:"countries"`
	State      State                 `json:"state"`
	Country    *market.Country       `json:"country,omitempty"`
	Profile    *market.MarketProfile `json:"profile,omitempty"`
	Generation uint64                `json:"generation"`
	KPIs       []KPI                 `json:"kpis"`
	Sectors    []SectorCard          `json:"sectors,omitempty"`
	Settled    *market.MacroSet      `json:"settled,omitempty"`
}

// EconomyBoard drives the country flow: browse the country catalog, open one
// country, change its window, go back.
type EconomyBoard struct {
	countries CountrySource
	agg       MacroAggregator
	dataset   string
	size      chart.Size
	machine   *Machine
	guard     generation.Guard

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	actions sync.Mutex

	mu               sync.RWMutex
	started          bool
	closed           bool
	countriesLoading bool
	countriesErr     error
	list             []market.Country
	loading          bool
	settled          *market.MacroSet
}

func NewEconomyBoard(countries CountrySource, agg MacroAggregator, opts EconomyOptions) *EconomyBoard {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.ChartSize.Width <= 0 || opts.ChartSize.Height <= 0 {
		opts.ChartSize = chart.Size{Width: 480, Height: 320}
	}
	return &EconomyBoard{
		countries: countries,
		agg:       agg,
		dataset:   opts.CountriesDataset,
		size:      opts.ChartSize,
		machine:   NewMachine(opts.DefaultWindow),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (b *EconomyBoard) Start() {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.countriesLoading = true
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		list, err := b.countries.FetchCountries(b.ctx, b.dataset)
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		b.countriesLoading = false
		if err != nil {
			b.countriesErr = err
			logger.Warnf("economy countries unavailable: %v", err)
			return
		}
		b.list = list
		logger.Infof("economy: %d countries", len(list))
	}()
}

func (b *EconomyBoard) lookup(code string) (market.Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.list {
		if c.Code == code {
			return c, true
		}
	}
	return market.Country{}, false
}

// Open moves into Detail for the country and fetches its indicators.
func (b *EconomyBoard) Open(code string) error {
	b.actions.Lock()
	defer b.actions.Unlock()

	c, ok := b.lookup(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, code)
	}
	if b.isClosed() {
		return ErrClosed
	}
	sel, err := b.machine.Open(c.Code)
	if err != nil {
		return err
	}
	b.begin(sel)
	return nil
}

func (b *EconomyBoard) SetWindow(w market.Window) error {
	b.actions.Lock()
	defer b.actions.Unlock()

	if b.isClosed() {
		return ErrClosed
	}
	sel, err := b.machine.SetWindow(w)
	if err != nil {
		return err
	}
	b.begin(sel)
	return nil
}

// Back returns to the country list and drops any outstanding fetch.
func (b *EconomyBoard) Back() {
	b.actions.Lock()
	defer b.actions.Unlock()

	if !b.machine.Back() {
		return
	}
	b.guard.Invalidate()
	b.mu.Lock()
	b.settled = nil
	b.loading = false
	b.mu.Unlock()
}

func (b *EconomyBoard) begin(sel market.Selection) {
	tok := b.guard.Begin(sel)
	b.guard.Apply(tok, func() {
		b.mu.Lock()
		b.settled = nil
		b.loading = true
		b.mu.Unlock()
	})
	logger.Debugf("economy open %s gen=%d", sel.Key(), tok.Gen)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		set, err := b.agg.Aggregate(b.ctx, tok)
		if err != nil {
			// a failed set carries no values, so every KPI falls back to the placeholder
			set = market.MacroSet{
				Generation: tok.Gen,
				TraceID:    set.TraceID,
				Selection:  tok.Selection,
				Status:     market.StatusFailed,
				Reason:     err.Error(),
			}
		}
		applied := b.guard.Apply(tok, func() {
			b.mu.Lock()
			b.settled = &set
			b.loading = false
			b.mu.Unlock()
		})
		if !applied {
			logger.Debugf("economy gen=%d (%s) superseded, result dropped", tok.Gen, tok.Selection.Key())
		}
	}()
}

func (b *EconomyBoard) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func (b *EconomyBoard) Settled() *market.MacroSet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settled
}

func (b *EconomyBoard) Snapshot() EconomySnapshot {
	st := b.machine.State()
	gen := b.guard.Current()

	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := EconomySnapshot{
		Countries:  b.list,
		State:      st,
		Generation: gen,
		Settled:    b.settled,
		KPIs:       BuildKPIs(b.settled),
		Sectors:    BuildSectorCards(b.settled),
	}
	if st.Mode == ModeDetail {
		for i := range b.list {
			if b.list[i].Code == st.Selection.EntityID {
				c := b.list[i]
				snap.Country = &c
				p := market.ProfileFor(c.Code)
				snap.Profile = &p
				break
			}
		}
	}
	switch {
	case b.countriesLoading:
		snap.Display = DisplayLoadingCatalog
		snap.Message = "Loading countries"
	case st.Mode == ModeBrowsing && len(b.list) == 0:
		snap.Display = DisplayEmpty
		snap.Message = "No countries available"
	case st.Mode == ModeBrowsing:
		snap.Display = DisplayBrowsing
	case b.loading || b.settled == nil:
		snap.Display = DisplayLoadingDetail
		snap.Message = "Loading economic data"
	case b.settled.Status == market.StatusFailed:
		snap.Display = DisplayFailed
		snap.Message = "Could not load economic data"
	default:
		snap.Display = DisplayReady
	}
	return snap
}

// RenderSectors draws the sector breakdown of the open country.
func (b *EconomyBoard) RenderSectors(w io.Writer) error {
	set := b.Settled()
	if set == nil || set.Status != market.StatusReady || len(set.Sectors) == 0 {
		return ErrNoSeries
	}
	return chart.RenderShares(w, fmt.Sprintf("%s output by sector", set.Selection.EntityID), b.size, set.Sectors)
}

func (b *EconomyBoard) Close() {
	b.actions.Lock()
	defer b.actions.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.countriesLoading = false
	b.loading = false
	b.mu.Unlock()

	b.guard.Invalidate()
	b.cancel()
}

func (b *EconomyBoard) Wait() {
	b.wg.Wait()
}
