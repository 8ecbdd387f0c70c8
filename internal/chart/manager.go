package chart

import (
	"fmt"
	"sync"

	"assetscope/internal/logger"
	"assetscope/internal/market"
)

// Stats counts chart objects over a Manager's life.
type Stats struct {
	Created  int `json:"created"`
	Disposed int `json:"disposed"`
}

// Live is the number of charts created but not yet disposed.
func (s Stats) Live() int { return s.Created - s.Disposed }

type Option func(*Manager)

func WithBuilder(b Builder) Option {
	return func(m *Manager) {
		if b != nil {
			m.build = b
		}
	}
}

func WithEMAPeriod(period int) Option {
	return func(m *Manager) { m.emaPeriod = period }
}

func WithTitle(fn func(gen uint64) string) Option {
	return func(m *Manager) { m.title = fn }
}

// Manager owns the single live chart bound to a Canvas. Every new dataset
// replaces the chart: the old one is disposed before the new one is created.
type Manager struct {
	mu        sync.Mutex
	canvas    *Canvas
	build     Builder
	emaPeriod int
	title     func(gen uint64) string
	live      *Handle
	stats     Stats
}

func NewManager(canvas *Canvas, opts ...Option) *Manager {
	m := &Manager{
		canvas:    canvas,
		build:     NewCandleChart,
		emaPeriod: DefaultEMAPeriod,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Canvas() *Canvas { return m.canvas }

// Present shows bars as the dataset for generation gen. Empty bars leave the
// canvas empty. Presenting the same generation twice is a no-op as long as
// its chart is still live.
func (m *Manager) Present(gen uint64, bars []market.Candle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(bars) == 0 {
		m.disposeLocked()
		return nil
	}
	if m.live != nil && m.live.gen == gen && !m.live.Disposed() {
		return nil
	}
	m.disposeLocked()

	if m.canvas == nil {
		return ErrClosed
	}
	if m.canvas.Closed() {
		return ErrClosed
	}
	width, height := m.canvas.Size()
	title := ""
	if m.title != nil {
		title = m.title(gen)
	}
	obj, err := m.build(Spec{
		Title:     title,
		Width:     width,
		Height:    height,
		EMAPeriod: m.emaPeriod,
		Bars:      bars,
	})
	if err != nil {
		return fmt.Errorf("build chart gen=%d: %w", gen, err)
	}
	h := &Handle{
		canvas: m.canvas,
		gen:    gen,
		width:  width,
		height: height,
		bars:   len(bars),
		obj:    obj,
	}
	if err := m.canvas.attach(h); err != nil {
		h.canvas = nil
		h.Dispose()
		return err
	}
	m.stats.Created++
	m.live = h
	h.fitContent()
	logger.Debugf("chart %s: gen=%d bars=%d size=%dx%d", m.canvas.ID(), gen, len(bars), width, height)
	return nil
}

// Dispose releases the live chart, if any. Safe to call repeatedly.
func (m *Manager) Dispose() {
	m.mu.Lock()
	m.disposeLocked()
	m.mu.Unlock()
}

func (m *Manager) disposeLocked() {
	if m.live == nil {
		return
	}
	m.live.Dispose()
	m.live = nil
	m.stats.Disposed++
}

// Live returns the current chart or nil.
func (m *Manager) Live() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil || m.live.Disposed() {
		return nil
	}
	return m.live
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
