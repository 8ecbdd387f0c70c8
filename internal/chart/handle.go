package chart

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// Renderable is the imperative chart object a Handle owns.
type Renderable interface {
	Render(w io.Writer) error
	// FitContent makes the initial viewport span every loaded bar.
	FitContent()
}

// Handle owns one live chart bound to one canvas. Dispose is idempotent and
// always detaches.
type Handle struct {
	canvas *Canvas
	gen    uint64
	width  int
	height int
	bars   int

	mu       sync.Mutex
	obj      Renderable
	disposed bool
}

func (h *Handle) Generation() uint64 { return h.gen }

func (h *Handle) Size() (width, height int) { return h.width, h.height }

func (h *Handle) Bars() int { return h.bars }

func (h *Handle) Disposed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.disposed
}

// Dispose releases the chart object and detaches it from its canvas.
func (h *Handle) Dispose() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	h.obj = nil
	h.mu.Unlock()
	if h.canvas != nil {
		h.canvas.detach(h)
	}
}

func (h *Handle) Render(w io.Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.disposed || h.obj == nil {
		return ErrDisposed
	}
	return h.obj.Render(w)
}

// HTML renders the chart page into memory.
func (h *Handle) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshot captures the chart as a PNG at the size it was built with, not the
// canvas's current size. A disposed handle reports ErrDisposed.
func (h *Handle) Snapshot(ctx context.Context) ([]byte, error) {
	page, err := h.HTML()
	if err != nil {
		return nil, err
	}
	return snapshotPNG(ctx, page, Size{Width: h.width, Height: h.height})
}

func (h *Handle) fitContent() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.obj != nil {
		h.obj.FitContent()
	}
}
