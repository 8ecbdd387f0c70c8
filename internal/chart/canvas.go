package chart

import (
	"errors"
	"io"
	"sync"
)

var (
	ErrOccupied = errors.New("canvas already has a chart attached")
	ErrClosed   = errors.New("canvas closed")
	ErrDisposed = errors.New("chart disposed")
)

// Canvas is the rendering surface a chart binds to. It holds at most one
// attached chart and knows its own measured size.
type Canvas struct {
	mu       sync.Mutex
	id       string
	width    int
	height   int
	attached *Handle
	closed   bool
}

func NewCanvas(id string, width, height int) *Canvas {
	return &Canvas{id: id, width: width, height: height}
}

func (c *Canvas) ID() string { return c.id }

// Size returns the current measured size.
func (c *Canvas) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Resize changes the measured size. Charts already attached keep the size
// they were created with.
func (c *Canvas) Resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

func (c *Canvas) attach(h *Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.attached != nil {
		return ErrOccupied
	}
	c.attached = h
	return nil
}

func (c *Canvas) detach(h *Handle) {
	c.mu.Lock()
	if c.attached == h {
		c.attached = nil
	}
	c.mu.Unlock()
}

// Attached returns the live chart, if any.
func (c *Canvas) Attached() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// LiveCount is 0 or 1.
func (c *Canvas) LiveCount() int {
	if c.Attached() != nil {
		return 1
	}
	return 0
}

// Render writes the attached chart. It reports false when the canvas is empty.
func (c *Canvas) Render(w io.Writer) (bool, error) {
	h := c.Attached()
	if h == nil {
		return false, nil
	}
	if err := h.Render(w); err != nil {
		if errors.Is(err, ErrDisposed) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close tears the surface down: the attached chart is disposed and no new
// chart can attach.
func (c *Canvas) Close() {
	c.mu.Lock()
	h := c.attached
	c.closed = true
	c.mu.Unlock()
	if h != nil {
		h.Dispose()
	}
}

func (c *Canvas) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
