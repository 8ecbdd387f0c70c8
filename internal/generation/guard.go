// Package generation discards asynchronous results that a newer selection has
// superseded.
package generation

import (
	"sync"

	"assetscope/internal/market"
)

// Token identifies one fetch. Only the token from the latest Begin is current.
type Token struct {
	Gen       uint64
	Selection market.Selection
}

// Guard hands out monotonically increasing tokens for a single view slot.
type Guard struct {
	mu      sync.Mutex
	current uint64
}

// Begin invalidates every earlier token, including one issued for an identical
// selection, and returns the new current token.
func (g *Guard) Begin(sel market.Selection) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current++
	return Token{Gen: g.current, Selection: sel}
}

// Invalidate retires all outstanding tokens without starting a new fetch, for
// example when the owning view is closed.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	g.current++
	g.mu.Unlock()
}

func (g *Guard) IsCurrent(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t.Gen != 0 && t.Gen == g.current
}

// Current returns the latest generation number.
func (g *Guard) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Apply runs fn only while t is still current. fn executes under the guard's
// lock, so no Begin can slip in between the check and the mutation; fn must
// not call back into the guard.
func (g *Guard) Apply(t Token, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t.Gen == 0 || t.Gen != g.current {
		return false
	}
	fn()
	return true
}
