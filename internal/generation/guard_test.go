package generation

import (
	"sync"
	"testing"

	"assetscope/internal/market"

	"github.com/stretchr/testify/assert"
)

func TestBeginInvalidatesPrevious(t *testing.T) {
	var g Guard
	a := g.Begin(market.Selection{EntityID: "a", Window: 30})
	assert.True(t, g.IsCurrent(a))
	b := g.Begin(market.Selection{EntityID: "b", Window: 30})
	assert.False(t, g.IsCurrent(a))
	assert.True(t, g.IsCurrent(b))
	assert.Greater(t, b.Gen, a.Gen)
}

func TestReselectSameSelectionStillInvalidates(t *testing.T) {
	var g Guard
	sel := market.Selection{EntityID: "bitcoin", Window: 7}
	first := g.Begin(sel)
	second := g.Begin(sel)
	assert.Equal(t, first.Selection, second.Selection)
	assert.False(t, g.IsCurrent(first))
	assert.True(t, g.IsCurrent(second))
}

func TestApplyDropsStale(t *testing.T) {
	var g Guard
	stale := g.Begin(market.Selection{EntityID: "x"})
	fresh := g.Begin(market.Selection{EntityID: "y"})

	applied := ""
	assert.False(t, g.Apply(stale, func() { applied = "x" }))
	assert.True(t, g.Apply(fresh, func() { applied = "y" }))
	assert.Equal(t, "y", applied)
}

func TestInvalidateRetiresAll(t *testing.T) {
	var g Guard
	tok := g.Begin(market.Selection{EntityID: "x"})
	g.Invalidate()
	assert.False(t, g.IsCurrent(tok))
	assert.False(t, g.Apply(tok, func() { t.Fatal("applied after invalidate") }))
}

func TestZeroTokenNeverCurrent(t *testing.T) {
	var g Guard
	assert.False(t, g.IsCurrent(Token{}))
}

// Results settle in reverse order of the selections; only the last selection
// may ever be applied.
func TestOutOfOrderSettlementLastWins(t *testing.T) {
	var g Guard
	ids := []string{"a", "b", "c", "d", "e"}
	tokens := make([]Token, len(ids))
	for i, id := range ids {
		tokens[i] = g.Begin(market.Selection{EntityID: id})
	}

	var mu sync.Mutex
	var applied []string
	var wg sync.WaitGroup
	for i := len(tokens) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(tok Token) {
			defer wg.Done()
			g.Apply(tok, func() {
				mu.Lock()
				applied = append(applied, tok.Selection.EntityID)
				mu.Unlock()
			})
		}(tokens[i])
	}
	wg.Wait()
	assert.Equal(t, []string{"e"}, applied)
}
