package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetscope/internal/market"
)

func TestNewCandleChartRendersHTML(t *testing.T) {
	obj, err := NewCandleChart(Spec{Title: "BTC 30d", Width: 640, Height: 320, EMAPeriod: 5, Bars: bars(30)})
	require.NoError(t, err)
	obj.FitContent()
	obj.FitContent()

	var buf bytes.Buffer
	require.NoError(t, obj.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "BTC 30d")
	assert.Contains(t, html, "EMA 5")
	assert.Contains(t, html, "640px")
}

func TestNewCandleChartRejectsEmpty(t *testing.T) {
	_, err := NewCandleChart(Spec{Title: "x", Width: 1, Height: 1})
	assert.Error(t, err)
}

func TestKlineSeriesKeepsMalformedBars(t *testing.T) {
	in := []market.Candle{
		{Time: 1, Open: 10, High: 9, Low: 8, Close: 11},
		{Time: 2, Open: 10, High: 12, Low: 9, Close: 11},
	}
	data := klineSeries(in)
	require.Len(t, data, 2)
	assert.Equal(t, [4]float64{10, 11, 8, 9}, data[0].Value)
}

func TestEMASeriesPadsLookback(t *testing.T) {
	data := emaSeries(bars(10), 4)
	require.Len(t, data, 10)
	for i := 0; i < 3; i++ {
		assert.Nil(t, data[i].Value)
	}
	assert.NotNil(t, data[9].Value)
}

func TestStatelessRenderers(t *testing.T) {
	series := market.Series{{Time: 86_400_000, Value: 1}, {Time: 2 * 86_400_000, Value: 2}}
	size := Size{Width: 400, Height: 200}

	var area, vol, pie bytes.Buffer
	require.NoError(t, RenderArea(&area, "Market cap", size, series))
	require.NoError(t, RenderBars(&vol, "Volume", size, series))
	require.NoError(t, RenderShares(&pie, "Sectors", size, []market.SectorShare{{Name: "Industry", Value: 24.5}}))
	assert.Contains(t, area.String(), "Market cap")
	assert.Contains(t, vol.String(), "Volume")
	assert.Contains(t, pie.String(), "Industry")

	assert.Error(t, RenderArea(&area, "empty", size, nil))
	assert.Error(t, RenderBars(&vol, "empty", size, nil))
	assert.Error(t, RenderShares(&pie, "empty", size, nil))
}
