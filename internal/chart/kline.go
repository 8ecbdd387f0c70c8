package chart

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	talib "github.com/markcheno/go-talib"

	"assetscope/internal/market"
)

const (
	colorBackground    = "#0b1220"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBull          = "#34d399"
	colorBear          = "#f87171"
	colorEMA           = "#fbbf24"
	colorArea          = "#3b82f6"
	colorVolume        = "#a78bfa"

	DefaultEMAPeriod = 20
)

// Spec is what a Builder needs to create one candlestick chart.
type Spec struct {
	Title     string
	Width     int
	Height    int
	EMAPeriod int
	Bars      []market.Candle
}

// Builder creates the chart object for a dataset. It is swapped out in tests.
type Builder func(spec Spec) (Renderable, error)

// candleChart wraps a go-echarts KLine with an EMA overlay.
type candleChart struct {
	kline  *charts.Kline
	fitted bool
}

func (c *candleChart) Render(w io.Writer) error {
	return c.kline.Render(w)
}

func (c *candleChart) FitContent() {
	if c.fitted {
		return
	}
	c.kline.SetGlobalOptions(
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", Start: 0, End: 100, XAxisIndex: []int{0}}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100, XAxisIndex: []int{0}}),
	)
	c.fitted = true
}

// NewCandleChart is the default Builder.
func NewCandleChart(spec Spec) (Renderable, error) {
	if len(spec.Bars) == 0 {
		return nil, fmt.Errorf("no bars to chart")
	}
	minPrice, maxPrice := market.PriceBounds(spec.Bars)
	padding := (maxPrice - minPrice) * 0.05
	if padding <= 0 {
		padding = math.Max(1e-8, math.Abs(maxPrice)*0.01)
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:           types.ThemeWesteros,
			Width:           fmt.Sprintf("%dpx", spec.Width),
			Height:          fmt.Sprintf("%dpx", spec.Height),
			BackgroundColor: colorBackground,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      spec.Title,
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorTextPrimary, FontSize: 16},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			Min:       round(minPrice-padding, 8),
			Max:       round(maxPrice+padding, 8),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	kline.SetSeriesOptions(
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        colorBull,
			Color0:       colorBear,
			BorderColor:  colorBull,
			BorderColor0: colorBear,
		}),
	)

	xAxis := xAxisLabels(spec.Bars)
	kline.SetXAxis(xAxis)
	kline.AddSeries(strings.TrimSpace(spec.Title), klineSeries(spec.Bars))

	period := spec.EMAPeriod
	if period <= 0 {
		period = DefaultEMAPeriod
	}
	if len(spec.Bars) > period {
		ema := charts.NewLine()
		ema.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		ema.SetXAxis(xAxis)
		ema.AddSeries(fmt.Sprintf("EMA %d", period), emaSeries(spec.Bars, period),
			charts.WithLineStyleOpts(opts.LineStyle{Color: colorEMA, Width: 2}))
		kline.Overlap(ema)
	}
	return &candleChart{kline: kline}, nil
}

func xAxisLabels(bars []market.Candle) []string {
	x := make([]string, len(bars))
	for i, c := range bars {
		x[i] = c.TimeString()
	}
	return x
}

// klineSeries keeps bars exactly as delivered, including ones that break the
// OHLC envelope.
func klineSeries(bars []market.Candle) []opts.KlineData {
	data := make([]opts.KlineData, 0, len(bars))
	for _, c := range bars {
		data = append(data, opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}})
	}
	return data
}

func emaSeries(bars []market.Candle, period int) []opts.LineData {
	closes := make([]float64, len(bars))
	for i, c := range bars {
		closes[i] = c.Close
	}
	ema := talib.Ema(closes, period)
	out := make([]opts.LineData, len(bars))
	for i := range out {
		if i < period-1 || i >= len(ema) || math.IsNaN(ema[i]) {
			out[i] = opts.LineData{Value: nil}
			continue
		}
		out[i] = opts.LineData{Value: round(ema[i], 8)}
	}
	return out
}

func round(val float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(val)
	}
	scale := math.Pow10(decimals)
	return math.Round(val*scale) / scale
}
