package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"assetscope/internal/market"
)

// Size is the pixel size of a stateless chart.
type Size struct {
	Width  int
	Height int
}

func (s Size) init() opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", s.Width),
		Height:          fmt.Sprintf("%dpx", s.Height),
		BackgroundColor: colorBackground,
	}
}

// RenderArea draws a series as a filled line. These charts hold no state
// between renders and need no lifecycle management.
func RenderArea(w io.Writer, title string, size Size, series market.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("no points for %s", title)
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(size.init()),
		charts.WithTitleOpts(opts.Title{Title: title, TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
	)
	x, values := pointAxis(series)
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(x).AddSeries(title, data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: colorArea, Opacity: opts.Float(0.3)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorArea, Width: 2}),
	)
	return line.Render(w)
}

// RenderBars draws a series as vertical bars.
func RenderBars(w io.Writer, title string, size Size, series market.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("no points for %s", title)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(size.init()),
		charts.WithTitleOpts(opts.Title{Title: title, TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	x, values := pointAxis(series)
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v, ItemStyle: &opts.ItemStyle{Color: colorVolume, Opacity: opts.Float(0.7)}}
	}
	bar.SetXAxis(x).AddSeries(title, data)
	return bar.Render(w)
}

// RenderShares draws sector shares as a pie.
func RenderShares(w io.Writer, title string, size Size, shares []market.SectorShare) error {
	if len(shares) == 0 {
		return fmt.Errorf("no sector shares for %s", title)
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(size.init()),
		charts.WithTitleOpts(opts.Title{Title: title, TitleStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextSecondary}}),
	)
	data := make([]opts.PieData, len(shares))
	for i, s := range shares {
		data[i] = opts.PieData{Name: s.Name, Value: round(s.Value, 2)}
	}
	pie.AddSeries(title, data)
	return pie.Render(w)
}

func pointAxis(series market.Series) ([]string, []float64) {
	x := make([]string, len(series))
	values := make([]float64, len(series))
	for i, p := range series {
		x[i] = market.Candle{Time: p.Time}.TimeString()
		values[i] = p.Value
	}
	return x, values
}
