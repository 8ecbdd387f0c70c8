package view

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"assetscope/internal/market"
)

// Placeholder is shown for every value that is not available.
const Placeholder = "—"

type KPI struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Period string `json:"period,omitempty"`
}

type SectorCard struct {
	Name  string `json:"name"`
	Share string `json:"share"`
}

// BuildKPIs formats the latest value of each indicator. A nil or failed set
// yields placeholders only.
func BuildKPIs(set *market.MacroSet) []KPI {
	kpis := []KPI{
		{Key: "gdp", Label: "GDP", Value: Placeholder},
		{Key: "inflation", Label: "Inflation", Value: Placeholder},
		{Key: "unemployment", Label: "Unemployment", Value: Placeholder},
	}
	if set == nil || set.Status != market.StatusReady {
		return kpis
	}
	if o, ok := set.GDP.Last(); ok {
		kpis[0].Value = FormatEuroMillions(o.Value)
		kpis[0].Period = o.Period
	}
	if o, ok := set.Inflation.Last(); ok {
		kpis[1].Value = FormatPercent(o.Value)
		kpis[1].Period = o.Period
	}
	if o, ok := set.Unemployment.Last(); ok {
		kpis[2].Value = FormatPercent(o.Value)
		kpis[2].Period = o.Period
	}
	return kpis
}

func BuildSectorCards(set *market.MacroSet) []SectorCard {
	if set == nil || set.Status != market.StatusReady {
		return nil
	}
	cards := make([]SectorCard, 0, len(set.Sectors))
	for _, s := range set.Sectors {
		cards = append(cards, SectorCard{Name: s.Name, Share: FormatPercent(s.Value)})
	}
	return cards
}

// FormatEuroMillions renders a value given in millions of euro, e.g.
// "€3,867,050 M".
func FormatEuroMillions(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	return "€" + humanize.Comma(d.IntPart()) + " M"
}

// FormatPercent keeps one decimal, e.g. "2.4%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}
