package market

import (
	"fmt"
	"math"
	"time"
)

// Candle is one daily OHLC bar. Time is the bar open in epoch milliseconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Valid reports whether low <= min(open, close) and high >= max(open, close).
func (c Candle) Valid() bool {
	if math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) || math.IsNaN(c.Close) {
		return false
	}
	return c.Low <= math.Min(c.Open, c.Close) && c.High >= math.Max(c.Open, c.Close)
}

func (c Candle) TimeString() string {
	if c.Time <= 0 {
		return "-"
	}
	return time.UnixMilli(c.Time).UTC().Format("2006-01-02")
}

// CandleIssue describes a bar that breaks the OHLC envelope or the ordering
// of its series. Issues are reported, never repaired.
type CandleIssue struct {
	Index  int    `json:"index"`
	Time   int64  `json:"time"`
	Reason string `json:"reason"`
}

func (i CandleIssue) String() string {
	return fmt.Sprintf("bar %d (t=%d): %s", i.Index, i.Time, i.Reason)
}

// CheckCandles inspects bars in source order and returns every data-quality
// problem found. Duplicate timestamps are tolerated and not reported.
func CheckCandles(bars []Candle) []CandleIssue {
	var issues []CandleIssue
	for i, c := range bars {
		if !c.Valid() {
			issues = append(issues, CandleIssue{
				Index:  i,
				Time:   c.Time,
				Reason: fmt.Sprintf("ohlc envelope violated (o=%g h=%g l=%g c=%g)", c.Open, c.High, c.Low, c.Close),
			})
		}
		if i > 0 && c.Time < bars[i-1].Time {
			issues = append(issues, CandleIssue{
				Index:  i,
				Time:   c.Time,
				Reason: fmt.Sprintf("timestamp goes backwards (prev=%d)", bars[i-1].Time),
			})
		}
	}
	return issues
}

// PriceBounds returns the lowest low and highest high across bars.
func PriceBounds(bars []Candle) (minVal, maxVal float64) {
	if len(bars) == 0 {
		return 0, 0
	}
	minVal = bars[0].Low
	maxVal = bars[0].High
	for _, c := range bars {
		if c.Low < minVal {
			minVal = c.Low
		}
		if c.High > maxVal {
			maxVal = c.High
		}
	}
	return minVal, maxVal
}
