package market

import "math"

// Point is one sample of a time series. Time is epoch milliseconds.
type Point struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// RawPair is an upstream [timestamp, value] pair as decoded from JSON. Either
// element may be null.
type RawPair []*float64

// Series is an ordered sequence of points.
type Series []Point

// ParseSeries converts raw pairs into points, keeping source order. Pairs with
// a missing timestamp or a null/non-finite value are dropped, never zeroed.
func ParseSeries(raw []RawPair) Series {
	if len(raw) == 0 {
		return Series{}
	}
	out := make(Series, 0, len(raw))
	for _, pair := range raw {
		if len(pair) < 2 || pair[0] == nil || pair[1] == nil {
			continue
		}
		v := *pair[1]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, Point{Time: int64(*pair[0]), Value: v})
	}
	return out
}

// Last returns the newest point, if any.
func (s Series) Last() (Point, bool) {
	if len(s) == 0 {
		return Point{}, false
	}
	return s[len(s)-1], true
}

// History is the market history of one asset over one window.
type History struct {
	Prices     Series `json:"prices"`
	MarketCaps Series `json:"market_caps"`
	Volumes    Series `json:"volumes"`
}
