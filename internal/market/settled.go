package market

// Status is the outcome of one settled aggregation.
type Status string

const (
	StatusReady  Status = "ready"
	StatusNoData Status = "no_data"
	StatusFailed Status = "failed"
)

// SeriesSet is everything the detail view shows for one selection. It is
// built once and swapped in atomically; no field is updated afterwards.
type SeriesSet struct {
	Generation uint64          `json:"generation"`
	TraceID    string          `json:"trace_id"`
	Selection  Selection       `json:"selection"`
	Asset      AssetDescriptor `json:"asset"`
	Status     Status          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	Prices     Series          `json:"prices"`
	MarketCaps Series          `json:"market_caps"`
	Volumes    Series          `json:"volumes"`
	Candles    []Candle        `json:"candles"`
	Issues     []CandleIssue   `json:"issues,omitempty"`
}

func (s *SeriesSet) Ready() bool {
	return s != nil && s.Status == StatusReady
}
