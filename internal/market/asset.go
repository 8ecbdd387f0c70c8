package market

import "strings"

// AssetDescriptor identifies one tradable asset. It is immutable once fetched.
type AssetDescriptor struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Rank   int    `json:"rank"`
}

// TickerSymbol is the upper-case symbol used by candle sources.
func (a AssetDescriptor) TickerSymbol() string {
	return strings.ToUpper(strings.TrimSpace(a.Symbol))
}

// Quote is the market snapshot that accompanies a catalog entry.
type Quote struct {
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Volume    float64 `json:"volume"`
	Change24h float64 `json:"change_24h"`
}

// Listing is a catalog entry as returned by the market-list endpoint.
type Listing struct {
	Asset AssetDescriptor `json:"asset"`
	Quote Quote           `json:"quote"`
}

// Catalog is the ordered set of selectable listings. It is replaced wholesale,
// never edited in place.
type Catalog []Listing

// Find returns the listing with the given asset id.
func (c Catalog) Find(id string) (Listing, bool) {
	for _, l := range c {
		if l.Asset.ID == id {
			return l, true
		}
	}
	return Listing{}, false
}

func (c Catalog) IDs() []string {
	out := make([]string, len(c))
	for i, l := range c {
		out[i] = l.Asset.ID
	}
	return out
}
