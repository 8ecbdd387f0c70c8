// Package coingecko reads the asset catalog and market history from the
// CoinGecko public API.
package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"assetscope/internal/gateway"
	"assetscope/internal/logger"
	"assetscope/internal/market"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

type Client struct {
	base     string
	currency string
	fetcher  *gateway.Fetcher
}

func New(cfg gateway.Config, currency string) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "coingecko"
	}
	fetcher, base, err := gateway.NewFetcher(cfg, DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = "usd"
	}
	return &Client{base: base, currency: currency, fetcher: fetcher}, nil
}

type marketEntry struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

type historyResponse struct {
	Prices       []market.RawPair `json:"prices"`
	MarketCaps   []market.RawPair `json:"market_caps"`
	TotalVolumes []market.RawPair `json:"total_volumes"`
}

// FetchCatalog returns the top limit assets by market cap, in rank order.
// Every failure is reported as gateway.ErrUnavailable.
func (c *Client) FetchCatalog(ctx context.Context, limit int) (market.Catalog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := url.Values{}
	q.Set("vs_currency", c.currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", fmt.Sprint(limit))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	endpoint := c.base + "/coins/markets?" + q.Encode()

	var entries []marketEntry
	if err := c.fetcher.GetJSON(ctx, endpoint, &entries); err != nil {
		logger.Warnf("coingecko catalog unavailable: %v", err)
		return nil, gateway.Unavailable(err)
	}
	out := make(market.Catalog, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Symbol) == "" {
			continue
		}
		out = append(out, market.Listing{
			Asset: market.AssetDescriptor{
				ID:     e.ID,
				Symbol: e.Symbol,
				Name:   e.Name,
				Image:  e.Image,
				Rank:   deref(e.MarketCapRank),
			},
			Quote: market.Quote{
				Price:     deref(e.CurrentPrice),
				MarketCap: deref(e.MarketCap),
				Volume:    deref(e.TotalVolume),
				Change24h: deref(e.PriceChangePercentage24h),
			},
		})
	}
	return out, nil
}

// FetchHistory returns prices, market caps and volumes of one asset.
func (c *Client) FetchHistory(ctx context.Context, id string, window market.Window) (market.History, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return market.History{}, fmt.Errorf("coingecko: empty asset id")
	}
	q := url.Values{}
	q.Set("vs_currency", c.currency)
	q.Set("days", window.String())
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", c.base, url.PathEscape(id), q.Encode())

	var resp historyResponse
	if err := c.fetcher.GetJSON(ctx, endpoint, &resp); err != nil {
		logger.Warnf("coingecko history %s unavailable: %v", id, err)
		return market.History{}, gateway.Unavailable(err)
	}
	return market.History{
		Prices:     market.ParseSeries(resp.Prices),
		MarketCaps: market.ParseSeries(resp.MarketCaps),
		Volumes:    market.ParseSeries(resp.TotalVolumes),
	}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
