// Package cryptocompare reads aggregated daily candles from CryptoCompare.
// The same endpoint doubles as a cheap availability probe.
package cryptocompare

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"assetscope/internal/gateway"
	"assetscope/internal/logger"
	"assetscope/internal/market"
)

const (
	DefaultBaseURL = "https://min-api.cryptocompare.com"

	// maxLimit is the largest bar count histoday serves in one call.
	maxLimit          = 2000
	defaultProbeLimit = 10
)

type Client struct {
	base       string
	apiKey     string
	quote      string
	probeLimit int
	fetcher    *gateway.Fetcher
}

type Options struct {
	APIKey     string
	Quote      string
	ProbeLimit int
}

func New(cfg gateway.Config, opts Options) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "cryptocompare"
	}
	fetcher, base, err := gateway.NewFetcher(cfg, DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	quote := strings.ToUpper(strings.TrimSpace(opts.Quote))
	if quote == "" {
		quote = "USD"
	}
	probe := opts.ProbeLimit
	if probe <= 0 {
		probe = defaultProbeLimit
	}
	return &Client{
		base:       base,
		apiKey:     strings.TrimSpace(opts.APIKey),
		quote:      quote,
		probeLimit: probe,
		fetcher:    fetcher,
	}, nil
}

type histodayResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []struct {
			Time  int64   `json:"time"`
			Open  float64 `json:"open"`
			High  float64 `json:"high"`
			Low   float64 `json:"low"`
			Close float64 `json:"close"`
		} `json:"Data"`
	} `json:"Data"`
}

func (c *Client) histoday(ctx context.Context, symbol string, limit int) (histodayResponse, error) {
	q := url.Values{}
	q.Set("fsym", strings.ToUpper(strings.TrimSpace(symbol)))
	q.Set("tsym", c.quote)
	q.Set("limit", fmt.Sprint(limit))
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	var resp histodayResponse
	err := c.fetcher.GetJSON(ctx, c.base+"/data/v2/histoday?"+q.Encode(), &resp)
	return resp, err
}

// FetchCandles returns daily bars for symbol in ascending time. A successful
// response without bars yields an empty slice, not an error.
func (c *Client) FetchCandles(ctx context.Context, symbol string, window market.Window) ([]market.Candle, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("cryptocompare: empty symbol")
	}
	limit := int(window)
	if window.IsMax() || limit > maxLimit {
		limit = maxLimit
	}
	resp, err := c.histoday(ctx, symbol, limit)
	if err != nil {
		logger.Warnf("cryptocompare candles %s unavailable: %v", symbol, err)
		return nil, gateway.Unavailable(err)
	}
	if strings.EqualFold(resp.Response, "Error") {
		logger.Debugf("cryptocompare candles %s: %s", symbol, resp.Message)
		return []market.Candle{}, nil
	}
	out := make([]market.Candle, 0, len(resp.Data.Data))
	for _, d := range resp.Data.Data {
		out = append(out, market.Candle{
			Time:  d.Time * 1000,
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
		})
	}
	return out, nil
}

// ProbeAvailability reports whether at least one bar exists for symbol. Any
// failure counts as unavailable.
func (c *Client) ProbeAvailability(ctx context.Context, symbol string) bool {
	if strings.TrimSpace(symbol) == "" {
		return false
	}
	resp, err := c.histoday(ctx, symbol, c.probeLimit)
	if err != nil {
		logger.Debugf("cryptocompare probe %s failed: %v", symbol, err)
		return false
	}
	return len(resp.Data.Data) > 0
}
