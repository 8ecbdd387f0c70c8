// Package worldbank reads the sector composition of output (agriculture,
// industry, services as % of GDP) from the World Bank indicators API.
package worldbank

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"assetscope/internal/gateway"
	"assetscope/internal/market"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const DefaultBaseURL = "https://api.worldbank.org/v2"

type sector struct {
	name      string
	indicator string
}

var sectors = []sector{
	{name: "Agriculture", indicator: "NV.AGR.TOTL.ZS"},
	{name: "Industry", indicator: "NV.IND.TOTL.ZS"},
	{name: "Services", indicator: "NV.SRV.TOTL.ZS"},
}

// Eurostat and the World Bank disagree on a few codes.
var countryAliases = map[string]string{
	"EL": "GR",
	"UK": "GB",
}

type Client struct {
	base    string
	fetcher *gateway.Fetcher
}

func New(cfg gateway.Config) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "worldbank"
	}
	fetcher, base, err := gateway.NewFetcher(cfg, DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, fetcher: fetcher}, nil
}

// FetchSectorShares queries every sector indicator concurrently and returns
// the non-null ones in fixed order. Any transport failure fails the call.
func (c *Client) FetchSectorShares(ctx context.Context, country string) ([]market.SectorShare, error) {
	code := NormalizeCountry(country)
	if code == "" {
		return nil, fmt.Errorf("worldbank: empty country code")
	}
	values := make([]*float64, len(sectors))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, s := range sectors {
		eg.Go(func() error {
			v, err := c.fetchIndicator(egCtx, code, s.indicator)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	out := make([]market.SectorShare, 0, len(sectors))
	for i, s := range sectors {
		if values[i] == nil {
			continue
		}
		out = append(out, market.SectorShare{Name: s.name, Value: *values[i]})
	}
	return out, nil
}

func (c *Client) fetchIndicator(ctx context.Context, country, indicator string) (*float64, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", "1")
	q.Set("mrnev", "1")
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?%s", c.base, url.PathEscape(country), url.PathEscape(indicator), q.Encode())
	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("worldbank %s/%s: %w", country, indicator, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("worldbank %s/%s: invalid json", country, indicator)
	}
	v := gjson.GetBytes(body, "1.0.value")
	if !v.Exists() || v.Type != gjson.Number {
		return nil, nil
	}
	f := v.Float()
	return &f, nil
}

// NormalizeCountry upper-cases code and maps Eurostat-specific codes onto
// their World Bank equivalents.
func NormalizeCountry(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := countryAliases[code]; ok {
		return alias
	}
	return code
}
