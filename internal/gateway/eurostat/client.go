// Package eurostat reads structural statistics from the Eurostat
// dissemination API. Unlike the market sources, failures here are returned
// to the caller as hard errors.
package eurostat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"assetscope/internal/gateway"
	"assetscope/internal/market"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const DefaultBaseURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data"

// Indicator is a dataset plus the dimension filters that reduce it to a single
// series once a country is chosen.
type Indicator struct {
	Name    string
	Dataset string
	Filters url.Values
}

var (
	GDP = Indicator{
		Name:    "gdp",
		Dataset: "nama_10_gdp",
		Filters: url.Values{"unit": {"CLV10_MEUR"}, "na_item": {"B1GQ"}},
	}
	Inflation = Indicator{
		Name:    "inflation",
		Dataset: "prc_hicp_manr",
		Filters: url.Values{"coicop": {"CP00"}},
	}
	Unemployment = Indicator{
		Name:    "unemployment",
		Dataset: "une_rt_m",
		Filters: url.Values{"s_adj": {"SA"}, "age": {"TOTAL"}, "sex": {"T"}, "unit": {"PC_ACT"}},
	}
)

// ForCountry returns the filters for one geo code, limited to the latest
// window periods unless the window is max.
func (i Indicator) ForCountry(code string, window market.Window) url.Values {
	q := url.Values{}
	for k, v := range i.Filters {
		q[k] = append([]string(nil), v...)
	}
	if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
		q.Set("geo", code)
	}
	if !window.IsMax() {
		q.Set("lastTimePeriod", strconv.Itoa(int(window)))
	}
	return q
}

const jsonStatSchema = `{
	"type": "object",
	"required": ["id", "size", "dimension", "value"],
	"properties": {
		"id": {"type": "array", "items": {"type": "string"}},
		"size": {"type": "array", "items": {"type": "integer", "minimum": 0}},
		"dimension": {"type": "object"},
		"value": {"type": ["object", "array"]}
	}
}`

var datasetSchema = jsonschema.MustCompileString("jsonstat.schema.json", jsonStatSchema)

type Client struct {
	base    string
	fetcher *gateway.Fetcher
}

func New(cfg gateway.Config) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "eurostat"
	}
	fetcher, base, err := gateway.NewFetcher(cfg, DefaultBaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{base: base, fetcher: fetcher}, nil
}

// FetchDataset downloads one dataset restricted by filters. Transport errors,
// non-2xx statuses and malformed documents are all returned as errors.
func (c *Client) FetchDataset(ctx context.Context, dataset string, filters url.Values) (*Dataset, error) {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return nil, fmt.Errorf("eurostat: empty dataset key")
	}
	q := url.Values{}
	for k, v := range filters {
		q[k] = v
	}
	q.Set("format", "JSON")
	q.Set("lang", "EN")
	endpoint := fmt.Sprintf("%s/%s?%s", c.base, url.PathEscape(dataset), q.Encode())

	body, err := c.fetcher.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("eurostat %s: %w", dataset, err)
	}
	return ParseDataset(dataset, body)
}

// Fetch is FetchDataset for a preset indicator and country.
func (c *Client) Fetch(ctx context.Context, ind Indicator, country string, window market.Window) (market.Observations, error) {
	ds, err := c.FetchDataset(ctx, ind.Dataset, ind.ForCountry(country, window))
	if err != nil {
		return nil, err
	}
	return ds.Series()
}

// FetchCountries lists the countries the GDP dataset covers.
func (c *Client) FetchCountries(ctx context.Context, dataset string) ([]market.Country, error) {
	if strings.TrimSpace(dataset) == "" {
		dataset = GDP.Dataset
	}
	filters := url.Values{}
	if dataset == GDP.Dataset {
		filters = GDP.ForCountry("", 1)
	}
	ds, err := c.FetchDataset(ctx, dataset, filters)
	if err != nil {
		return nil, err
	}
	return ds.Countries(), nil
}

// ParseDataset validates body against the JSON-stat shape the flattening
// relies on.
func ParseDataset(key string, body []byte) (*Dataset, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("eurostat %s: decode: %w", key, err)
	}
	if err := datasetSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("eurostat %s: unexpected document: %w", key, err)
	}
	return newDataset(key, body), nil
}
