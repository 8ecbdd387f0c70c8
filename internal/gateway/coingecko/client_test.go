package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetscope/internal/gateway"
	"assetscope/internal/market"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(gateway.Config{BaseURL: srv.URL}, "")
	require.NoError(t, err)
	return c
}

func TestFetchCatalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"b.png","current_price":100,"market_cap":1000,"market_cap_rank":1,"total_volume":50,"price_change_percentage_24h":1.5},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","image":"e.png","current_price":10,"market_cap":null,"market_cap_rank":2,"total_volume":5,"price_change_percentage_24h":null},
			{"id":"","symbol":"x","name":"broken"}
		]`))
	})
	got, err := c.FetchCatalog(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, market.AssetDescriptor{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Image: "b.png", Rank: 1}, got[0].Asset)
	assert.Equal(t, 1.5, got[0].Quote.Change24h)
	assert.Equal(t, 0.0, got[1].Quote.MarketCap)
}

func TestFetchCatalogRateLimitedIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	got, err := c.FetchCatalog(context.Background(), 10)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestFetchHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "max", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`{
			"prices":[[1000,1.0],[2000,null],[3000,3.0]],
			"market_caps":[[1000,10.0],[3000,30.0]],
			"total_volumes":[[1000,100.0]]
		}`))
	})
	h, err := c.FetchHistory(context.Background(), "bitcoin", market.WindowMax)
	require.NoError(t, err)
	assert.Equal(t, market.Series{{Time: 1000, Value: 1}, {Time: 3000, Value: 3}}, h.Prices)
	assert.Len(t, h.MarketCaps, 2)
	assert.Len(t, h.Volumes, 1)
}

func TestFetchHistoryBadBodyIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err := c.FetchHistory(context.Background(), "bitcoin", 30)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}
