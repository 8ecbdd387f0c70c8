package cryptocompare

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

func newTestClient(t *testing.T, opts Options, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(gateway.Config{BaseURL: srv.URL}, opts)
	require.NoError(t, err)
	return c
}

const twoBars = `{"Response":"Success","Data":{"Data":[
	{"time":86400,"open":1,"high":2,"low":0.5,"close":1.5},
	{"time":172800,"open":1.5,"high":3,"low":1,"close":2}
]}}`

func TestFetchCandles(t *testing.T) {
	c := newTestClient(t, Options{APIKey: "k"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/v2/histoday", r.URL.Path)
		assert.Equal(t, "BTC", r.URL.Query().Get("fsym"))
		assert.Equal(t, "USD", r.URL.Query().Get("tsym"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(twoBars))
	})
	bars, err := c.FetchCandles(context.Background(), "btc", 30)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, market.Candle{Time: 86400000, Open: 1, High: 2, Low: 0.5, Close: 1.5}, bars[0])
}

func TestFetchCandlesMaxWindowUsesUpstreamLimit(t *testing.T) {
	c := newTestClient(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2000", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(twoBars))
	})
	_, err := c.FetchCandles(context.Background(), "eth", market.WindowMax)
	require.NoError(t, err)
}

func TestFetchCandlesEmptyIsNotUnavailable(t *testing.T) {
	c := newTestClient(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"Error","Message":"no data for ZZZ","Data":{}}`))
	})
	bars, err := c.FetchCandles(context.Background(), "zzz", 30)
	require.NoError(t, err)
	assert.NotNil(t, bars)
	assert.Empty(t, bars)
}

func TestFetchCandlesServerErrorIsUnavailable(t *testing.T) {
	c := newTestClient(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.FetchCandles(context.Background(), "btc", 30)
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestProbeAvailability(t *testing.T) {
	c := newTestClient(t, Options{ProbeLimit: 5}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		switch r.URL.Query().Get("fsym") {
		case "BTC":
			_, _ = w.Write([]byte(twoBars))
		case "NEW":
			_, _ = w.Write([]byte(`{"Response":"Success","Data":{"Data":[]}}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	})
	ctx := context.Background()
	assert.True(t, c.ProbeAvailability(ctx, "btc"))
	assert.False(t, c.ProbeAvailability(ctx, "new"))
	assert.False(t, c.ProbeAvailability(ctx, "xyz"))
	assert.False(t, c.ProbeAvailability(ctx, " "))
}
