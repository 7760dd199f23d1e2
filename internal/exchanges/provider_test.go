package exchanges

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProviders_GetPriceAndChange(t *testing.T) {
	t.Parallel()

	client := SharedHTTPClient(time.Second)
	tests := []struct {
		name       string
		body       string
		newProv    func(url string) Provider
		wantPrice  float64
		wantChange float64
	}{
		{
			name:       "binance",
			body:       `{"lastPrice":"0.5000","priceChangePercent":"-2.5"}`,
			newProv:    func(url string) Provider { return &BinanceProvider{client: client, baseURL: url} },
			wantPrice:  0.5,
			wantChange: -2.5,
		},
		{
			name:       "okx",
			body:       `{"code":"0","data":[{"last":"1.1","open24h":"1.0"}]}`,
			newProv:    func(url string) Provider { return &OKXProvider{client: client, baseURL: url} },
			wantPrice:  1.1,
			wantChange: 10,
		},
		{
			name:       "bybit",
			body:       `{"retCode":0,"retMsg":"OK","result":{"list":[{"lastPrice":"2","price24hPcnt":"0.0123"}]}}`,
			newProv:    func(url string) Provider { return &BybitProvider{client: client, baseURL: url} },
			wantPrice:  2,
			wantChange: 1.23,
		},
		{
			name:       "bitget",
			body:       `{"code":"00000","msg":"success","data":{"close":"0.9","open":"1.0"}}`,
			newProv:    func(url string) Provider { return &BitgetProvider{client: client, baseURL: url} },
			wantPrice:  0.9,
			wantChange: -10,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tt.newProv(serve(t, http.StatusOK, tt.body).URL)
			assert.Equal(t, tt.name, p.Name())

			price, change, err := p.GetPriceAndChange(context.Background(), "SCRUSDT")
			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
			assert.InDelta(t, tt.wantChange, change, 1e-9)
		})
	}
}

func TestProviders_Errors(t *testing.T) {
	t.Parallel()

	client := SharedHTTPClient(time.Second)

	t.Run("empty symbol should be unsupported", func(t *testing.T) {
		t.Parallel()

		for _, p := range DefaultProviders(time.Second) {
			_, _, err := p.GetPriceAndChange(context.Background(), "")
			assert.ErrorIs(t, err, ErrSymbolNotSupported, p.Name())
		}
	})

	t.Run("429 should be rate limited", func(t *testing.T) {
		t.Parallel()

		p := &BinanceProvider{client: client, baseURL: serve(t, http.StatusTooManyRequests, "").URL}
		_, _, err := p.GetPriceAndChange(context.Background(), "SCRUSDT")
		assert.ErrorIs(t, err, ErrRateLimited)

		var perr *ProviderError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "binance", perr.Provider)
		assert.Equal(t, "SCRUSDT", perr.Symbol)
	})

	t.Run("okx empty data should error", func(t *testing.T) {
		t.Parallel()

		p := &OKXProvider{client: client, baseURL: serve(t, http.StatusOK, `{"code":"0","data":[]}`).URL}
		_, _, err := p.GetPriceAndChange(context.Background(), "SCR-USDT")
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("bitget zero open should error", func(t *testing.T) {
		t.Parallel()

		p := &BitgetProvider{client: client, baseURL: serve(t, http.StatusOK, `{"code":"00000","data":{"close":"1","open":"0"}}`).URL}
		_, _, err := p.GetPriceAndChange(context.Background(), "SCRUSDT")
		assert.ErrorContains(t, err, "open price is zero")
	})

	t.Run("bybit api error should error", func(t *testing.T) {
		t.Parallel()

		p := &BybitProvider{client: client, baseURL: serve(t, http.StatusOK, `{"retCode":10001,"retMsg":"params error"}`).URL}
		_, _, err := p.GetPriceAndChange(context.Background(), "SCRUSDT")
		assert.ErrorContains(t, err, "params error")
	})

	t.Run("server error should carry status", func(t *testing.T) {
		t.Parallel()

		p := &OKXProvider{client: client, baseURL: serve(t, http.StatusInternalServerError, "oops").URL}
		_, _, err := p.GetPriceAndChange(context.Background(), "SCR-USDT")
		assert.ErrorContains(t, err, "HTTP 500: oops")
	})
}
