package exchanges

import (
	"context"
	"fmt"
	"net/http"
)

const bitgetBaseURL = "https://api.bitget.com"

type BitgetProvider struct {
	client  *http.Client
	baseURL string
}

func (b *BitgetProvider) Name() string {
	return "bitget"
}

type bitgetTickerResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Close string `json:"close"`
		Open  string `json:"open"`
	} `json:"data"`
}

func (b *BitgetProvider) GetPriceAndChange(ctx context.Context, symbol string) (float64, float64, error) {
	if symbol == "" {
		return 0, 0, NewProviderError(b.Name(), symbol, ErrSymbolNotSupported)
	}

	var tickerResp bitgetTickerResponse
	url := fmt.Sprintf("%s/api/spot/v1/market/ticker?symbol=%s", b.baseURL, symbol)
	if err := getJSON(ctx, b.client, url, &tickerResp); err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	// "00000" is success
	if tickerResp.Code != "00000" {
		return 0, 0, NewProviderError(b.Name(), symbol, fmt.Errorf("Bitget API error: %s (code %s)", tickerResp.Msg, tickerResp.Code))
	}

	last, err := parseFloat("close", tickerResp.Data.Close)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}
	open, err := parseFloat("open", tickerResp.Data.Open)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}
	change, err := changeFromOpen(last, open)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	return last, change, nil
}
