package exchanges

import (
	"context"
	"fmt"
	"net/http"
)

const binanceBaseURL = "https://api.binance.com"

type BinanceProvider struct {
	client  *http.Client
	baseURL string
}

func (b *BinanceProvider) Name() string {
	return "binance"
}

type binanceTicker24hr struct {
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
}

func (b *BinanceProvider) GetPriceAndChange(ctx context.Context, symbol string) (float64, float64, error) {
	if symbol == "" {
		return 0, 0, NewProviderError(b.Name(), symbol, ErrSymbolNotSupported)
	}

	var ticker binanceTicker24hr
	url := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", b.baseURL, symbol)
	if err := getJSON(ctx, b.client, url, &ticker); err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	price, err := parseFloat("lastPrice", ticker.LastPrice)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}
	change, err := parseFloat("priceChangePercent", ticker.PriceChangePercent)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	return price, change, nil
}
