package exchanges

import (
	"context"
	"fmt"
	"net/http"
)

const bybitBaseURL = "https://api.bybit.com"

type BybitProvider struct {
	client  *http.Client
	baseURL string
}

func (b *BybitProvider) Name() string {
	return "bybit"
}

type bybitTickerResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			LastPrice    string `json:"lastPrice"`
			Price24hPcnt string `json:"price24hPcnt"` // decimal fraction, "0.0123" is 1.23%
		} `json:"list"`
	} `json:"result"`
}

func (b *BybitProvider) GetPriceAndChange(ctx context.Context, symbol string) (float64, float64, error) {
	if symbol == "" {
		return 0, 0, NewProviderError(b.Name(), symbol, ErrSymbolNotSupported)
	}

	var tickerResp bybitTickerResponse
	url := fmt.Sprintf("%s/v5/market/tickers?category=spot&symbol=%s", b.baseURL, symbol)
	if err := getJSON(ctx, b.client, url, &tickerResp); err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	if tickerResp.RetCode != 0 {
		return 0, 0, NewProviderError(b.Name(), symbol, fmt.Errorf("Bybit API error: %s (code %d)", tickerResp.RetMsg, tickerResp.RetCode))
	}
	if len(tickerResp.Result.List) == 0 {
		return 0, 0, NewProviderError(b.Name(), symbol, ErrNoData)
	}

	ticker := tickerResp.Result.List[0]
	price, err := parseFloat("lastPrice", ticker.LastPrice)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}
	fraction, err := parseFloat("price24hPcnt", ticker.Price24hPcnt)
	if err != nil {
		return 0, 0, NewProviderError(b.Name(), symbol, err)
	}

	return price, fraction * 100, nil
}
