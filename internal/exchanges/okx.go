package exchanges

import (
	"context"
	"fmt"
	"net/http"
)

const okxBaseURL = "https://www.okx.com"

type OKXProvider struct {
	client  *http.Client
	baseURL string
}

func (o *OKXProvider) Name() string {
	return "okx"
}

type okxTickerResponse struct {
	Code string `json:"code"`
	Data []struct {
		Last    string `json:"last"`
		Open24h string `json:"open24h"`
	} `json:"data"`
}

func (o *OKXProvider) GetPriceAndChange(ctx context.Context, symbol string) (float64, float64, error) {
	if symbol == "" {
		return 0, 0, NewProviderError(o.Name(), symbol, ErrSymbolNotSupported)
	}

	var tickerResp okxTickerResponse
	url := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s", o.baseURL, symbol)
	if err := getJSON(ctx, o.client, url, &tickerResp); err != nil {
		return 0, 0, NewProviderError(o.Name(), symbol, err)
	}

	// "0" is success
	if tickerResp.Code != "0" {
		return 0, 0, NewProviderError(o.Name(), symbol, fmt.Errorf("OKX API error code: %s", tickerResp.Code))
	}
	if len(tickerResp.Data) == 0 {
		return 0, 0, NewProviderError(o.Name(), symbol, ErrNoData)
	}

	last, err := parseFloat("last", tickerResp.Data[0].Last)
	if err != nil {
		return 0, 0, NewProviderError(o.Name(), symbol, err)
	}
	open, err := parseFloat("open24h", tickerResp.Data[0].Open24h)
	if err != nil {
		return 0, 0, NewProviderError(o.Name(), symbol, err)
	}
	change, err := changeFromOpen(last, open)
	if err != nil {
		return 0, 0, NewProviderError(o.Name(), symbol, err)
	}

	return last, change, nil
}
