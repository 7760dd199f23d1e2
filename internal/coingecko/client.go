package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrMissingMarketData signals a 2xx response without a market_data object
var ErrMissingMarketData = errors.New("response has no market_data")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// FetchCoinData issues one request for coinID and returns its market data.
func (c *Client) FetchCoinData(ctx context.Context, coinID string) (*models.CoinData, error) {
	url := fmt.Sprintf("%s/coins/%s", c.baseURL, coinID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coin data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var geckoResp models.CoinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geckoResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if geckoResp.MarketData == nil {
		return nil, ErrMissingMarketData
	}

	return geckoResp.MarketData, nil
}
