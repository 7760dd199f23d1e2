package exchanges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Provider defines the interface for exchange data providers
type Provider interface {
	Name() string
	GetPriceAndChange(ctx context.Context, symbol string) (price float64, changePct24h float64, err error)
}

// Common errors
var (
	ErrSymbolNotSupported = errors.New("symbol not supported by this exchange")
	ErrRateLimited        = errors.New("rate limited by exchange")
	ErrNoData             = errors.New("no data returned")
)

// ProviderError wraps errors with context about the provider and symbol
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider=%s symbol=%s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new provider error with context
func NewProviderError(provider, symbol string, err error) error {
	return &ProviderError{
		Provider: provider,
		Symbol:   symbol,
		Err:      err,
	}
}

// SharedHTTPClient returns an HTTP client with pooled connections
func SharedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// DefaultUserAgent returns a user agent string for the bot
func DefaultUserAgent() string {
	return "scroll-rank-bot/1.0"
}

// DefaultProviders returns every supported exchange, in fallback order.
func DefaultProviders(timeout time.Duration) []Provider {
	client := SharedHTTPClient(timeout)
	return []Provider{
		&BinanceProvider{client: client, baseURL: binanceBaseURL},
		&OKXProvider{client: client, baseURL: okxBaseURL},
		&BybitProvider{client: client, baseURL: bybitBaseURL},
		&BitgetProvider{client: client, baseURL: bitgetBaseURL},
	}
}

// getJSON performs a GET and decodes a 200 response into out. Errors are not
// wrapped in ProviderError; callers do that.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", DefaultUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func parseFloat(field, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return f, nil
}

// changeFromOpen computes the 24h change percentage as (last/open - 1) * 100.
func changeFromOpen(last, open float64) (float64, error) {
	if open == 0 {
		return 0, errors.New("open price is zero, cannot calculate change")
	}
	return (last/open - 1) * 100, nil
}
