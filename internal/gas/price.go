package gas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const gweiExp = -9

// Client queries eth_gasPrice on JSON-RPC endpoints.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchGasPrice returns the endpoint's current gas price in gwei.
func (c *Client) FetchGasPrice(ctx context.Context, endpoint string) (float64, error) {
	reqBody, err := json.Marshal(models.RPCRequest{
		JsonRPC: "2.0",
		Method:  "eth_gasPrice",
		Params:  []string{},
		ID:      1,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call eth_gasPrice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp models.RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return 0, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil {
		return 0, ErrMissingResult
	}

	wei, err := parseQuantity(*rpcResp.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to parse result %q: %w", *rpcResp.Result, err)
	}

	gwei, _ := decimal.NewFromBigInt(wei, gweiExp).Float64()
	return gwei, nil
}

// parseQuantity reads a base-16 integer. The 0x prefix and leading zeros are
// optional, since not every node emits canonical quantities.
func parseQuantity(s string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return nil, hexutil.ErrEmptyNumber
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return hexutil.DecodeBig("0x" + digits)
}

// PriceFetcher is the single-endpoint gas price lookup used by the fan-out.
type PriceFetcher interface {
	FetchGasPrice(ctx context.Context, endpoint string) (float64, error)
}

// FetchAllPrices queries every network concurrently. The result is indexed like
// networks; a failed network is logged and left nil.
func FetchAllPrices(ctx context.Context, fetcher PriceFetcher, networks []models.Network, log *logrus.Entry) []*float64 {
	prices := make([]*float64, len(networks))

	var wg sync.WaitGroup
	for i, network := range networks {
		wg.Add(1)
		go func(i int, network models.Network) {
			defer wg.Done()

			price, err := fetcher.FetchGasPrice(ctx, network.Endpoint)
			if err != nil {
				log.WithFields(logrus.Fields{
					"network":  network.Key,
					"endpoint": network.Endpoint,
				}).WithError(err).Warn("gas price fetch failed")
				return
			}
			prices[i] = models.Float64(price)
		}(i, network)
	}
	wg.Wait()

	return prices
}
