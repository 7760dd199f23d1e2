package market

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coinFetcherStub struct {
	calls               atomic.Int32
	FetchCoinDataCalled func(ctx context.Context, coin models.Coin) (*models.CoinData, error)
}

func (stub *coinFetcherStub) FetchCoinData(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
	stub.calls.Add(1)
	if stub.FetchCoinDataCalled != nil {
		return stub.FetchCoinDataCalled(ctx, coin)
	}
	return sampleCoinData(), nil
}

func sampleCoinData() *models.CoinData {
	return &models.CoinData{
		Price:                    models.MultiCurrency{USD: models.Float64(1.0)},
		MarketCap:                models.MultiCurrency{USD: models.Float64(1e9)},
		FullyDilutedValuation:    models.MultiCurrency{USD: models.Float64(2e9)},
		PriceChangePercentage24h: models.Float64(5.5),
		Volume24h:                models.MultiCurrency{USD: models.Float64(3e8)},
	}
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func newTestSnapshot(t *testing.T, stub CoinFetcher) *Snapshot {
	t.Helper()

	s, err := NewSnapshot(ArgsSnapshot{
		Fetcher:  stub,
		Coins:    models.DefaultCoins,
		Location: time.UTC,
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	s.now = func() time.Time { return fixedNow }
	return s
}

const wellFormedBlock = `:
- Price: $1.0000
- 24h Price Change: 5.5%
- 24h Volume (USD): 300.00 M
- Market Cap: 1.00 B
- FDV: 2.00 B
- FDV Ratio: 33.33%`

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("nil fetcher should error", func(t *testing.T) {
		t.Parallel()

		s, err := NewSnapshot(ArgsSnapshot{Coins: models.DefaultCoins})
		assert.Nil(t, s)
		assert.Equal(t, ErrNilFetcher, err)
	})

	t.Run("no coins should error", func(t *testing.T) {
		t.Parallel()

		s, err := NewSnapshot(ArgsSnapshot{Fetcher: &coinFetcherStub{}})
		assert.Nil(t, s)
		assert.Equal(t, ErrNoCoins, err)
	})

	t.Run("defaults should apply", func(t *testing.T) {
		t.Parallel()

		s, err := NewSnapshot(ArgsSnapshot{Fetcher: &coinFetcherStub{}, Coins: models.DefaultCoins})
		require.NoError(t, err)
		assert.Equal(t, DefaultInterval, s.interval)
		assert.Equal(t, time.Local, s.location)
	})
}

func TestSnapshot_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("nothing before the first refresh", func(t *testing.T) {
		t.Parallel()

		s := newTestSnapshot(t, &coinFetcherStub{})
		text, ok := s.Get()
		assert.False(t, ok)
		assert.Empty(t, text)
	})

	t.Run("one failed coin renders unavailable and the rest share the FDV", func(t *testing.T) {
		t.Parallel()

		stub := &coinFetcherStub{
			FetchCoinDataCalled: func(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
				if coin.ID == "taiko" {
					return nil, errors.New("connection reset")
				}
				return sampleCoinData(), nil
			},
		}
		s := newTestSnapshot(t, stub)

		require.NoError(t, s.Refresh(context.Background()))

		text, ok := s.Get()
		require.True(t, ok)
		expected := "Date: 3/9/2024, 2:05:07 PM (UTC)\n\n" +
			"Starknet" + wellFormedBlock + "\n\n" +
			"ZkSync" + wellFormedBlock + "\n\n" +
			"Taiko:\nData unavailable\n\n" +
			"Scroll" + wellFormedBlock
		assert.Equal(t, expected, text)
		assert.EqualValues(t, 4, stub.calls.Load())
	})

	t.Run("all coins failing still updates the report", func(t *testing.T) {
		t.Parallel()

		stub := &coinFetcherStub{
			FetchCoinDataCalled: func(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
				return nil, errors.New("down")
			},
		}
		s := newTestSnapshot(t, stub)

		require.NoError(t, s.Refresh(context.Background()))
		text, ok := s.Get()
		require.True(t, ok)
		assert.Equal(t, 4, strings.Count(text, "Data unavailable"))
	})

	t.Run("missing fields render N/A and null change", func(t *testing.T) {
		t.Parallel()

		stub := &coinFetcherStub{
			FetchCoinDataCalled: func(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
				return &models.CoinData{Price: models.MultiCurrency{USD: models.Float64(2)}}, nil
			},
		}
		s := newTestSnapshot(t, stub)

		require.NoError(t, s.Refresh(context.Background()))
		text, _ := s.Get()
		assert.Contains(t, text, "Scroll:\n- Price: $2.0000\n- 24h Price Change: null%\n- 24h Volume (USD): N/A\n- Market Cap: N/A\n- FDV: N/A\n- FDV Ratio: 0.00%")
	})

	t.Run("a panicking fetch only loses its own coin", func(t *testing.T) {
		t.Parallel()

		stub := &coinFetcherStub{
			FetchCoinDataCalled: func(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
				if coin.ID == "zksync" {
					panic("unexpected payload")
				}
				return sampleCoinData(), nil
			},
		}
		s := newTestSnapshot(t, stub)

		require.NoError(t, s.Refresh(context.Background()))
		text, _ := s.Get()
		assert.Contains(t, text, "ZkSync:\nData unavailable")
		assert.Contains(t, text, "Starknet"+wellFormedBlock)
	})

	t.Run("cancelled refresh keeps the previous report", func(t *testing.T) {
		t.Parallel()

		s := newTestSnapshot(t, &coinFetcherStub{})
		require.NoError(t, s.Refresh(context.Background()))
		before, _ := s.Get()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.fetcher = &coinFetcherStub{
			FetchCoinDataCalled: func(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
				return nil, ctx.Err()
			},
		}

		err := s.Refresh(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		after, ok := s.Get()
		require.True(t, ok)
		assert.Equal(t, before, after)
	})
}

func TestSnapshot_Run(t *testing.T) {
	t.Parallel()

	stub := &coinFetcherStub{}
	s, err := NewSnapshot(ArgsSnapshot{
		Fetcher:  stub,
		Coins:    models.DefaultCoins,
		Interval: 10 * time.Millisecond,
		Logger:   testLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok := s.Get()
		return ok && stub.calls.Load() >= 8
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFDVRatios(t *testing.T) {
	t.Parallel()

	t.Run("ratios sum to one when every coin has an FDV", func(t *testing.T) {
		t.Parallel()

		results := []*models.CoinData{
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(5.1e9)}},
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(2.7e9)}},
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(0.3e9)}},
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(1.1e9)}},
		}

		var sum float64
		for _, r := range FDVRatios(results) {
			sum += r
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("coins without FDV get zero", func(t *testing.T) {
		t.Parallel()

		results := []*models.CoinData{
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(3e9)}},
			{},
			nil,
			{FullyDilutedValuation: models.MultiCurrency{USD: models.Float64(1e9)}},
		}

		assert.Equal(t, []float64{0.75, 0, 0, 0.25}, FDVRatios(results))
	})

	t.Run("zero total gives zero ratios", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []float64{0, 0}, FDVRatios([]*models.CoinData{nil, {}}))
	})
}
