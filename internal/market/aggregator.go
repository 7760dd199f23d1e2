package market

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/exchanges"
	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/sirupsen/logrus"
)

// CoinGeckoFetcher is the primary market data source.
type CoinGeckoFetcher interface {
	FetchCoinData(ctx context.Context, coinID string) (*models.CoinData, error)
}

// ArgsAggregator is the DTO used to create a new Aggregator
type ArgsAggregator struct {
	CoinGecko CoinGeckoFetcher
	// Providers are tried in order when CoinGecko fails. Empty disables the fallback.
	Providers []exchanges.Provider
	Symbols   map[string]models.ExchangeSymbols
	SupplyTTL time.Duration
	VolumeTTL time.Duration
	Logger    *logrus.Entry
}

// Aggregator fetches coin data from CoinGecko (primary) or exchanges (fallback)
type Aggregator struct {
	coingecko CoinGeckoFetcher
	providers []exchanges.Provider
	symbols   map[string]models.ExchangeSymbols
	supplyTTL time.Duration
	volumeTTL time.Duration
	log       *logrus.Entry
	now       func() time.Time

	mu       sync.RWMutex
	supplies map[string]models.SupplySnapshot
}

func NewAggregator(args ArgsAggregator) (*Aggregator, error) {
	if args.CoinGecko == nil {
		return nil, ErrNilCoinGecko
	}
	if args.SupplyTTL <= 0 {
		args.SupplyTTL = models.SupplyTTL
	}
	if args.VolumeTTL <= 0 {
		args.VolumeTTL = models.VolumeTTL
	}
	if args.Symbols == nil {
		args.Symbols = models.DefaultSymbols()
	}
	if args.Logger == nil {
		args.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Aggregator{
		coingecko: args.CoinGecko,
		providers: args.Providers,
		symbols:   args.Symbols,
		supplyTTL: args.SupplyTTL,
		volumeTTL: args.VolumeTTL,
		log:       args.Logger,
		now:       time.Now,
		supplies:  make(map[string]models.SupplySnapshot),
	}, nil
}

// FetchCoinData fetches data for a coin, trying CoinGecko first, then exchanges
func (a *Aggregator) FetchCoinData(ctx context.Context, coin models.Coin) (*models.CoinData, error) {
	log := a.log.WithField("coin", coin.ID)

	data, err := a.coingecko.FetchCoinData(ctx, coin.ID)
	if err == nil {
		a.updateSupplyCache(coin.ID, data)
		log.WithField("source", "coingecko").Debug("coin data fetched")
		return data, nil
	}

	if len(a.providers) == 0 {
		return nil, err
	}
	log.WithField("source", "coingecko").WithError(err).Warn("coin data fetch failed, trying exchanges")

	data, exErr := a.fetchFromExchanges(ctx, coin, log)
	if exErr != nil {
		return nil, fmt.Errorf("coingecko: %v; %w", err, exErr)
	}
	return data, nil
}

func (a *Aggregator) updateSupplyCache(coinID string, data *models.CoinData) {
	snapshot := models.NewSupplySnapshot(data, a.now())

	a.mu.Lock()
	a.supplies[coinID] = snapshot
	a.mu.Unlock()
}

// fetchFromExchanges tries each provider in order until one returns a price.
func (a *Aggregator) fetchFromExchanges(ctx context.Context, coin models.Coin, log *logrus.Entry) (*models.CoinData, error) {
	exchangeSymbols, ok := a.symbols[coin.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSymbols, coin.ID)
	}

	var lastErr error
	for _, provider := range a.providers {
		symbol := exchangeSymbols.SymbolFor(provider.Name())
		if symbol == "" {
			continue
		}
		plog := log.WithFields(logrus.Fields{"provider": provider.Name(), "symbol": symbol})

		price, changePct, err := provider.GetPriceAndChange(ctx, symbol)
		if err != nil {
			if errors.Is(err, exchanges.ErrSymbolNotSupported) {
				plog.Debug("symbol not supported")
				continue
			}
			plog.WithError(err).Warn("exchange fetch failed")
			lastErr = err
			continue
		}

		plog.WithFields(logrus.Fields{"price": price, "change": changePct}).Info("coin data served from exchange")
		return a.composeCoinData(coin.ID, price, changePct), nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all exchanges failed, last error: %w", lastErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSupportedExchange, coin.ID)
}

// composeCoinData rebuilds CoinData from an exchange price and the cached
// supply. Fields that cannot be rebuilt stay nil.
func (a *Aggregator) composeCoinData(coinID string, price, changePct float64) *models.CoinData {
	data := &models.CoinData{
		Price:                    models.MultiCurrency{USD: models.Float64(price)},
		PriceChangePercentage24h: models.Float64(changePct),
	}

	a.mu.RLock()
	snapshot, exists := a.supplies[coinID]
	a.mu.RUnlock()
	if !exists {
		return data
	}

	now := a.now()
	if snapshot.ValidSupply(now, a.supplyTTL) {
		if snapshot.Circulating != nil {
			data.MarketCap.USD = models.Float64(price * *snapshot.Circulating)
		}
		if snapshot.Full != nil {
			data.FullyDilutedValuation.USD = models.Float64(price * *snapshot.Full)
		}
	}
	if snapshot.ValidVolume(now, a.volumeTTL) {
		data.Volume24h.USD = snapshot.TotalVolumeUSD
	}

	return data
}
