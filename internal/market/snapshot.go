package market

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/cache"
	"github.com/0xmountaintop/scroll-rank-bot/internal/format"
	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 5 * time.Minute

	// headerLayout mirrors an en-US locale date string.
	headerLayout = "1/2/2006, 3:04:05 PM"
)

// CoinFetcher returns one coin's market data.
type CoinFetcher interface {
	FetchCoinData(ctx context.Context, coin models.Coin) (*models.CoinData, error)
}

// ArgsSnapshot is the DTO used to create a new Snapshot
type ArgsSnapshot struct {
	Fetcher  CoinFetcher
	Coins    []models.Coin
	Interval time.Duration
	// Location is the clock used for the report header. The header is always
	// labelled UTC; nil keeps the process local time.
	Location *time.Location
	Logger   *logrus.Entry
}

// Snapshot keeps the market report, refreshed on a fixed interval.
type Snapshot struct {
	fetcher  CoinFetcher
	coins    []models.Coin
	interval time.Duration
	location *time.Location
	log      *logrus.Entry
	now      func() time.Time

	entry cache.Store
}

func NewSnapshot(args ArgsSnapshot) (*Snapshot, error) {
	if args.Fetcher == nil {
		return nil, ErrNilFetcher
	}
	if len(args.Coins) == 0 {
		return nil, ErrNoCoins
	}
	if args.Interval <= 0 {
		args.Interval = DefaultInterval
	}
	if args.Location == nil {
		args.Location = time.Local
	}
	if args.Logger == nil {
		args.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Snapshot{
		fetcher:  args.Fetcher,
		coins:    args.Coins,
		interval: args.Interval,
		location: args.Location,
		log:      args.Logger,
		now:      time.Now,
	}, nil
}

// Get returns the last rendered report, or false before the first refresh.
func (s *Snapshot) Get() (string, bool) {
	entry, ok := s.entry.Load()
	return entry.Text, ok
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *Snapshot) Run(ctx context.Context) {
	s.safeRefresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("market refresh loop stopped")
			return
		case <-ticker.C:
			s.safeRefresh(ctx)
		}
	}
}

func (s *Snapshot) safeRefresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("market refresh panicked")
		}
	}()

	if err := s.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("market refresh failed, keeping previous report")
	}
}

// Refresh fetches every coin concurrently, renders the report and stores it.
// The stored report is left untouched when ctx ends before rendering.
func (s *Snapshot) Refresh(ctx context.Context) error {
	log := s.log.WithField("cycle", uuid.NewString())
	started := s.now()

	results := s.fetchAll(ctx, log)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("market refresh aborted: %w", err)
	}

	now := s.now()
	s.entry.Set(s.render(results, now), now)

	log.WithField("took", now.Sub(started)).Info("market data updated")
	return nil
}

// fetchAll returns one result per coin, in coin order. Failed coins are nil.
func (s *Snapshot) fetchAll(ctx context.Context, log *logrus.Entry) []*models.CoinData {
	results := make([]*models.CoinData, len(s.coins))

	var wg sync.WaitGroup
	for i, coin := range s.coins {
		wg.Add(1)
		go func(i int, coin models.Coin) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{"coin": coin.ID, "panic": r}).Error("coin fetch panicked")
				}
			}()

			data, err := s.fetcher.FetchCoinData(ctx, coin)
			if err != nil {
				log.WithField("coin", coin.ID).WithError(err).Warn("error fetching coin data")
				return
			}
			results[i] = data
		}(i, coin)
	}
	wg.Wait()

	return results
}

func (s *Snapshot) render(results []*models.CoinData, now time.Time) string {
	ratios := FDVRatios(results)

	blocks := make([]string, len(s.coins))
	for i, coin := range s.coins {
		blocks[i] = formatCoin(coin.Name, results[i], ratios[i])
	}

	return fmt.Sprintf("Date: %s (UTC)\n\n%s",
		now.In(s.location).Format(headerLayout),
		strings.Join(blocks, "\n\n"))
}

// FDVRatios returns each entry's share of the summed FDV. Entries without an
// FDV, and every entry when the sum is zero, get 0.
func FDVRatios(results []*models.CoinData) []float64 {
	var totalFDV float64
	for _, data := range results {
		if data != nil && data.FullyDilutedValuation.USD != nil {
			totalFDV += *data.FullyDilutedValuation.USD
		}
	}

	ratios := make([]float64, len(results))
	if totalFDV <= 0 {
		return ratios
	}
	for i, data := range results {
		if data != nil && data.FullyDilutedValuation.USD != nil {
			ratios[i] = *data.FullyDilutedValuation.USD / totalFDV
		}
	}
	return ratios
}

func formatCoin(name string, data *models.CoinData, fdvRatio float64) string {
	if data == nil {
		return fmt.Sprintf("%s:\nData unavailable", name)
	}

	return fmt.Sprintf(`%s:
- Price: %s
- 24h Price Change: %s%%
- 24h Volume (USD): %s
- Market Cap: %s
- FDV: %s
- FDV Ratio: %s`,
		name,
		format.Price(data.Price.USD),
		format.Change(data.PriceChangePercentage24h),
		format.Magnitude(data.Volume24h.USD),
		format.Magnitude(data.MarketCap.USD),
		format.Magnitude(data.FullyDilutedValuation.USD),
		format.Ratio(fdvRatio))
}
