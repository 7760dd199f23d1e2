package gas

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/0xmountaintop/scroll-rank-bot/internal/cache"
	"github.com/0xmountaintop/scroll-rank-bot/internal/format"
	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Minute

// ArgsCache is the DTO used to create a new Cache
type ArgsCache struct {
	Fetcher  PriceFetcher
	Networks []models.Network
	TTL      time.Duration
	Logger   *logrus.Entry
}

// Cache serves the gas report, refreshing it on demand once it is older than the TTL.
type Cache struct {
	fetcher  PriceFetcher
	networks []models.Network
	ttl      time.Duration
	log      *logrus.Entry
	now      func() time.Time

	entry cache.Store
	group singleflight.Group
}

func NewCache(args ArgsCache) (*Cache, error) {
	if args.Fetcher == nil {
		return nil, ErrNilFetcher
	}
	if len(args.Networks) == 0 {
		return nil, ErrNoNetworks
	}
	if args.TTL <= 0 {
		args.TTL = DefaultTTL
	}
	if args.Logger == nil {
		args.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Cache{
		fetcher:  args.Fetcher,
		networks: args.Networks,
		ttl:      args.TTL,
		log:      args.Logger,
		now:      time.Now,
	}, nil
}

// Get returns the cached report while it is fresh, otherwise refreshes it.
// Callers arriving during a refresh share its result. The shared refresh is
// detached from any single caller; each caller only stops waiting when its own
// ctx ends.
func (c *Cache) Get(ctx context.Context) (string, error) {
	if entry, ok := c.entry.Load(); ok && entry.Fresh(c.now(), c.ttl) {
		return entry.Text, nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("gas refresh aborted: %w", err)
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan("gas", func() (interface{}, error) {
		return c.refresh(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.log.Debug("joined in-flight gas refresh")
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("gas refresh aborted: %w", ctx.Err())
	}
}

func (c *Cache) refresh(ctx context.Context) (string, error) {
	prices := FetchAllPrices(ctx, c.fetcher, c.networks, c.log)

	now := c.now()
	text := c.render(prices, now)
	c.entry.Set(text, now)

	c.log.WithField("networks", len(c.networks)).Info("gas prices updated")
	return text, nil
}

func (c *Cache) render(prices []*float64, now time.Time) string {
	lines := make([]string, len(c.networks))
	for i, network := range c.networks {
		lines[i] = fmt.Sprintf("%s %s: %s", network.Glyph, network.Name, format.Gwei(prices[i]))
	}

	return fmt.Sprintf("🔄 Current Gas Prices (Gwei):\n\n%s\n\nUpdated: %s UTC",
		strings.Join(lines, "\n"),
		now.UTC().Format("2006-01-02 15:04:05"))
}
