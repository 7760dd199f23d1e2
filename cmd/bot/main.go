package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/0xmountaintop/scroll-rank-bot/internal/api"
	"github.com/0xmountaintop/scroll-rank-bot/internal/bot"
	"github.com/0xmountaintop/scroll-rank-bot/internal/coingecko"
	"github.com/0xmountaintop/scroll-rank-bot/internal/config"
	"github.com/0xmountaintop/scroll-rank-bot/internal/exchanges"
	"github.com/0xmountaintop/scroll-rank-bot/internal/gas"
	"github.com/0xmountaintop/scroll-rank-bot/internal/logger"
	"github.com/0xmountaintop/scroll-rank-bot/internal/market"
	"github.com/0xmountaintop/scroll-rank-bot/internal/models"
	"github.com/0xmountaintop/scroll-rank-bot/internal/shill"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// appVersion is set at build time with -ldflags="-X main.appVersion=..."
var appVersion = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "scroll-rank-bot"
	app.Usage = "Telegram bot serving L2 market rankings and gas prices"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file to load before reading the environment",
			Value: ".env",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "overrides LOG_LEVEL (trace, debug, info, warn, error)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Error("bot exited")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file"), c.IsSet("env-file")); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	log.WithField("version", c.App.Version).Info("starting bot")

	snapshot, err := newMarketSnapshot(cfg, log)
	if err != nil {
		return err
	}

	gasCache, err := gas.NewCache(gas.ArgsCache{
		Fetcher:  gas.NewClient(cfg.HTTPTimeout),
		Networks: models.DefaultNetworks,
		TTL:      cfg.GasCacheTTL,
		Logger:   logger.Component(log, "gas"),
	})
	if err != nil {
		return err
	}

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}
	log.WithField("account", tg.Self.UserName).Info("authorized on telegram")

	args := bot.ArgsBot{
		Transport: tg,
		Market:    snapshot,
		Gas:       gasCache,
		Logger:    logger.Component(log, "bot"),
	}
	if cfg.ShillEnabled() {
		args.Shill = shill.NewGenerator(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	}

	b, err := bot.New(args)
	if err != nil {
		return err
	}

	if cfg.HTTPAddr != "" {
		srv := api.NewServer(cfg.HTTPAddr, snapshot, gasCache, logger.Component(log, "api"))
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.WithError(err).Error("status api stopped")
			}
		}()
	}

	b.Start(ctx)
	return nil
}

func newMarketSnapshot(cfg *config.Config, log *logrus.Logger) (*market.Snapshot, error) {
	argsAggregator := market.ArgsAggregator{
		CoinGecko: coingecko.NewClient(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey, cfg.HTTPTimeout),
		Logger:    logger.Component(log, "aggregator"),
	}
	if cfg.ExchangeFallback {
		symbols, err := models.LoadSymbols(cfg.SymbolsFile)
		if err != nil {
			return nil, err
		}
		argsAggregator.Providers = exchanges.DefaultProviders(cfg.HTTPTimeout)
		argsAggregator.Symbols = symbols
	}

	aggregator, err := market.NewAggregator(argsAggregator)
	if err != nil {
		return nil, err
	}

	return market.NewSnapshot(market.ArgsSnapshot{
		Fetcher:  aggregator,
		Coins:    models.DefaultCoins,
		Interval: cfg.MarketRefreshInterval,
		Logger:   logger.Component(log, "market"),
	})
}
