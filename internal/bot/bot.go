package bot

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	CommandRanking  = "check_scroll_ranking"
	CommandGasPrice = "get_current_gas_price"
	CommandShill    = "shill_scroll"

	MsgMarketUnavailable = "Market data is not available yet, please try again shortly."
	MsgGasError          = "Sorry, there was an error fetching gas prices."
	MsgShillError        = "Sorry, I could not come up with anything right now."

	pollTimeout = 60
)

// Transport is the subset of *tgbotapi.BotAPI the bot relies on.
type Transport interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// MarketCache serves the periodically refreshed market report.
type MarketCache interface {
	Get() (string, bool)
	Run(ctx context.Context)
}

// GasCache serves the lazily refreshed gas report.
type GasCache interface {
	Get(ctx context.Context) (string, error)
}

// ShillGenerator produces one promotional line.
type ShillGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// ArgsBot is the DTO used to create a new Bot
type ArgsBot struct {
	Transport Transport
	Market    MarketCache
	Gas       GasCache
	// Shill is optional; the shill command is ignored without it.
	Shill  ShillGenerator
	Logger *logrus.Entry
}

var (
	ErrNilTransport = errors.New("nil transport")
	ErrNilMarket    = errors.New("nil market cache")
	ErrNilGas       = errors.New("nil gas cache")
)

type Bot struct {
	api    Transport
	market MarketCache
	gas    GasCache
	shill  ShillGenerator
	log    *logrus.Entry

	wg sync.WaitGroup
}

func New(args ArgsBot) (*Bot, error) {
	if args.Transport == nil {
		return nil, ErrNilTransport
	}
	if args.Market == nil {
		return nil, ErrNilMarket
	}
	if args.Gas == nil {
		return nil, ErrNilGas
	}
	if args.Logger == nil {
		args.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Bot{
		api:    args.Transport,
		market: args.Market,
		gas:    args.Gas,
		shill:  args.Shill,
		log:    args.Logger,
	}, nil
}

// Start runs the market refresh loop and serves commands until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	go b.market.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout

	updates := b.api.GetUpdatesChan(u)
	b.handleUpdates(ctx, updates)

	b.api.StopReceivingUpdates()
	b.wg.Wait()
	b.log.Info("bot stopped")
}

func (b *Bot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	command := msg.Command()
	reply, ok := b.Dispatch(ctx, command)
	if !ok {
		return
	}

	log := b.log.WithFields(logrus.Fields{"command": command, "chat_id": msg.Chat.ID})
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.WithError(err).Error("failed to send reply")
		return
	}
	log.Debug("reply sent")
}

// Dispatch returns the reply for command, or false when the command is not handled.
func (b *Bot) Dispatch(ctx context.Context, command string) (string, bool) {
	switch command {
	case CommandRanking:
		text, ok := b.market.Get()
		if !ok {
			return MsgMarketUnavailable, true
		}
		return text, true

	case CommandGasPrice:
		text, err := b.gas.Get(ctx)
		if err != nil {
			b.log.WithError(err).Warn("gas price refresh failed")
			return MsgGasError, true
		}
		return text, true

	case CommandShill:
		if b.shill == nil {
			return "", false
		}
		text, err := b.shill.Generate(ctx)
		if err != nil {
			b.log.WithError(err).Warn("shill generation failed")
			return MsgShillError, true
		}
		return text, true
	}

	return "", false
}
