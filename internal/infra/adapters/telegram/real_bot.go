package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-channel-access/internal/application"
	"telegram-channel-access/internal/config"
	"telegram-channel-access/internal/domain/ports/adapter"
	"telegram-channel-access/internal/infra/i18n"
	"telegram-channel-access/internal/infra/logging"
	red "telegram-channel-access/internal/infra/redis"
)

// Ensure compile-time conformance
var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	redeemLimit int
	tr          *i18n.Translator
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	facade *application.BotFacade,
	rateLimiter *red.RateLimiter,
	redeemLimit int,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	if redeemLimit <= 0 {
		redeemLimit = 5
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		redeemLimit:   redeemLimit,
		tr:            tr,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	msg := up.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	ctx = logging.WithTgID(ctx, msg.From.ID)

	if msg.IsCommand() {
		if handler, ok := r.commandRoutes()[msg.Command()]; ok {
			return handler(ctx, msg)
		}
		return nil // unknown commands are ignored
	}

	return r.handleRedeemMessage(ctx, msg)
}

// handleRedeemMessage treats any plain text as a code-redemption attempt,
// behind a fixed-window rate limit to slow down code guessing.
func (r *RealTelegramBotAdapter) handleRedeemMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if r.rateLimiter != nil {
		key := red.UserCommandKey(msg.From.ID, "redeem")
		ok, err := r.rateLimiter.Allow(ctx, key, r.redeemLimit, time.Minute)
		if err != nil {
			logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable, letting request through")
		} else if !ok {
			return r.SendMessage(ctx, msg.Chat.ID, r.tr.T("error_rate_limited"))
		}
	}

	reply := r.facade.HandleRedeem(ctx, msg.From.ID, msg.Text)
	return r.SendMessage(ctx, msg.Chat.ID, reply)
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, telegramID int64, text string) error {
	m := tgbotapi.NewMessage(telegramID, text)
	_, err := r.bot.Send(m)
	return err
}
