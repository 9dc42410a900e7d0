// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"telegram-channel-access/internal/application"
	"telegram-channel-access/internal/config"
	"telegram-channel-access/internal/domain/ports/adapter"
	tele "telegram-channel-access/internal/infra/adapters/telegram"
	pg "telegram-channel-access/internal/infra/db/postgres"
	httpapi "telegram-channel-access/internal/infra/http"
	"telegram-channel-access/internal/infra/i18n"
	"telegram-channel-access/internal/infra/logging"
	red "telegram-channel-access/internal/infra/redis"
	"telegram-channel-access/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Translator ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "es")
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}

	// ---- Repositories ----
	codeRepo := pg.NewCodeRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	txm := pg.NewTxManager(pool)

	// ---- Channel gateway ----
	var gateway adapter.ChannelGateway
	if cfg.Runtime.Dev {
		gateway = tele.NewNoopChannelGateway(logger)
	} else {
		gateway, err = tele.NewChannelGatewayFromToken(cfg.Bot.Token, cfg.Bot.ChannelID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("channel gateway init failed")
		}
	}

	// ---- Use cases ----
	codeUC := usecase.NewCodeUseCase(codeRepo, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, gateway, logger)
	redeemUC := usecase.NewRedemptionUseCase(codeRepo, subRepo, txm, gateway, locker, cfg.Redis.LockTTL.Std(), logger)

	// ---- Facade ----
	facade := application.NewBotFacade(codeUC, subUC, redeemUC, tr, logger)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, cfg.RateLimit.RedeemPerMinute, tr, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	if strings.ToLower(cfg.Bot.Mode) != "" && strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops server (/healthz, /metrics) ----
	opsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Ops.Port),
		Handler: httpapi.NewOpsHandler(),
	}
	go func() {
		logger.Info().Str("addr", opsServer.Addr).Msg("ops server listening")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	botAdapter.StopPolling()
	_ = opsServer.Close()
}
