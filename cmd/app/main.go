// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-translation-gate/internal/application"
	"telegram-translation-gate/internal/config"
	pg "telegram-translation-gate/internal/infra/db/postgres"
	httpapi "telegram-translation-gate/internal/infra/http"
	"telegram-translation-gate/internal/infra/i18n"
	"telegram-translation-gate/internal/infra/logging"
	"telegram-translation-gate/internal/infra/metrics"
	"telegram-translation-gate/internal/infra/payment"
	red "telegram-translation-gate/internal/infra/redis"
	tele "telegram-translation-gate/internal/infra/telegram"
	"telegram-translation-gate/internal/infra/translation"
	"telegram-translation-gate/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	codeRepo := pg.NewActivationCodeRepo(pool)
	bindingRepo := pg.NewGroupBindingRepo(pool)
	soloRepo := pg.NewSoloEntitlementRepo(pool)
	invoiceRepo := red.NewInvoiceRepo(redisClient, cfg.Redis.TTL)
	ownerRepo := red.NewOwnerRepo(redisClient)

	// ---- Outbound adapters ----
	indexer, err := payment.NewTronGridIndexer(&cfg.Tron)
	if err != nil {
		logger.Fatal().Err(err).Msg("trongrid indexer init failed")
	}
	translator, err := translation.NewGoogleTranslator(&cfg.Translate)
	if err != nil {
		logger.Fatal().Err(err).Msg("translator init failed")
	}
	catalog, err := i18n.NewCatalog(i18n.LocalesFS, i18n.DefaultLangs)
	if err != nil {
		logger.Fatal().Err(err).Msg("locale catalog load failed")
	}

	// ---- Use cases ----
	policy := usecase.PolicyFromConfig(cfg.Policy)
	codeUC := usecase.NewCodeUseCase(codeRepo, bindingRepo, tm, policy, logger)
	bindUC := usecase.NewBindingUseCase(codeRepo, bindingRepo, tm, policy, logger)
	renewUC := usecase.NewRenewalUseCase(bindingRepo, soloRepo, logger)
	payUC := usecase.NewPaymentUseCase(bindingRepo, invoiceRepo, indexer, renewUC, policy, logger)
	accessUC := usecase.NewAccessUseCase(ownerRepo, cfg.Bot.OwnerSecret, cfg.Bot.AdminIDs, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(codeUC, bindUC, renewUC, payUC, accessUC, translator, catalog, policy)

	// ---- Telegram ----
	if strings.ToLower(cfg.Bot.Mode) != "polling" && cfg.Bot.Mode != "" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, locker, rateLimiter, logger, cfg.Bot.Workers)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops HTTP server (health, readiness, metrics) ----
	srv := httpapi.NewServer(cfg, pool, redisClient, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("ops http shutdown failed")
	}
	cancel()
}
