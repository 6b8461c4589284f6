// File: cmd/e2e-setup/main.go
package main

import (
	"context"
	"flag"
	"log"

	"telegram-translation-gate/internal/config"
	pg "telegram-translation-gate/internal/infra/db/postgres"
	"telegram-translation-gate/internal/infra/logging"
	red "telegram-translation-gate/internal/infra/redis"
	"telegram-translation-gate/internal/usecase"
)

// This script sets up a clean, predictable state for manual end-to-end
// testing: wiped stores, one privileged code, and one group already bound
// to it.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	chatID := flag.Int64("chat", -1001234567890, "group chat id to pre-bind")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pool.Close()

	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis connection failed: %v", err)
	}
	defer redisClient.Close()

	log.Println("--- Starting E2E Environment Setup ---")

	// 1. Clean the Redis cache (invoices, owner settings, chat locks).
	log.Println("[1/3] Wiping Redis cache...")
	if err := redisClient.FlushDB(ctx); err != nil {
		log.Fatalf("failed to flush redis: %v", err)
	}

	// 2. Clean the database completely.
	log.Println("[2/3] Wiping all existing database data...")
	_, err = pool.Exec(ctx, `
		TRUNCATE activation_codes, group_bindings, solo_entitlements CASCADE;
	`)
	if err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	// 3. Seed one privileged code and bind the target group to it.
	log.Println("[3/3] Seeding activation code and group binding...")
	logger := logging.New(cfg.Log, true)
	policy := usecase.PolicyFromConfig(cfg.Policy)
	tm := pg.NewTxManager(pool)
	codeRepo := pg.NewActivationCodeRepo(pool)
	bindingRepo := pg.NewGroupBindingRepo(pool)
	codeUC := usecase.NewCodeUseCase(codeRepo, bindingRepo, tm, policy, logger)
	bindUC := usecase.NewBindingUseCase(codeRepo, bindingRepo, tm, policy, logger)

	issuerID := int64(0)
	if len(cfg.Bot.AdminIDs) > 0 {
		issuerID = cfg.Bot.AdminIDs[0]
	}
	code, err := codeUC.Create(ctx, issuerID, policy.ExtensionDays, true)
	if err != nil {
		log.Fatalf("failed to create code: %v", err)
	}
	binding, err := bindUC.Bind(ctx, code.Code, *chatID)
	if err != nil {
		log.Fatalf("failed to bind chat: %v", err)
	}

	log.Println("--- E2E Environment Setup Complete ---")
	log.Printf("code: %s (expires %s)", code.Code, code.ExpiresAt)
	log.Printf("bound chat: %d (expires %s)", binding.ChatID, binding.ExpiresAt)
}
