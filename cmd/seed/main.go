// File: cmd/seed/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"telegram-translation-gate/internal/config"
	pg "telegram-translation-gate/internal/infra/db/postgres"
	"telegram-translation-gate/internal/infra/logging"
	"telegram-translation-gate/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "deploy/postgres/init.sql", "path to the schema file")
	genCode := flag.Bool("gencode", false, "also mint a privileged activation code")
	codeDays := flag.Int("days", 30, "validity in days for the minted code")
	issuer := flag.Int64("issuer", 0, "issuer account id for the minted code (defaults to the first bot.admin_ids entry)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied.")

	if !*genCode {
		return
	}

	logger := logging.New(cfg.Log, true)
	codeRepo := pg.NewActivationCodeRepo(pool)
	bindingRepo := pg.NewGroupBindingRepo(pool)
	tm := pg.NewTxManager(pool)
	codeUC := usecase.NewCodeUseCase(codeRepo, bindingRepo, tm, usecase.PolicyFromConfig(cfg.Policy), logger)

	issuerID, err := resolveIssuer(*issuer, cfg.Bot.AdminIDs)
	if err != nil {
		log.Fatalf("resolve issuer: %v (pass -issuer or set bot.admin_ids)", err)
	}
	code, err := codeUC.Create(ctx, issuerID, *codeDays, true)
	if err != nil {
		log.Fatalf("create code: %v", err)
	}
	fmt.Printf("minted: %s (days=%d, expires=%s)\n", code.Code, *codeDays, code.ExpiresAt.Format(time.RFC3339))
}

// resolveIssuer picks the account that owns the minted code. Codes reject a
// zero issuer id, so the choice has to be explicit one way or the other.
func resolveIssuer(flagIssuer int64, adminIDs []int64) (int64, error) {
	if flagIssuer != 0 {
		return flagIssuer, nil
	}
	if len(adminIDs) > 0 && adminIDs[0] != 0 {
		return adminIDs[0], nil
	}
	return 0, errors.New("no issuer account configured")
}
