// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
bot:
  token: "test-token"
database:
  url: "postgres://localhost/test"
redis:
  url: "localhost:6379"
tron:
  deposit_pool: ["TTestAddress1"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML), false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// The translate adapter appends /language/translate/v2 itself, so the
	// default base must stay a bare host.
	if got, want := cfg.Translate.BaseURL, "https://translation.googleapis.com"; got != want {
		t.Errorf("Translate.BaseURL = %q, want %q", got, want)
	}
	if got, want := cfg.Tron.BaseURL, "https://api.trongrid.io"; got != want {
		t.Errorf("Tron.BaseURL = %q, want %q", got, want)
	}
	if cfg.Bot.Workers != 4 {
		t.Errorf("Bot.Workers = %d, want 4", cfg.Bot.Workers)
	}
	if cfg.Redis.TTL != 72*time.Hour {
		t.Errorf("Redis.TTL = %v, want 72h", cfg.Redis.TTL)
	}
	if len(cfg.Translate.TargetLangs) != 4 {
		t.Errorf("Translate.TargetLangs = %v, want 4 entries", cfg.Translate.TargetLangs)
	}

	p := cfg.Policy
	if p.FreeQuota != 1 || p.FreeCodeDays != 3 || p.MaxGroupsPerCode != 2 ||
		p.MaxExtensions != 2 || p.ExtensionDays != 30 || p.SoloDays != 3 || p.RequiredUSDT != 30 {
		t.Errorf("unexpected policy defaults: %+v", p)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing token", `
database: {url: "postgres://localhost/test"}
redis: {url: "localhost:6379"}
tron: {deposit_pool: ["TTestAddress1"]}
`},
		{"missing deposit pool", `
bot: {token: "test-token"}
database: {url: "postgres://localhost/test"}
redis: {url: "localhost:6379"}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tc.yaml), false); err == nil {
				t.Error("expected a validation error, got nil")
			}
		})
	}
}
