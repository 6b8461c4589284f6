// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Mode     string  `yaml:"mode"` // polling | webhook (future)
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // polling workers
	AdminIDs []int64 `yaml:"admin_ids"`
	// OwnerSecret is the shared secret accepted by /auth to claim ownership.
	OwnerSecret string `yaml:"owner_secret"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port int `yaml:"port"` // health + metrics HTTP port
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // invoice lifetime
}

type TronConfig struct {
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	ContractAddress string        `yaml:"contract_address"` // TRC20 USDT contract
	DepositPool     []string      `yaml:"deposit_pool"`     // receiving addresses
	Timeout         time.Duration `yaml:"timeout"`
}

type TranslateConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	TargetLangs []string      `yaml:"target_langs"`
	Timeout     time.Duration `yaml:"timeout"`
}

// PolicyConfig holds the entitlement policy knobs. Defaults reproduce the
// production values: one free code per user, three free days, two groups
// per code, two 30-day extensions, 30 USDT per paid extension.
type PolicyConfig struct {
	FreeQuota        int     `yaml:"free_quota"`
	FreeCodeDays     int     `yaml:"free_code_days"`
	MaxGroupsPerCode int     `yaml:"max_groups_per_code"`
	MaxExtensions    int     `yaml:"max_extensions"`
	ExtensionDays    int     `yaml:"extension_days"`
	SoloDays         int     `yaml:"solo_days"`
	RequiredUSDT     float64 `yaml:"required_usdt"`
}

type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Tron      TronConfig      `yaml:"tron"`
	Translate TranslateConfig `yaml:"translate"`
	Policy    PolicyConfig    `yaml:"policy"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 72 * time.Hour
	}
	if cfg.Tron.BaseURL == "" {
		cfg.Tron.BaseURL = "https://api.trongrid.io"
	}
	if cfg.Tron.Timeout <= 0 {
		cfg.Tron.Timeout = 10 * time.Second
	}
	if cfg.Translate.BaseURL == "" {
		// Bare host. The adapter appends the /language/translate/v2 method
		// paths itself.
		cfg.Translate.BaseURL = "https://translation.googleapis.com"
	}
	if cfg.Translate.Timeout <= 0 {
		cfg.Translate.Timeout = 10 * time.Second
	}
	if len(cfg.Translate.TargetLangs) == 0 {
		cfg.Translate.TargetLangs = []string{"ko", "zh-CN", "km", "vi"}
	}
	applyPolicyDefaults(&cfg.Policy)

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if len(cfg.Tron.DepositPool) == 0 {
		return nil, errors.New("tron.deposit_pool must list at least one receiving address")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyPolicyDefaults(p *PolicyConfig) {
	if p.FreeQuota <= 0 {
		p.FreeQuota = 1
	}
	if p.FreeCodeDays <= 0 {
		p.FreeCodeDays = 3
	}
	if p.MaxGroupsPerCode <= 0 {
		p.MaxGroupsPerCode = 2
	}
	if p.MaxExtensions <= 0 {
		p.MaxExtensions = 2
	}
	if p.ExtensionDays <= 0 {
		p.ExtensionDays = 30
	}
	if p.SoloDays <= 0 {
		p.SoloDays = 3
	}
	if p.RequiredUSDT <= 0 {
		p.RequiredUSDT = 30
	}
}
