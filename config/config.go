package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds every setting the bot reads from the environment.
type Config struct {
	Token   string `env:"DISCORD_BOT_TOKEN,required"`
	GuildID string `env:"GUILD_ID"`
	Port    string `env:"PORT" envDefault:"8080"`

	// Storage
	StoreBackend string `env:"STORE_BACKEND" envDefault:"json"`
	DataFile     string `env:"DATA_FILE" envDefault:"./data.json"`
	TriggerFile  string `env:"TRIGGER_FILE" envDefault:"./triggers.json"`
	DBPath       string `env:"DB_PATH" envDefault:"bot_memory.db"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"bot.sqlite"`

	// Auto-reply
	TriggerPrefix     string        `env:"TRIGGER_PREFIX" envDefault:"m!"`
	TriggerCooldown   time.Duration `env:"TRIGGER_COOLDOWN" envDefault:"10s"`
	CooldownNoticeTTL time.Duration `env:"COOLDOWN_NOTICE_TTL" envDefault:"5s"`
	CooldownSweep     string        `env:"COOLDOWN_SWEEP" envDefault:"@every 1m"`

	Debug bool `env:"DEBUG"`
}

var backends = []string{"json", "bolt", "sqlite"}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found.")
	}
	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN not set")
	}
	known := false
	for _, b := range backends {
		if c.StoreBackend == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("invalid STORE_BACKEND %q: want one of %s", c.StoreBackend, strings.Join(backends, ", "))
	}
	if c.TriggerPrefix == "" {
		return fmt.Errorf("TRIGGER_PREFIX must not be empty")
	}
	if c.TriggerCooldown <= 0 {
		return fmt.Errorf("TRIGGER_COOLDOWN must be positive, got %s", c.TriggerCooldown)
	}
	if c.CooldownNoticeTTL <= 0 {
		return fmt.Errorf("COOLDOWN_NOTICE_TTL must be positive, got %s", c.CooldownNoticeTTL)
	}
	if _, err := cron.ParseStandard(c.CooldownSweep); err != nil {
		return fmt.Errorf("invalid COOLDOWN_SWEEP %q: %w", c.CooldownSweep, err)
	}
	return nil
}
