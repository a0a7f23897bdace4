package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	_ = os.MkdirAll(cfg.DataDir, 0o755)
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrConfig("DISCORD_TOKEN required")
	}
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return ErrConfig("COMMAND_PREFIX must not be blank")
	}
	if c.LavalinkAddress == "" {
		return ErrConfig("LAVALINK_ADDRESS required")
	}
	switch c.AutoplayMode {
	case "enabled", "partial", "disabled":
	default:
		return ErrConfig("AUTOPLAY_MODE must be one of enabled, partial, disabled")
	}
	if c.DefaultVolume < 0 {
		return ErrConfig("DEFAULT_VOLUME must not be negative")
	}
	if c.CommandRate <= 0 || c.CommandBurst < 1 {
		return ErrConfig("COMMAND_RATE and COMMAND_BURST must be positive")
	}
	return nil
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
