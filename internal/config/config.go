package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type BotConfig struct {
	Addr              string
	DatabaseURL       string
	DisplayCount      int
	ImageCheckTimeout time.Duration
}

type CLIConfig struct {
	APIBaseURL string
}

type SeedConfig struct {
	DatabaseURL string
	DatasetPath string
	ApplySchema bool
}

func LoadBotFromEnv() (BotConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("GAMEDEX_BOT_ADDR", ":5055")
	}

	cfg := BotConfig{
		Addr:              addr,
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DisplayCount:      envIntDefault("GAMEDEX_DISPLAY_COUNT", 5),
		ImageCheckTimeout: envDurationDefault("GAMEDEX_IMAGE_CHECK_TIMEOUT", 10*time.Second),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.DisplayCount <= 0 {
		return cfg, fmt.Errorf("GAMEDEX_DISPLAY_COUNT must be positive")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("GDX_API_BASE_URL", "http://localhost:5055"), "/"),
	}
}

func LoadSeedFromEnv() (SeedConfig, error) {
	cfg := SeedConfig{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatasetPath: envDefault("GAMEDEX_DATASET", "games.json"),
		ApplySchema: envBoolDefault("GAMEDEX_SEED_APPLY_SCHEMA", true),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
