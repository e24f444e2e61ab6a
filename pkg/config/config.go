package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the trading pipeline.
type Config struct {
	// Exchange credentials and endpoint
	PionexAPIKey    string
	PionexAPISecret string
	PionexBaseURL   string

	// Execution
	DryRun        bool
	QuoteCurrency string
	FillTimeout   time.Duration
	FillInterval  time.Duration

	// Risk document
	RiskConfigPath string

	// Journal
	DBPath string

	// Diagnostics API
	Port string
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the process still starts when .env is missing.
	_ = godotenv.Load()

	return &Config{
		PionexAPIKey:    os.Getenv("PIONEX_API_KEY"),
		PionexAPISecret: os.Getenv("PIONEX_API_SECRET"),
		PionexBaseURL:   getEnv("PIONEX_BASE_URL", "https://api.pionex.com"),
		DryRun:          getEnv("DRY_RUN", "true") == "true",
		QuoteCurrency:   getEnv("QUOTE_CURRENCY", "USDT"),
		FillTimeout:     getEnvDuration("FILL_TIMEOUT", 60*time.Second),
		FillInterval:    getEnvDuration("FILL_POLL_INTERVAL", 2*time.Second),
		RiskConfigPath:  getEnv("RISK_CONFIG_PATH", "./risk.yaml"),
		DBPath:          getEnv("DB_PATH", "./data/silktrader.db"),
		Port:            getEnv("PORT", "8080"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
