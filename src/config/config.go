package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the ES options monitor.
type Config struct {
	// Gateway connection
	GatewayURL string

	// Contract selection
	Symbol       string
	TradingClass string
	StrikeWindow float64

	// Market data
	HistoryPeriod string
	HistoryBar    string
	QuoteInterval time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		GatewayURL:    getEnvOrDefault("ESMON_GATEWAY_URL", "https://localhost:5001/v1/api"),
		Symbol:        getEnvOrDefault("ESMON_SYMBOL", "ES"),
		TradingClass:  getEnvOrDefault("ESMON_TRADING_CLASS", "E1B"),
		StrikeWindow:  getEnvFloatOrDefault("ESMON_STRIKE_WINDOW", 100),
		HistoryPeriod: getEnvOrDefault("ESMON_HISTORY_PERIOD", "1d"),
		HistoryBar:    getEnvOrDefault("ESMON_HISTORY_BAR", "1min"),
		QuoteInterval: getEnvDurationOrDefault("ESMON_QUOTE_INTERVAL", 5*time.Second),
		LogLevel:      getEnvOrDefault("ESMON_LOG_LEVEL", "info"),
		LogFile:       getEnvOrDefault("ESMON_LOG_FILE", ""),
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
