package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GatewayURL != "https://localhost:5001/v1/api" {
		t.Fatalf("gateway default wrong: %q", cfg.GatewayURL)
	}
	if cfg.Symbol != "ES" || cfg.TradingClass != "E1B" {
		t.Fatalf("contract defaults wrong: %q %q", cfg.Symbol, cfg.TradingClass)
	}
	if cfg.StrikeWindow != 100 {
		t.Fatalf("strike window default wrong: %v", cfg.StrikeWindow)
	}
	if cfg.HistoryPeriod != "1d" || cfg.HistoryBar != "1min" {
		t.Fatalf("history defaults wrong: %q %q", cfg.HistoryPeriod, cfg.HistoryBar)
	}
	if cfg.QuoteInterval != 5*time.Second {
		t.Fatalf("quote interval default wrong: %v", cfg.QuoteInterval)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ESMON_SYMBOL", "MES")
	t.Setenv("ESMON_STRIKE_WINDOW", "250.5")
	t.Setenv("ESMON_QUOTE_INTERVAL", "2s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Symbol != "MES" {
		t.Fatalf("symbol override ignored: %q", cfg.Symbol)
	}
	if cfg.StrikeWindow != 250.5 {
		t.Fatalf("strike window override ignored: %v", cfg.StrikeWindow)
	}
	if cfg.QuoteInterval != 2*time.Second {
		t.Fatalf("quote interval override ignored: %v", cfg.QuoteInterval)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ESMON_STRIKE_WINDOW", "wide")
	t.Setenv("ESMON_QUOTE_INTERVAL", "soon")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StrikeWindow != 100 {
		t.Fatalf("malformed float should fall back: %v", cfg.StrikeWindow)
	}
	if cfg.QuoteInterval != 5*time.Second {
		t.Fatalf("malformed duration should fall back: %v", cfg.QuoteInterval)
	}
}
