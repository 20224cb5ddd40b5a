package ibkr

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FutureContract is one resolved futures contract.
type FutureContract struct {
	ConID      int    `json:"conid"`
	Symbol     string `json:"symbol"`
	Expiration string `json:"expirationDate"` // YYYYMMDD as returned by /trsrv/futures
}

// Bar is one historical price bar.
type Bar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Quote is a bid/ask snapshot.
type Quote struct {
	Bid float64
	Ask float64
}

// OptionSide carries the per-side metrics the exposure formulas consume.
// Nil when the gateway returned no greeks for the contract.
type OptionSide struct {
	Delta        float64
	OpenInterest float64
	Volume       float64
}

// StrikeQuote is one strike's call/put snapshot.
type StrikeQuote struct {
	Strike float64
	Call   *OptionSide
	Put    *OptionSide
}

// Gateway market-data snapshot field IDs.
const (
	fieldLast         = "31"
	fieldBid          = "84"
	fieldAsk          = "85"
	fieldVolume       = "87"
	fieldDelta        = "7308"
	fieldOpenInterest = "7638"
)

// snapshotFields is the field list requested for every snapshot call.
var snapshotFields = strings.Join([]string{
	fieldLast, fieldBid, fieldAsk, fieldVolume, fieldDelta, fieldOpenInterest,
}, ",")

// parseField extracts a numeric snapshot field. The gateway mixes raw
// numbers with display strings like "1,234" or "2.5K"; anything unusable
// yields NaN.
func parseField(raw map[string]any, field string) float64 {
	v, ok := raw[field]
	if !ok {
		return math.NaN()
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		return parseNumericString(t)
	default:
		return math.NaN()
	}
}

func parseNumericString(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return math.NaN()
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1e3, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	}
	// Quotes may carry a C (close) or H (halted) prefix.
	s = strings.TrimLeft(s, "CH")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f * mult
}
