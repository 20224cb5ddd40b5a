package chartengine

import (
	"math"
	"sort"
	"time"
)

// SampleKind distinguishes quote-based samples (bid/ask pair) from
// trade-based samples (single close). Resolved once at ingestion.
type SampleKind uint8

const (
	QuoteSample SampleKind = iota
	TradeSample
)

// PriceSample is one time-stamped observation from the market-data feed.
type PriceSample struct {
	Time time.Time
	Kind SampleKind

	// Bid/Ask are set for QuoteSample, Close for TradeSample.
	Bid   float64
	Ask   float64
	Close float64
}

// Quote returns a bid/ask sample.
func Quote(t time.Time, bid, ask float64) PriceSample {
	return PriceSample{Time: t, Kind: QuoteSample, Bid: bid, Ask: ask}
}

// Trade returns a close-only sample.
func Trade(t time.Time, close float64) PriceSample {
	return PriceSample{Time: t, Kind: TradeSample, Close: close}
}

// Mid returns the sample's representative price.
func (s PriceSample) Mid() float64 {
	if s.Kind == QuoteSample {
		return (s.Bid + s.Ask) / 2
	}
	return s.Close
}

// valid reports whether the sample carries a usable price. Invalid samples
// are skipped when drawing, never fatal.
func (s PriceSample) valid() bool {
	if s.Kind == QuoteSample {
		return s.Bid > 0 && s.Ask > 0 && !math.IsNaN(s.Bid) && !math.IsNaN(s.Ask)
	}
	return s.Close > 0 && !math.IsNaN(s.Close)
}

// SideMetrics holds one option side's aggregated metrics. A nil
// *SideMetrics means no model greeks were available for that side.
type SideMetrics struct {
	Delta        float64
	OpenInterest float64
	Volume       float64
}

// ExposureRow is one strike's call/put metrics as delivered by an options
// snapshot.
type ExposureRow struct {
	Strike float64
	Call   *SideMetrics
	Put    *SideMetrics
}

// sortRows orders rows by ascending strike; snapshots may arrive in any order.
func sortRows(rows []ExposureRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Strike < rows[j].Strike })
}

// Formula selects the per-side exposure scalar.
type Formula string

const (
	FormulaDEX Formula = "DEX" // |delta| * OI * contract multiplier
	FormulaVOI Formula = "VOI" // volume * OI
	FormulaOI  Formula = "OI"  // OI only
	FormulaGFL Formula = "GFL" // |delta| * OI * spot
)

// ContractMultiplier is the ES futures option contract multiplier.
const ContractMultiplier = 50

// Formulas lists the selectable exposure formulas in display order.
func Formulas() []string {
	return []string{string(FormulaDEX), string(FormulaVOI), string(FormulaOI), string(FormulaGFL)}
}

// ParseFormula maps a selector value back to a Formula.
func ParseFormula(s string) (Formula, bool) {
	switch Formula(s) {
	case FormulaDEX, FormulaVOI, FormulaOI, FormulaGFL:
		return Formula(s), true
	}
	return "", false
}

// Exposure computes the scalar for one side. Missing metrics yield 0, as
// does GFL without a known spot price.
func (m *SideMetrics) Exposure(f Formula, spot float64) float64 {
	if m == nil {
		return 0
	}
	delta := math.Abs(m.Delta)
	switch f {
	case FormulaDEX:
		return delta * m.OpenInterest * ContractMultiplier
	case FormulaVOI:
		return m.Volume * m.OpenInterest
	case FormulaGFL:
		if spot <= 0 {
			return 0
		}
		return delta * m.OpenInterest * spot
	default:
		return m.OpenInterest
	}
}
