package chartengine

// Config fixes the chart margins in pixels. StrikeMargin is the extra
// right-hand gutter reserved for strike price labels.
type Config struct {
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	StrikeMargin float64
}

// DefaultConfig returns the standard margin set.
func DefaultConfig() Config {
	return Config{
		MarginLeft:   50,
		MarginRight:  100,
		MarginTop:    20,
		MarginBottom: 40,
		StrikeMargin: 60,
	}
}

// plotWidth is the horizontal span available to series and bars.
func (c Config) plotWidth(width float64) float64 {
	return width - c.MarginLeft - c.MarginRight - c.StrikeMargin
}

// plotHeight is the vertical span between the top and bottom margins.
func (c Config) plotHeight(height float64) float64 {
	return height - c.MarginTop - c.MarginBottom
}

// axisX is the right edge of the plot area, where the price axis sits and
// exposure bars anchor.
func (c Config) axisX(width float64) float64 {
	return width - c.MarginRight - c.StrikeMargin
}

// PriceScale is the unzoomed vertical price range of the chart.
type PriceScale struct {
	Min float64
	Max float64
}

// ScaleFromSamples derives scale bounds from all valid bid/ask (or close)
// values, expanded by a 10% margin on each side. Returns false when no
// sample carries a usable price.
func ScaleFromSamples(samples []PriceSample) (PriceScale, bool) {
	var min, max float64
	found := false
	consider := func(p float64) {
		if !found {
			min, max = p, p
			found = true
			return
		}
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	for _, s := range samples {
		if !s.valid() {
			continue
		}
		if s.Kind == QuoteSample {
			consider(s.Bid)
			consider(s.Ask)
		} else {
			consider(s.Close)
		}
	}
	if !found {
		return PriceScale{}, false
	}
	span := max - min
	return PriceScale{Min: min - span*0.1, Max: max + span*0.1}, true
}

// zoomed applies the viewport's vertical zoom and offset: the window is
// scaled about the bounds midpoint, then shifted by the pan offset.
func (s PriceScale) zoomed(verticalZoom, priceOffset float64) (lo, hi float64) {
	mid := (s.Max + s.Min) / 2
	half := (s.Max - s.Min) * verticalZoom / 2
	return mid - half + priceOffset, mid + half + priceOffset
}

// PriceToY maps a price onto a vertical pixel position, higher prices
// toward the top. A degenerate scale collapses to the vertical midpoint.
func PriceToY(price float64, s PriceScale, v Viewport, cfg Config, height float64) float64 {
	usable := cfg.plotHeight(height)
	lo, hi := s.zoomed(v.VerticalZoom, v.PriceOffset)
	if hi == lo {
		return cfg.MarginTop + usable/2
	}
	return cfg.MarginTop + (hi-price)*usable/(hi-lo)
}

// IndexToX maps sample index i of n onto the plot span, endpoints exact.
// Callers must not pass n == 0.
func IndexToX(i, n int, cfg Config, width float64) float64 {
	if n <= 1 {
		return cfg.MarginLeft
	}
	return cfg.MarginLeft + cfg.plotWidth(width)*float64(i)/float64(n-1)
}
