package chartengine

import (
	"fmt"
	"strconv"
	"strings"
)

// drawPriceScale labels the five gridlines with the prices of the current
// zoomed window, top down.
func (e *Engine) drawPriceScale(f *Frame, scale PriceScale) {
	cfg := e.cfg
	lo, hi := scale.zoomed(e.view.VerticalZoom, e.view.PriceOffset)
	labelX := cfg.axisX(e.width) + 25
	for i := 0; i < 5; i++ {
		price := hi - float64(i)*(hi-lo)/4
		y := cfg.MarginTop + float64(i)*cfg.plotHeight(e.height)/4
		f.Labels = append(f.Labels, Label{
			X: labelX, Y: y, Text: formatPrice(price), Color: colorText, Align: AlignLeft,
		})
	}
}

// drawSeries draws the bid and ask polylines over the visible window plus
// the time axis. Samples without a usable price are skipped; the lines
// bridge across them.
func (e *Engine) drawSeries(f *Frame, scale PriceScale) {
	bars := e.visibleHistory()
	n := len(bars)
	if n == 0 {
		return
	}
	var bidXs, bidYs, askXs, askYs []float64
	for i, s := range bars {
		if !s.valid() {
			continue
		}
		x := IndexToX(i, n, e.cfg, e.width)
		if s.Kind == QuoteSample {
			bidXs = append(bidXs, x)
			bidYs = append(bidYs, PriceToY(s.Bid, scale, e.view, e.cfg, e.height))
			askXs = append(askXs, x)
			askYs = append(askYs, PriceToY(s.Ask, scale, e.view, e.cfg, e.height))
		} else {
			y := PriceToY(s.Close, scale, e.view, e.cfg, e.height)
			bidXs = append(bidXs, x)
			bidYs = append(bidYs, y)
			askXs = append(askXs, x)
			askYs = append(askYs, y)
		}
	}
	if len(bidXs) >= 2 {
		f.Polylines = append(f.Polylines,
			Polyline{Xs: bidXs, Ys: bidYs, Width: 1, Color: colorBid},
			Polyline{Xs: askXs, Ys: askYs, Width: 1, Color: colorAsk},
		)
	}
	if e.curBid > 0 && e.curAsk > 0 {
		labelX := e.cfg.axisX(e.width) + 5
		f.Labels = append(f.Labels,
			Label{X: labelX, Y: PriceToY(e.curBid, scale, e.view, e.cfg, e.height),
				Text: fmt.Sprintf("Bid: $%.2f", e.curBid), Color: colorBid, Align: AlignLeft},
			Label{X: labelX, Y: PriceToY(e.curAsk, scale, e.view, e.cfg, e.height),
				Text: fmt.Sprintf("Ask: $%.2f", e.curAsk), Color: colorAsk, Align: AlignLeft},
		)
	}
	e.drawTimeAxis(f, bars)
}

// drawTimeAxis places up to five evenly subsampled HH:MM:SS labels along
// the visible window.
func (e *Engine) drawTimeAxis(f *Frame, bars []PriceSample) {
	n := len(bars)
	if n == 0 {
		return
	}
	step := n / 4
	if step < 1 {
		step = 1
	}
	y := e.height - e.cfg.MarginBottom + 20
	for i := 0; i < n; i += step {
		f.Labels = append(f.Labels, Label{
			X:     IndexToX(i, n, e.cfg, e.width),
			Y:     y,
			Text:  bars[i].Time.Format("15:04:05"),
			Color: colorText,
			Align: AlignCenter,
		})
	}
}

// drawCurrentPrice draws the dashed mid-price indicator.
func (e *Engine) drawCurrentPrice(f *Frame, scale PriceScale) {
	mid := (e.curBid + e.curAsk) / 2
	y := PriceToY(mid, scale, e.view, e.cfg, e.height)
	f.Lines = append(f.Lines, Line{
		X1: e.cfg.MarginLeft, Y1: y, X2: e.cfg.axisX(e.width), Y2: y,
		Width: 1, Color: colorSpot, Dash: dashSpot,
	})
}

// formatPrice renders a currency-prefixed price with thousands separators
// and two decimals.
func formatPrice(v float64) string {
	return "$" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// formatExposure renders an exposure value with thousands separators and no
// decimals.
func formatExposure(v float64) string {
	return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
}

// groupThousands inserts commas into the integer part of a formatted
// number.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}
