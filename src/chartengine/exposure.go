package chartengine

import (
	"math"
	"strconv"
)

// rowExposure is one strike's computed call/put scalars.
type rowExposure struct {
	strike float64
	call   float64
	put    float64
}

// computeExposures evaluates the active formula for every cached row and
// returns the observed maximum floored at 1.0, so normalization never
// divides by zero.
func (e *Engine) computeExposures() ([]rowExposure, float64) {
	spot, _ := e.spot()
	out := make([]rowExposure, 0, len(e.rows))
	maxExp := 0.0
	for _, r := range e.rows {
		re := rowExposure{
			strike: r.Strike,
			call:   r.Call.Exposure(e.formula, spot),
			put:    r.Put.Exposure(e.formula, spot),
		}
		maxExp = math.Max(maxExp, math.Max(re.call, re.put))
		out = append(out, re)
	}
	return out, math.Max(maxExp, 1.0)
}

// drawExposure renders the per-strike call/put bars on the shared price
// axis, the strike labels, and the exposure legend.
func (e *Engine) drawExposure(f *Frame, scale PriceScale) {
	exps, maxExp := e.computeExposures()
	if len(exps) == 0 {
		return
	}
	cfg := e.cfg
	axisX := cfg.axisX(e.width)
	barMax := cfg.plotWidth(e.width)
	rowH := cfg.plotHeight(e.height) / float64(len(exps)+1)
	thickness := rowH * 0.25

	for _, re := range exps {
		y := PriceToY(re.strike, scale, e.view, cfg, e.height)

		if re.call > 0 {
			w := re.call / maxExp * barMax
			f.Rects = append(f.Rects, Rect{
				X1: axisX - w, Y1: y - thickness, X2: axisX, Y2: y, Fill: colorCallBar,
			})
		}
		if re.put > 0 {
			w := re.put / maxExp * barMax
			f.Rects = append(f.Rects, Rect{
				X1: axisX - w, Y1: y, X2: axisX, Y2: y + thickness, Fill: colorPutBar,
			})
		}
		f.Labels = append(f.Labels, Label{
			X: e.width - cfg.MarginRight + 10, Y: y,
			Text:  strconv.FormatFloat(re.strike, 'f', -1, 64),
			Color: colorText, Align: AlignLeft,
		})
	}
	e.drawExposureScale(f, maxExp, axisX, barMax)
}

// drawExposureScale draws five evenly spaced legend markers from zero at
// the axis out to the normalization maximum at the left edge of the bars.
func (e *Engine) drawExposureScale(f *Frame, maxExp, axisX, barMax float64) {
	y := e.height - e.cfg.MarginBottom + 10
	for i := 0; i < 5; i++ {
		value := maxExp * float64(i) / 4
		f.Labels = append(f.Labels, Label{
			X: axisX - barMax*float64(i)/4, Y: y,
			Text:  formatExposure(value),
			Color: colorText, Align: AlignCenter,
		})
	}
}
