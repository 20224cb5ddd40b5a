package chartengine

// Engine owns the viewport and the last-pushed data snapshots, and renders
// them into Frames. All methods must be called from the UI event loop; the
// engine itself is not safe for concurrent use and never needs to be.
type Engine struct {
	cfg  Config
	view Viewport

	width, height float64

	history   []PriceSample
	scale     PriceScale
	haveScale bool

	rows    []ExposureRow
	formula Formula

	curBid, curAsk float64
}

// New returns an engine with no data cached. The first Redraw before any
// push yields grid and axes only.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, view: NewViewport(), formula: FormulaGFL}
}

// Resize records the canvas size and reports whether it changed. Zero or
// negative sizes are remembered as-is; Redraw degrades to an empty frame
// until the host has completed layout.
func (e *Engine) Resize(width, height float64) bool {
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	return true
}

// PushPriceHistory replaces the cached history and recomputes scale bounds.
// The engine owns its copy; callers may reuse the slice.
func (e *Engine) PushPriceHistory(samples []PriceSample) {
	e.history = append(e.history[:0:0], samples...)
	e.scale, e.haveScale = ScaleFromSamples(e.history)
}

// UpdateLiveQuote applies a live tick: the most recent cached sample is
// mutated in place and the spot indicator moves. Historical samples and
// scale bounds are untouched.
func (e *Engine) UpdateLiveQuote(bid, ask float64) {
	e.curBid, e.curAsk = bid, ask
	if n := len(e.history); n > 0 {
		last := &e.history[n-1]
		if last.Kind == QuoteSample {
			last.Bid, last.Ask = bid, ask
		} else {
			last.Close = (bid + ask) / 2
		}
	}
}

// PushOptionsSnapshot replaces the cached option rows wholesale. A positive
// spot price also moves the spot indicator.
func (e *Engine) PushOptionsSnapshot(rows []ExposureRow, spot float64) {
	e.rows = append(e.rows[:0:0], rows...)
	sortRows(e.rows)
	if spot > 0 {
		e.curBid, e.curAsk = spot, spot
	}
}

// SetFormula switches the exposure scalar. The next Redraw recomputes all
// bars from the cached snapshot; no fresh data is needed.
func (e *Engine) SetFormula(f Formula) { e.formula = f }

// Formula returns the active exposure formula.
func (e *Engine) Formula() Formula { return e.formula }

// spot is the mid of the latest bid/ask, when known.
func (e *Engine) spot() (float64, bool) {
	if e.curBid > 0 && e.curAsk > 0 {
		return (e.curBid + e.curAsk) / 2, true
	}
	return 0, false
}

// visibleHistory narrows the cached history to the most recent window
// selected by the horizontal zoom. Zoom below 1 shows everything.
func (e *Engine) visibleHistory() []PriceSample {
	n := len(e.history)
	if n == 0 {
		return nil
	}
	visible := int(float64(n) / e.view.HorizontalZoom)
	if visible < 1 {
		visible = 1
	}
	if visible > n {
		visible = n
	}
	return e.history[n-visible:]
}

// Gesture entry points, forwarded to the viewport with the current canvas
// geometry. Each returns whether viewport state changed, in which case the
// caller redraws.

func (e *Engine) BeginDrag(x, y float64) bool {
	return e.view.BeginDrag(x, y, e.width, e.height, e.cfg)
}
func (e *Engine) DragTo(x, y float64) bool { return e.view.DragTo(x, y) }
func (e *Engine) EndDrag()                 { e.view.EndDrag() }

func (e *Engine) BeginZoom(x, y float64) bool {
	return e.view.BeginZoom(x, y, e.width, e.height, e.cfg)
}
func (e *Engine) ZoomTo(x, y float64) bool { return e.view.ZoomTo(x, y) }
func (e *Engine) EndZoom()                 { e.view.EndZoom() }

// ResetView restores the neutral viewport.
func (e *Engine) ResetView() { e.view.Reset() }

// Viewport returns a copy of the current pan/zoom state.
func (e *Engine) Viewport() Viewport {
	v := e.view
	v.drag, v.zoom = nil, nil
	return v
}

// renderScale picks the vertical bounds for this redraw: the bounds
// computed from price history when available, otherwise the strike range so
// an options-only snapshot still lands on a sensible axis.
func (e *Engine) renderScale() (PriceScale, bool) {
	if e.haveScale {
		return e.scale, true
	}
	if len(e.rows) == 0 {
		return PriceScale{}, false
	}
	min, max := e.rows[0].Strike, e.rows[len(e.rows)-1].Strike
	span := max - min
	return PriceScale{Min: min - span*0.1, Max: max + span*0.1}, true
}

// Redraw renders the full chart from cached state: grid first, then price
// history, exposure bars and the spot indicator, each layer only when its
// data is cached. Always starts from a fresh frame, so repeated calls with
// unchanged state produce identical geometry.
func (e *Engine) Redraw() *Frame {
	f := &Frame{Width: e.width, Height: e.height}
	if e.cfg.plotWidth(e.width) <= 0 || e.cfg.plotHeight(e.height) <= 0 {
		// Canvas not laid out yet; nothing sane to draw.
		return f
	}
	e.drawGrid(f)
	scale, ok := e.renderScale()
	if !ok {
		return f
	}
	e.drawPriceScale(f, scale)
	if len(e.history) > 0 {
		e.drawSeries(f, scale)
	}
	if len(e.rows) > 0 {
		e.drawExposure(f, scale)
	}
	if _, ok := e.spot(); ok {
		e.drawCurrentPrice(f, scale)
	}
	return f
}

// drawGrid draws the five dashed horizontal gridlines and the two axis
// lines. This is the entire empty-state render.
func (e *Engine) drawGrid(f *Frame) {
	cfg := e.cfg
	usableH := cfg.plotHeight(e.height)
	right := cfg.axisX(e.width)
	for i := 0; i < 5; i++ {
		y := cfg.MarginTop + float64(i)*usableH/4
		f.Lines = append(f.Lines, Line{
			X1: cfg.MarginLeft, Y1: y, X2: right, Y2: y,
			Width: 1, Color: colorGrid, Dash: dashGrid,
		})
	}
	bottom := e.height - cfg.MarginBottom
	f.Lines = append(f.Lines,
		Line{X1: cfg.MarginLeft, Y1: bottom, X2: right, Y2: bottom, Width: 1, Color: colorAxis},
		Line{X1: right, Y1: cfg.MarginTop, X2: right, Y2: bottom, Width: 1, Color: colorAxis},
	)
}
