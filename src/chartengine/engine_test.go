package chartengine

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(DefaultConfig())
	if !e.Resize(testW, testH) {
		t.Fatalf("first resize should report a change")
	}
	return e
}

func tradeHistory(n int, base float64) []PriceSample {
	t0 := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	out := make([]PriceSample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Trade(t0.Add(time.Duration(i)*time.Minute), base+float64(i)))
	}
	return out
}

func sampleRows() []ExposureRow {
	return []ExposureRow{
		{Strike: 5000, Call: &SideMetrics{Delta: 0.5, OpenInterest: 200, Volume: 40}},
		{Strike: 4900, Put: &SideMetrics{Delta: -0.5, OpenInterest: 100, Volume: 20}},
	}
}

func TestRedrawEmptyStateIsGridOnly(t *testing.T) {
	e := newTestEngine(t)
	f := e.Redraw()
	if len(f.Lines) != 7 {
		t.Fatalf("empty state should draw 5 gridlines + 2 axis lines, got %d", len(f.Lines))
	}
	if len(f.Labels) != 0 || len(f.Rects) != 0 || len(f.Polylines) != 0 {
		t.Fatalf("empty state must not draw data layers: %+v", f)
	}
}

func TestRedrawDegenerateCanvas(t *testing.T) {
	e := New(DefaultConfig())
	e.Resize(100, 50) // smaller than the margins
	e.PushPriceHistory(tradeHistory(10, 5000))
	f := e.Redraw()
	if len(f.Lines)+len(f.Labels)+len(f.Rects)+len(f.Polylines) != 0 {
		t.Fatalf("degenerate canvas must yield an empty frame")
	}
}

func TestRedrawIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	e.PushPriceHistory(tradeHistory(20, 5000))
	e.PushOptionsSnapshot(sampleRows(), 5010)
	e.UpdateLiveQuote(5009, 5011)

	a := e.Redraw()
	b := e.Redraw()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated redraws with unchanged state must match")
	}
}

func TestRedrawDataStateCombinations(t *testing.T) {
	history := tradeHistory(20, 5000)
	rows := sampleRows()

	// history only
	e := newTestEngine(t)
	e.PushPriceHistory(history)
	f := e.Redraw()
	if len(f.Polylines) != 2 {
		t.Fatalf("history-only: want bid+ask polylines, got %d", len(f.Polylines))
	}
	if len(f.Rects) != 0 {
		t.Fatalf("history-only: no exposure bars expected")
	}

	// options only: strike range drives the axis
	e = newTestEngine(t)
	e.PushOptionsSnapshot(rows, 0)
	f = e.Redraw()
	if len(f.Rects) != 2 {
		t.Fatalf("options-only: want 2 bars, got %d", len(f.Rects))
	}
	if len(f.Polylines) != 0 {
		t.Fatalf("options-only: no series expected")
	}
	// strikes 4900..5000 expand to [4890, 5010]
	y := PriceToY(5010, PriceScale{Min: 4890, Max: 5010}, e.Viewport(), DefaultConfig(), testH)
	if math.Abs(y-DefaultConfig().MarginTop) > eps {
		t.Fatalf("derived strike scale should span the plot: top=%v", y)
	}

	// both
	e = newTestEngine(t)
	e.PushPriceHistory(history)
	e.PushOptionsSnapshot(rows, 5010)
	f = e.Redraw()
	if len(f.Polylines) != 2 || len(f.Rects) != 2 {
		t.Fatalf("both layers expected: polylines=%d rects=%d", len(f.Polylines), len(f.Rects))
	}
}

func TestLiveTickMutatesOnlyLastSample(t *testing.T) {
	e := newTestEngine(t)
	history := tradeHistory(10, 5000)
	e.PushPriceHistory(history)
	before := e.Redraw()

	e.UpdateLiveQuote(5001, 5002)
	after := e.Redraw()

	if len(e.history) != 10 {
		t.Fatalf("tick must not append samples: got %d", len(e.history))
	}
	if got := e.history[9].Close; math.Abs(got-5001.5) > eps {
		t.Fatalf("last trade sample should take the mid: got %v", got)
	}
	for i := 0; i < 9; i++ {
		if e.history[i].Close != history[i].Close {
			t.Fatalf("sample %d mutated by live tick", i)
		}
	}

	// The spot indicator appears at the mid of the new quote.
	spotLine := after.Lines[len(after.Lines)-1]
	wantY := PriceToY(5001.5, e.scale, e.Viewport(), DefaultConfig(), testH)
	if math.Abs(spotLine.Y1-wantY) > eps || spotLine.Dash == nil {
		t.Fatalf("spot line misplaced: y=%v want %v", spotLine.Y1, wantY)
	}
	if reflect.DeepEqual(before, after) {
		t.Fatalf("tick should have changed the frame")
	}
}

func TestLiveTickKeepsScaleBounds(t *testing.T) {
	e := newTestEngine(t)
	e.PushPriceHistory(tradeHistory(10, 5000))
	scale := e.scale
	e.UpdateLiveQuote(9999, 10001)
	if e.scale != scale {
		t.Fatalf("live tick must not recompute scale bounds")
	}
}

func TestQuoteHistoryTickUpdatesBidAsk(t *testing.T) {
	e := newTestEngine(t)
	t0 := time.Now()
	e.PushPriceHistory([]PriceSample{Quote(t0, 5000, 5001), Quote(t0.Add(time.Minute), 5000.5, 5001.5)})
	e.UpdateLiveQuote(5002, 5003)
	last := e.history[1]
	if last.Bid != 5002 || last.Ask != 5003 {
		t.Fatalf("quote sample should take the raw bid/ask: %+v", last)
	}
}

func TestFormulaSwitchRescalesWithoutNewData(t *testing.T) {
	e := newTestEngine(t)
	e.PushOptionsSnapshot(sampleRows(), 5000)

	e.SetFormula(FormulaOI)
	oiFrame := e.Redraw()
	e.SetFormula(FormulaVOI)
	voiFrame := e.Redraw()

	if reflect.DeepEqual(oiFrame.Rects, voiFrame.Rects) {
		t.Fatalf("switching formula must change bar geometry")
	}
	if e.Formula() != FormulaVOI {
		t.Fatalf("formula not recorded")
	}
}

func TestHorizontalZoomNarrowsVisibleWindow(t *testing.T) {
	e := newTestEngine(t)
	e.PushPriceHistory(tradeHistory(8, 5000))

	// Drag the bottom margin 50px right: zoom 1.0 -> 1.5.
	if !e.BeginDrag(500, 580) {
		t.Fatalf("bottom margin drag should start")
	}
	e.DragTo(550, 580)
	e.EndDrag()

	f := e.Redraw()
	if len(f.Polylines) != 2 {
		t.Fatalf("want 2 polylines, got %d", len(f.Polylines))
	}
	if n := len(f.Polylines[0].Xs); n != 5 {
		t.Fatalf("zoom 1.5 over 8 samples should show 5: got %d", n)
	}
}

func TestPushOptionsSnapshotSortsAndSetsSpot(t *testing.T) {
	e := newTestEngine(t)
	e.PushOptionsSnapshot(sampleRows(), 4950)
	if e.rows[0].Strike != 4900 || e.rows[1].Strike != 5000 {
		t.Fatalf("rows must sort ascending: %+v", e.rows)
	}
	spot, ok := e.spot()
	if !ok || spot != 4950 {
		t.Fatalf("snapshot spot not recorded: %v %v", spot, ok)
	}
}

func TestPushPriceHistoryCopies(t *testing.T) {
	e := newTestEngine(t)
	samples := tradeHistory(5, 5000)
	e.PushPriceHistory(samples)
	samples[0].Close = 1
	if e.history[0].Close == 1 {
		t.Fatalf("engine must own its history copy")
	}
}

func TestResetViewAfterGestures(t *testing.T) {
	e := newTestEngine(t)
	e.PushPriceHistory(tradeHistory(8, 5000))
	base := e.Redraw()

	e.BeginDrag(950, 300)
	e.DragTo(950, 400)
	e.EndDrag()
	if reflect.DeepEqual(base, e.Redraw()) {
		t.Fatalf("pan should change the frame")
	}

	e.ResetView()
	if !reflect.DeepEqual(base, e.Redraw()) {
		t.Fatalf("reset must restore the original frame")
	}
}
