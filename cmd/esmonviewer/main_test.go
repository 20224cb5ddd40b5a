package main

import (
	"image"
	"testing"
	"time"

	"esmon/src/chartengine"
	"esmon/src/ibkr"
)

func TestBarsToSamples(t *testing.T) {
	t0 := time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)
	bars := []ibkr.Bar{
		{Time: t0, Open: 5000, High: 5002, Low: 4999, Close: 5001.5},
		{Time: t0.Add(time.Minute), Close: 5003},
	}
	samples := barsToSamples(bars)
	if len(samples) != 2 {
		t.Fatalf("want 2 samples, got %d", len(samples))
	}
	if samples[0].Kind != chartengine.TradeSample || samples[0].Close != 5001.5 {
		t.Fatalf("bar close not carried: %+v", samples[0])
	}
	if !samples[1].Time.Equal(t0.Add(time.Minute)) {
		t.Fatalf("bar time not carried: %+v", samples[1])
	}
}

func TestChainToRowsPreservesNilSides(t *testing.T) {
	chain := []ibkr.StrikeQuote{
		{Strike: 5000, Call: &ibkr.OptionSide{Delta: 0.5, OpenInterest: 100, Volume: 10}},
		{Strike: 4900, Put: &ibkr.OptionSide{Delta: -0.4, OpenInterest: 200, Volume: 20}},
	}
	rows := chainToRows(chain)
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].Put != nil || rows[1].Call != nil {
		t.Fatalf("missing sides must stay nil")
	}
	if rows[0].Call.Delta != 0.5 || rows[1].Put.OpenInterest != 200 {
		t.Fatalf("side metrics not carried: %+v", rows)
	}
}

func TestOptionMonthFormat(t *testing.T) {
	if got := optionMonth(time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)); got != "AUG25" {
		t.Fatalf("got %q", got)
	}
	if got := optionMonth(time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)); got != "JAN26" {
		t.Fatalf("got %q", got)
	}
}

func TestStampCaption(t *testing.T) {
	src := chartengine.Blank(300, 120)
	out := stampCaption(src, "ES 20250919 exposure=GFL")
	if out == src {
		t.Fatalf("caption should produce a new image")
	}
	if out.Bounds() != src.Bounds() {
		t.Fatalf("caption must not change image size")
	}
	// The caption box darkens pixels near the bottom-left corner.
	rgba, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("expected RGBA output")
	}
	c := rgba.RGBAAt(10, 115)
	if c.R == 255 && c.G == 255 && c.B == 255 {
		t.Fatalf("expected the caption box to cover the corner")
	}
}

func TestStampCaptionEmptyTextIsPassthrough(t *testing.T) {
	src := chartengine.Blank(50, 50)
	if out := stampCaption(src, "   "); out != src {
		t.Fatalf("blank caption should return the original image")
	}
	if out := stampCaption(nil, "text"); out != nil {
		t.Fatalf("nil image passes through")
	}
}
