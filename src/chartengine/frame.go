package chartengine

import "github.com/wcharczuk/go-chart/v2/drawing"

// The engine draws into a Frame, an explicit display list. The rasterizer
// turns a Frame into pixels; tests compare Frames directly.

// Align positions a label relative to its anchor point.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Line is a single stroked segment. Dash is nil for solid lines.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          drawing.Color
	Dash           []float64
}

// Polyline is a connected stroked path.
type Polyline struct {
	Xs, Ys []float64
	Width  float64
	Color  drawing.Color
}

// Rect is an axis-aligned filled rectangle.
type Rect struct {
	X1, Y1, X2, Y2 float64
	Fill           drawing.Color
}

// Label is a text primitive anchored at (X, Y) baseline.
type Label struct {
	X, Y  float64
	Text  string
	Color drawing.Color
	Align Align
}

// Frame is one complete redraw of the chart.
type Frame struct {
	Width, Height float64

	Lines     []Line
	Polylines []Polyline
	Rects     []Rect
	Labels    []Label
}

// Chart palette, matching the classic white-background layout.
var (
	colorGrid    = drawing.Color{R: 211, G: 211, B: 211, A: 255}
	colorAxis    = drawing.ColorBlack
	colorText    = drawing.ColorBlack
	colorBid     = drawing.ColorRed
	colorAsk     = drawing.ColorGreen
	colorSpot    = drawing.ColorBlue
	colorCallBar = drawing.Color{R: 0x90, G: 0xEE, B: 0x90, A: 255}
	colorPutBar  = drawing.Color{R: 0xFF, G: 0xB6, B: 0xC6, A: 255}
)

var (
	dashGrid = []float64{2, 2}
	dashSpot = []float64{4, 4}
)
