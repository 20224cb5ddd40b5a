package main

import (
	"image/color"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

type gestureMode int

const (
	gestureNone gestureMode = iota
	gestureDrag
	gestureZoom
)

// gestureOverlay sits on top of the chart image and translates mouse input
// into viewport gestures. Plain drags on the axis margins pan or stretch,
// Ctrl-drags zoom, a double tap resets the view.
type gestureOverlay struct {
	widget.BaseWidget
	state *uiState
	mode  gestureMode
}

func newGestureOverlay(state *uiState) *gestureOverlay {
	g := &gestureOverlay{state: state}
	g.ExtendBaseWidget(g)
	return g
}

func (g *gestureOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background to ensure a full hit-area for mouse events
	bg := canvas.NewRectangle(color.RGBA{})
	return &gestureRenderer{bg: bg}
}

func (g *gestureOverlay) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x := float64(ev.Position.X)
	y := float64(ev.Position.Y)
	if ev.Modifier&fyne.KeyModifierControl != 0 {
		if g.state.engine.BeginZoom(x, y) {
			g.mode = gestureZoom
		}
		return
	}
	if g.state.engine.BeginDrag(x, y) {
		g.mode = gestureDrag
	}
}

func (g *gestureOverlay) MouseUp(ev *desktop.MouseEvent) {
	switch g.mode {
	case gestureDrag:
		g.state.engine.EndDrag()
	case gestureZoom:
		g.state.engine.EndZoom()
	}
	g.mode = gestureNone
}

func (g *gestureOverlay) MouseMoved(ev *desktop.MouseEvent) {
	x := float64(ev.Position.X)
	y := float64(ev.Position.Y)
	var changed bool
	switch g.mode {
	case gestureDrag:
		changed = g.state.engine.DragTo(x, y)
	case gestureZoom:
		changed = g.state.engine.ZoomTo(x, y)
	default:
		return
	}
	if changed {
		redrawChart(g.state)
	}
}

func (g *gestureOverlay) MouseIn(ev *desktop.MouseEvent) {}

func (g *gestureOverlay) MouseOut() {
	// Leaving the widget mid-gesture ends it; MouseUp outside would
	// otherwise never reach us.
	g.MouseUp(nil)
}

func (g *gestureOverlay) DoubleTapped(ev *fyne.PointEvent) {
	g.state.engine.ResetView()
	redrawChart(g.state)
}

var (
	_ desktop.Mouseable   = (*gestureOverlay)(nil)
	_ desktop.Hoverable   = (*gestureOverlay)(nil)
	_ fyne.DoubleTappable = (*gestureOverlay)(nil)
)

type gestureRenderer struct {
	bg *canvas.Rectangle
}

func (r *gestureRenderer) Destroy() {}
func (r *gestureRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
}
func (r *gestureRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *gestureRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.bg} }
func (r *gestureRenderer) Refresh()                     { r.bg.Refresh() }
