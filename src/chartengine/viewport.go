package chartengine

import "math"

// Zoom clamp range shared by both axes.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

const (
	// dragPanFactor damps vertical pan drags.
	dragPanFactor = 0.05
	// dragZoomFactor converts horizontal drag pixels into zoom delta.
	dragZoomFactor = 0.01
	// zoomResponse is the divisor of the exponential zoom-gesture response.
	zoomResponse = 200.0
)

type dragAxis uint8

const (
	axisNone dragAxis = iota
	axisPrice
	axisTime
)

// gestureState tracks an in-progress drag or zoom: last pointer position
// and which axis margin the gesture started on.
type gestureState struct {
	x, y float64
	axis dragAxis
}

// Viewport holds pan/zoom state. It persists across redraws and is mutated
// only by gesture handlers.
type Viewport struct {
	VerticalZoom   float64
	HorizontalZoom float64
	PriceOffset    float64

	drag *gestureState
	zoom *gestureState
}

// NewViewport returns the neutral viewport (no zoom, no offset).
func NewViewport() Viewport {
	return Viewport{VerticalZoom: 1.0, HorizontalZoom: 1.0}
}

// Reset restores the neutral viewport. Any in-progress gesture is dropped.
func (v *Viewport) Reset() {
	v.VerticalZoom = 1.0
	v.HorizontalZoom = 1.0
	v.PriceOffset = 0.0
	v.drag = nil
	v.zoom = nil
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// hitAxis maps a pointer position onto the axis margin it falls in. The
// right margin (price scale plus strike labels) manipulates the price axis,
// the bottom margin the time axis.
func hitAxis(x, y, width, height float64, cfg Config) dragAxis {
	if width-x <= cfg.MarginRight+cfg.StrikeMargin {
		return axisPrice
	}
	if y > height-cfg.MarginBottom {
		return axisTime
	}
	return axisNone
}

// BeginDrag starts a pan gesture. Returns false when the position hits no
// draggable margin.
func (v *Viewport) BeginDrag(x, y, width, height float64, cfg Config) bool {
	axis := hitAxis(x, y, width, height, cfg)
	if axis == axisNone {
		return false
	}
	v.drag = &gestureState{x: x, y: y, axis: axis}
	return true
}

// DragTo advances an active pan gesture and reports whether state changed.
func (v *Viewport) DragTo(x, y float64) bool {
	g := v.drag
	if g == nil {
		return false
	}
	switch g.axis {
	case axisPrice:
		dy := (y - g.y) * dragPanFactor
		v.PriceOffset += dy * v.VerticalZoom
		g.y = y
	case axisTime:
		dx := x - g.x
		v.HorizontalZoom = clampZoom(v.HorizontalZoom + dx*dragZoomFactor)
		g.x = x
	}
	return true
}

// EndDrag finishes a pan gesture.
func (v *Viewport) EndDrag() { v.drag = nil }

// BeginZoom starts a zoom gesture (modified drag on an axis margin).
func (v *Viewport) BeginZoom(x, y, width, height float64, cfg Config) bool {
	axis := hitAxis(x, y, width, height, cfg)
	if axis == axisNone {
		return false
	}
	v.zoom = &gestureState{x: x, y: y, axis: axis}
	return true
}

// ZoomTo advances an active zoom gesture. The response is exponential in
// the drag delta so repeated small drags compose multiplicatively.
func (v *Viewport) ZoomTo(x, y float64) bool {
	g := v.zoom
	if g == nil {
		return false
	}
	switch g.axis {
	case axisPrice:
		dy := y - g.y
		v.VerticalZoom = clampZoom(v.VerticalZoom * math.Exp(-dy/zoomResponse))
	case axisTime:
		dx := x - g.x
		v.HorizontalZoom = clampZoom(v.HorizontalZoom * math.Exp(dx/zoomResponse))
	}
	g.x, g.y = x, y
	return true
}

// EndZoom finishes a zoom gesture.
func (v *Viewport) EndZoom() { v.zoom = nil }
