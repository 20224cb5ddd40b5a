package chartengine

import (
	"bytes"
	"image"
	"image/color"
	png "image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const labelFontSize = 8

// Rasterize renders a Frame into an image for display. Rendering goes
// through the PNG raster renderer and decodes the result, falling back to a
// blank canvas on any renderer failure so the UI still visibly updates.
func Rasterize(f *Frame) image.Image {
	w, h := int(f.Width), int(f.Height)
	if w < 1 || h < 1 {
		return Blank(1, 1)
	}
	r, err := chart.PNG(w, h)
	if err != nil {
		return Blank(w, h)
	}
	r.SetDPI(chart.DefaultDPI)
	if font, ferr := chart.GetDefaultFont(); ferr == nil {
		r.SetFont(font)
	}

	// White background.
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(w, 0)
	r.LineTo(w, h)
	r.LineTo(0, h)
	r.Close()
	r.Fill()

	// Bars go under the lines, matching the layer order of the frame build.
	for _, rc := range f.Rects {
		r.SetFillColor(rc.Fill)
		r.MoveTo(int(rc.X1), int(rc.Y1))
		r.LineTo(int(rc.X2), int(rc.Y1))
		r.LineTo(int(rc.X2), int(rc.Y2))
		r.LineTo(int(rc.X1), int(rc.Y2))
		r.Close()
		r.Fill()
	}
	for _, ln := range f.Lines {
		r.SetStrokeColor(ln.Color)
		r.SetStrokeWidth(ln.Width)
		r.SetStrokeDashArray(ln.Dash)
		r.MoveTo(int(ln.X1), int(ln.Y1))
		r.LineTo(int(ln.X2), int(ln.Y2))
		r.Stroke()
	}
	for _, pl := range f.Polylines {
		if len(pl.Xs) < 2 {
			continue
		}
		r.SetStrokeColor(pl.Color)
		r.SetStrokeWidth(pl.Width)
		r.SetStrokeDashArray(nil)
		r.MoveTo(int(pl.Xs[0]), int(pl.Ys[0]))
		for i := 1; i < len(pl.Xs); i++ {
			r.LineTo(int(pl.Xs[i]), int(pl.Ys[i]))
		}
		r.Stroke()
	}
	r.SetFontSize(labelFontSize)
	for _, lb := range f.Labels {
		r.SetFontColor(lb.Color)
		x := lb.X
		switch lb.Align {
		case AlignCenter:
			x -= float64(r.MeasureText(lb.Text).Width()) / 2
		case AlignRight:
			x -= float64(r.MeasureText(lb.Text).Width())
		}
		// Label.Y is the anchor midline; Text wants a baseline.
		r.Text(lb.Text, int(x), int(lb.Y)+labelFontSize/2)
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return Blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return Blank(w, h)
	}
	return img
}

// Blank returns a plain white image, used before the first layout pass and
// as the render-failure fallback.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}
