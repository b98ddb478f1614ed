package chart

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"
)

const (
	marginLeft   = float32(70)
	marginRight  = float32(20)
	marginTop    = float32(30)
	marginBottom = float32(50)

	numHLines = 8
	numVLines = 10
)

var (
	gridColor   = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
	axisColor   = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
	textColor   = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	markerColor = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
)

// chartRenderer renders the chart widget.
type chartRenderer struct {
	chart *Widget

	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

// plotArea maps data coordinates to pixel positions.
type plotArea struct {
	x, y, width, height    float32
	xMin, xMax, yMin, yMax float64
}

func (p plotArea) pos(x, y float64) fyne.Position {
	px := p.x + float32((x-p.xMin)/(p.xMax-p.xMin))*p.width
	py := p.y + p.height - float32((y-p.yMin)/(p.yMax-p.yMin))*p.height
	// Keep points that autoscale cannot cover (e.g. a marker) on the plot.
	px = math32.Min(math32.Max(px, p.x), p.x+p.width)
	py = math32.Min(math32.Max(py, p.y), p.y+p.height)
	return fyne.NewPos(px, py)
}

// MinSize returns the minimum size of the widget.
func (r *chartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *chartRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.rebuild(size)
}

// Refresh updates the widget display.
func (r *chartRenderer) Refresh() {
	r.rebuild(r.chart.Size())
	for _, o := range r.objects {
		o.Refresh()
	}
}

// Objects returns all canvas objects for rendering.
func (r *chartRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *chartRenderer) Destroy() {}

// rebuild recreates the canvas objects for the given size.
func (r *chartRenderer) rebuild(size fyne.Size) {
	r.objects = []fyne.CanvasObject{r.background}
	if size.Width <= marginLeft+marginRight || size.Height <= marginTop+marginBottom {
		return
	}

	c := r.chart
	c.mu.RLock()
	xs := c.displayXs
	ys := c.displayYs
	marker, markerX, markerY, markerText := c.marker, c.markerX, c.markerY, c.markerText
	area := plotArea{
		x:      marginLeft,
		y:      marginTop,
		width:  size.Width - marginLeft - marginRight,
		height: size.Height - marginTop - marginBottom,
		xMin:   c.xMin,
		xMax:   c.xMax,
		yMin:   c.yMin,
		yMax:   c.yMax,
	}
	opts := c.opts
	c.mu.RUnlock()

	r.drawGrid(area)
	r.drawAxisLabels(area, opts)
	r.drawSeries(area, xs, ys, opts.Color)
	if marker {
		r.drawMarker(area, markerX, markerY, markerText)
	}
}

// drawGrid draws grid lines with tick values and the plot frame.
func (r *chartRenderer) drawGrid(a plotArea) {
	for i := 0; i < numHLines+1; i++ {
		y := a.y + float32(i)*a.height/float32(numHLines)
		r.addLine(gridColor, 1, fyne.NewPos(a.x, y), fyne.NewPos(a.x+a.width, y))

		value := a.yMax - float64(i)*(a.yMax-a.yMin)/float64(numHLines)
		text := canvas.NewText(formatTick(value), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(a.x-55, y-7))
		text.Resize(fyne.NewSize(50, 14))
		r.objects = append(r.objects, text)
	}

	for i := 0; i < numVLines+1; i++ {
		x := a.x + float32(i)*a.width/float32(numVLines)
		r.addLine(gridColor, 1, fyne.NewPos(x, a.y), fyne.NewPos(x, a.y+a.height))

		value := a.xMin + float64(i)*(a.xMax-a.xMin)/float64(numVLines)
		text := canvas.NewText(formatTick(value), textColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-25, a.y+a.height+4))
		text.Resize(fyne.NewSize(50, 14))
		r.objects = append(r.objects, text)
	}

	// Frame
	r.addLine(axisColor, 1, fyne.NewPos(a.x, a.y+a.height), fyne.NewPos(a.x+a.width, a.y+a.height))
	r.addLine(axisColor, 1, fyne.NewPos(a.x, a.y), fyne.NewPos(a.x, a.y+a.height))
}

// drawAxisLabels draws the x label under the plot and the y label above the y axis.
func (r *chartRenderer) drawAxisLabels(a plotArea, opts Options) {
	if opts.XLabel != "" {
		text := canvas.NewText(opts.XLabel, textColor)
		text.TextSize = 12
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(a.x, a.y+a.height+24))
		text.Resize(fyne.NewSize(a.width, 16))
		r.objects = append(r.objects, text)
	}
	if opts.YLabel != "" {
		text := canvas.NewText(opts.YLabel, textColor)
		text.TextSize = 12
		text.Alignment = fyne.TextAlignLeading
		text.Move(fyne.NewPos(4, 6))
		r.objects = append(r.objects, text)
	}
}

// drawSeries draws the curve as connected line segments.
func (r *chartRenderer) drawSeries(a plotArea, xs, ys []float64, c color.Color) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return
	}

	prev := a.pos(xs[0], ys[0])
	for i := 1; i < n; i++ {
		next := a.pos(xs[i], ys[i])
		r.addLine(c, 1.5, prev, next)
		prev = next
	}
}

// drawMarker draws a highlighted point with its label.
func (r *chartRenderer) drawMarker(a plotArea, x, y float64, label string) {
	const radius = float32(4)

	p := a.pos(x, y)
	dot := canvas.NewCircle(markerColor)
	dot.Move(fyne.NewPos(p.X-radius, p.Y-radius))
	dot.Resize(fyne.NewSize(2*radius, 2*radius))
	r.objects = append(r.objects, dot)

	if label != "" {
		text := canvas.NewText(label, markerColor)
		text.TextSize = 11
		text.Alignment = fyne.TextAlignLeading
		// Flip the label to the left near the right edge, keeping it inside the plot.
		width := fyne.MeasureText(label, text.TextSize, text.TextStyle).Width
		lx := p.X + 8
		if lx+width > a.x+a.width {
			lx = math32.Max(p.X-8-width, a.x)
		}
		text.Move(fyne.NewPos(lx, math32.Max(p.Y-18, a.y)))
		r.objects = append(r.objects, text)
	}
}

func (r *chartRenderer) addLine(c color.Color, width float32, from, to fyne.Position) {
	line := canvas.NewLine(c)
	line.Position1 = from
	line.Position2 = to
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// formatTick formats an axis value with four significant digits.
func formatTick(v float64) string {
	if v > -1e-9 && v < 1e-9 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
