package chart

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Widget is a custom Fyne widget that draws a single x/y line series.
type Widget struct {
	widget.BaseWidget

	opts Options

	// Data (protected by mu)
	mu sync.RWMutex
	xs []float64
	ys []float64

	// Display buffers (reused for decimation)
	displayXs []float64
	displayYs []float64

	// Optional highlighted point, e.g. the latest live reading
	marker     bool
	markerX    float64
	markerY    float64
	markerText string

	// Axis ranges
	xMin, xMax float64
	yMin, yMax float64
}

// New creates a new chart Widget.
func New(opts Options) *Widget {
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultOptions().MaxPoints
	}
	if opts.Color == nil {
		opts.Color = DefaultOptions().Color
	}

	w := &Widget{
		opts:      opts,
		displayXs: make([]float64, 0, opts.MaxPoints),
		displayYs: make([]float64, 0, opts.MaxPoints),
	}
	w.ExtendBaseWidget(w)
	w.mu.Lock()
	w.updateScale()
	w.mu.Unlock()
	return w
}

// Options returns the options the widget was created with.
func (w *Widget) Options() Options {
	return w.opts
}

// SetData replaces the plotted series. xs and ys must have equal length.
func (w *Widget) SetData(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("series length mismatch: %d x values, %d y values", len(xs), len(ys))
	}

	w.mu.Lock()
	w.xs = xs
	w.ys = ys
	w.displayXs = Downsample(w.displayXs, xs, w.opts.MaxPoints)
	w.displayYs = Downsample(w.displayYs, ys, w.opts.MaxPoints)
	w.updateScale()
	w.mu.Unlock()

	w.Refresh()
	return nil
}

// SetMarker highlights a single point with a text label.
// Call from the Fyne main thread (fyne.Do) when updating from a goroutine.
func (w *Widget) SetMarker(x, y float64, label string) {
	w.mu.Lock()
	w.marker = true
	w.markerX = x
	w.markerY = y
	w.markerText = label
	w.mu.Unlock()

	w.Refresh()
}

// ClearMarker removes the highlighted point.
func (w *Widget) ClearMarker() {
	w.mu.Lock()
	w.marker = false
	w.markerText = ""
	w.mu.Unlock()

	w.Refresh()
}

// Len returns the number of points in the full series.
func (w *Widget) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.xs)
}

// Ranges returns the current axis ranges.
func (w *Widget) Ranges() (xMin, xMax, yMin, yMax float64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.xMin, w.xMax, w.yMin, w.yMax
}

// updateScale calculates axis ranges from the full series. Caller holds mu.
func (w *Widget) updateScale() {
	if len(w.xs) == 0 {
		w.xMin, w.xMax = 0, 1
		w.yMin, w.yMax = 0, 1
		return
	}

	w.xMin, w.xMax = math.Inf(1), math.Inf(-1)
	w.yMin, w.yMax = math.Inf(1), math.Inf(-1)
	for i := range w.xs {
		x, y := w.xs[i], w.ys[i]
		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		w.xMin = math.Min(w.xMin, x)
		w.xMax = math.Max(w.xMax, x)
		w.yMin = math.Min(w.yMin, y)
		w.yMax = math.Max(w.yMax, y)
	}

	if math.IsInf(w.xMin, 1) {
		// Nothing finite to plot
		w.xMin, w.xMax = 0, 1
		w.yMin, w.yMax = 0, 1
		return
	}
	if w.xMax == w.xMin {
		w.xMax = w.xMin + 1
	}

	// Add 10% margin
	span := w.yMax - w.yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	w.yMin -= margin
	w.yMax += margin
}

// CreateRenderer creates the widget renderer.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return &chartRenderer{
		chart:      w,
		background: background,
		objects:    []fyne.CanvasObject{background},
	}
}
