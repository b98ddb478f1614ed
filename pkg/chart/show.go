package chart

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// AppID identifies the chart application to Fyne.
const AppID = "com.itohio.thermplot"

const defaultWindowTitle = "thermplot"

// NewWindow creates a window on a showing w.
func NewWindow(a fyne.App, w *Widget) fyne.Window {
	opts := w.Options()

	title := opts.Title
	if title == "" {
		title = defaultWindowTitle
	}

	window := a.NewWindow(title)
	window.Resize(fyne.NewSize(opts.Width, opts.Height))
	window.CenterOnScreen()
	window.SetContent(w)
	return window
}

// Show plots ys against xs in a new window and blocks until the window is
// closed. It fails only if the series lengths differ; failing to open a
// display is fatal inside Fyne.
func Show(xs, ys []float64, opts Options) error {
	w := New(opts)
	if err := w.SetData(xs, ys); err != nil {
		return err
	}

	a := app.NewWithID(AppID)
	NewWindow(a, w).ShowAndRun()
	return nil
}
