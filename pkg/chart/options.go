package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/itohio/thermplot/pkg/config"
)

// Options controls how a chart is labelled and drawn.
type Options struct {
	Title     string // Window title; the plot itself carries no title
	XLabel    string
	YLabel    string
	Color     color.Color // Line colour
	Width     float32
	Height    float32
	MaxPoints int // Series are decimated to at most this many points
}

// DefaultOptions returns options for the ADC to voltage curve.
func DefaultOptions() Options {
	return Options{
		XLabel:    "adc values",
		YLabel:    "voltages",
		Color:     color.NRGBA{R: 0, G: 0, B: 255, A: 255},
		Width:     1000,
		Height:    700,
		MaxPoints: 1000,
	}
}

// OptionsFromConfig builds Options from the chart section of the configuration.
func OptionsFromConfig(cfg config.ChartConfig) (Options, error) {
	opts := DefaultOptions()
	opts.Title = cfg.Title
	if cfg.XLabel != "" {
		opts.XLabel = cfg.XLabel
	}
	if cfg.YLabel != "" {
		opts.YLabel = cfg.YLabel
	}
	if cfg.Width > 0 {
		opts.Width = cfg.Width
	}
	if cfg.Height > 0 {
		opts.Height = cfg.Height
	}
	if cfg.MaxPoints > 0 {
		opts.MaxPoints = cfg.MaxPoints
	}
	if cfg.Color != "" {
		c, err := ParseColor(cfg.Color)
		if err != nil {
			return Options{}, err
		}
		opts.Color = c
	}
	return opts, nil
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: missing '#'", s)
	}

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected 3 or 6 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
