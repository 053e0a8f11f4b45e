// Package chart renders a CoV histogram to files: a static image through
// gonum/plot and an interactive HTML page through go-echarts.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
)

// Image dimensions.
const (
	ImageWidth  = 10 * vg.Inch
	ImageHeight = 6 * vg.Inch
)

// ImageExtensions are the output formats gonum/plot can write, keyed by
// file extension.
var ImageExtensions = []string{".eps", ".jpg", ".jpeg", ".pdf", ".png", ".svg", ".tex", ".tif", ".tiff"}

// SupportedImage reports whether path has an extension SaveImage can write.
func SupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Labels are the titles used by both renderers.
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

// DefaultLabels returns the labels for a CoV distribution.
func DefaultLabels() Labels {
	return Labels{
		Title:  "Histogram of repeated RD-cost CoV",
		XLabel: "Coefficient of variation (log)",
		YLabel: "Fraction of parameter groups (cumulative)",
	}
}

var barFill = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// NewPlot builds the cumulative histogram plot: log-scaled x axis, y axis
// from 0% to 100%.
func NewPlot(h *histogram.Histogram, labels Labels) (*plot.Plot, error) {
	if h == nil || len(h.Bins) == 0 {
		return nil, histogram.ErrNoValues
	}

	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.XLabel
	p.Y.Label.Text = labels.YLabel

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Min = h.Floor
	p.X.Max = h.Max
	if h.Max <= h.Floor {
		// A single degenerate bin still needs a positive-width axis.
		p.X.Max = h.Floor * 10
	}

	p.Y.Min = 0
	p.Y.Max = 1
	p.Y.Tick.Marker = percentTicks{}

	bins := make([]plotter.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Cumulative}
	}
	if bins[0].Max <= bins[0].Min {
		bins[0].Max = p.X.Max
	}

	hist := &plotter.Histogram{
		Bins:      bins,
		FillColor: barFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	hist.LineStyle.Width = vg.Points(0.5)

	p.Add(plotter.NewGrid())
	p.Add(hist)

	return p, nil
}

// SaveImage renders h to path. The format follows the file extension.
func SaveImage(h *histogram.Histogram, labels Labels, path string) error {
	if !SupportedImage(path) {
		return fmt.Errorf("unsupported image format %q (want one of %s)",
			filepath.Ext(path), strings.Join(ImageExtensions, ", "))
	}

	p, err := NewPlot(h, labels)
	if err != nil {
		return err
	}

	if err := p.Save(ImageWidth, ImageHeight, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

// percentTicks labels a [0, 1] axis as percentages.
type percentTicks struct{}

func (percentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value*100)
	}
	return ticks
}
