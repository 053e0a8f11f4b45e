package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/randomizedcoder/rd-repeatability/internal/histogram"
)

// echartsAssetsHost serves the echarts JavaScript for rendered pages.
const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// RenderHTML writes an interactive bar chart of the cumulative histogram.
// Each bar is labelled with its upper CoV edge; the value is the
// cumulative percentage of groups.
func RenderHTML(w io.Writer, h *histogram.Histogram, labels Labels, subtitle string) error {
	if h == nil || len(h.Bins) == 0 {
		return histogram.ErrNoValues
	}

	x := make([]string, len(h.Bins))
	y := make([]opts.BarData, len(h.Bins))
	for i, b := range h.Bins {
		x[i] = strconv.FormatFloat(b.Max, 'g', 4, 64)
		y[i] = opts.BarData{
			Name:  fmt.Sprintf("[%g, %g]: %d groups", b.Min, b.Max, b.Count),
			Value: roundPercent(b.Cumulative),
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: labels.Title, Width: "100%", Height: "720px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: labels.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: labels.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: labels.YLabel, Min: 0, Max: 100, AxisLabel: &opts.AxisLabel{Formatter: "{value}%"}}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	bar.SetXAxis(x).AddSeries("cumulative", y)

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsHost)
	page.AddCharts(bar)

	return page.Render(w)
}

// SaveHTML renders the chart to path.
func SaveHTML(h *histogram.Histogram, labels Labels, subtitle, path string) error {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, h, labels, subtitle); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing chart %s: %w", path, err)
	}
	return nil
}

func roundPercent(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f*100, 'f', 3, 64), 64)
	return v
}
