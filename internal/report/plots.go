// Package report renders diagnostics for a cleaning run: a histogram of
// per-window label dominance and a before/after class chart.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/banshee-data/windowclean/internal/windowing"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("report: no data")

// histogramBins covers [0, 1] in 5% steps.
const histogramBins = 20

// WriteDominanceHistogram renders the majority-class share of each window as
// a PNG histogram with a dashed marker at threshold.
func WriteDominanceHistogram(w io.Writer, ratios []float64, threshold float64) error {
	if len(ratios) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Label dominance per window"
	p.X.Label.Text = "majority class share"
	p.Y.Label.Text = "windows"
	p.X.Min, p.X.Max = 0, 1

	h, err := plotter.NewHist(plotter.Values(ratios), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 49, G: 104, B: 142, A: 255}
	p.Add(h)

	var peak float64
	for _, b := range h.Bins {
		peak = max(peak, b.Weight)
	}
	marker, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: peak}})
	if err != nil {
		return fmt.Errorf("failed to build threshold marker: %w", err)
	}
	marker.Color = color.RGBA{R: 200, A: 255}
	marker.Width = vg.Points(1.5)
	marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("ambiguous <= %.2f", threshold), marker)
	p.Legend.Top = true

	img, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	if _, err := img.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write histogram: %w", err)
	}
	return nil
}

// RenderLabelChart writes an HTML bar chart comparing per-class sample counts
// before and after cleaning.
func RenderLabelChart(w io.Writer, title string, before, after map[int]int) error {
	if len(before) == 0 && len(after) == 0 {
		return ErrNoData
	}

	union := make(map[int]int, len(before))
	for c := range before {
		union[c]++
	}
	for c := range after {
		union[c]++
	}
	classes := windowing.SortedClasses(union)

	names := make([]string, len(classes))
	beforeData := make([]opts.BarData, len(classes))
	afterData := make([]opts.BarData, len(classes))
	var removed int
	for i, c := range classes {
		names[i] = strconv.Itoa(c)
		beforeData[i] = opts.BarData{Value: before[c]}
		afterData[i] = opts.BarData{Value: after[c]}
		removed += before[c] - after[c]
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("classes=%d removed samples=%d", len(classes), removed)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "class"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "samples"}),
	)
	bar.SetXAxis(names).
		AddSeries("before", beforeData).
		AddSeries("after", afterData)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render label chart: %w", err)
	}
	return nil
}
