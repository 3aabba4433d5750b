package tui

import (
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"goal-tracker/internal/goals"
)

const (
	chartHeight   = 10
	chartMinWidth = 20
	// Room asciigraph takes for the y-axis labels.
	chartAxisWidth = 10
)

// renderChart draws the planned and actual series as a line chart. Values
// that are not numbers leave a gap. When nothing at all is numeric the chart
// is replaced by a notice.
func renderChart(data goals.ChartData, width int, theme Theme) string {
	planned := data.Points(goals.SeriesPlanned)
	actual := data.Points(goals.SeriesActual)
	if !anyFinite(planned) && !anyFinite(actual) {
		return "(no plottable data)"
	}

	plotWidth := width - chartAxisWidth
	if plotWidth < chartMinWidth {
		plotWidth = chartMinWidth
	}
	step := 1
	if n := len(data.Labels); n > 1 {
		step = max(1, (plotWidth-1)/(n-1))
	}

	graph := asciigraph.PlotMany(
		[][]float64{stretch(planned, step), stretch(actual, step)},
		asciigraph.Height(chartHeight),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
	)

	var b strings.Builder
	b.WriteString(graph)
	b.WriteString("\n")
	b.WriteString(axisLabels(data.Labels))
	b.WriteString("\n")
	b.WriteString(legend(theme))
	return b.String()
}

// stretch spreads points step columns apart and fills the columns between two
// numeric neighbours by linear interpolation. Columns next to a NaN stay NaN.
func stretch(points []float64, step int) []float64 {
	if len(points) == 0 || step <= 1 {
		return points
	}
	out := make([]float64, 0, (len(points)-1)*step+1)
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		for s := 0; s < step; s++ {
			if math.IsNaN(a) || math.IsNaN(b) {
				if s == 0 {
					out = append(out, a)
				} else {
					out = append(out, math.NaN())
				}
				continue
			}
			out = append(out, a+(b-a)*float64(s)/float64(step))
		}
	}
	return append(out, points[len(points)-1])
}

func anyFinite(points []float64) bool {
	for _, p := range points {
		if !math.IsNaN(p) {
			return true
		}
	}
	return false
}

func axisLabels(labels []string) string {
	shown := make([]string, len(labels))
	for i, l := range labels {
		if l == "" {
			l = "?"
		}
		shown[i] = l
	}
	return "x: " + strings.Join(shown, " → ")
}

func legend(theme Theme) string {
	planned := styleFg(theme.PlannedColor).Render("── " + goals.SeriesPlanned)
	actual := styleFg(theme.ActualColor).Render("── " + goals.SeriesActual)
	return planned + "   " + actual
}
