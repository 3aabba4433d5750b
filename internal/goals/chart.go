package goals

import (
	"math"
	"strconv"
	"strings"
)

// Dataset labels for the two chart series.
const (
	SeriesPlanned = "planned"
	SeriesActual  = "actual"
)

// ChartData is the line chart input: one label per x position and one or
// more series aligned to those labels. The shape matches what Chart.js takes.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string   `json:"label"`
	Data        []string `json:"data"`
	Fill        bool     `json:"fill"`
	BorderColor string   `json:"borderColor"`
	Tension     float64  `json:"tension"`
}

// BuildChart lays out planned and actual progress for a goal. Both series are
// anchored to the goal's start point and goal score at the period ends, so
// every series has len(Waypoints)+2 points.
func BuildChart(g Goal, actuals []ActualEntry) ChartData {
	n := len(g.Waypoints)

	labels := make([]string, 0, n+2)
	planned := make([]string, 0, n+2)
	actual := make([]string, 0, n+2)

	labels = append(labels, g.Period.Start)
	planned = append(planned, g.StartPoint)
	actual = append(actual, g.StartPoint)

	for i, wp := range g.Waypoints {
		labels = append(labels, wp.Date)
		planned = append(planned, wp.Score)
		if i < len(actuals) {
			actual = append(actual, actuals[i].ActualScore)
		} else {
			actual = append(actual, "")
		}
	}

	labels = append(labels, g.Period.End)
	planned = append(planned, g.GoalScore)
	actual = append(actual, g.GoalScore)

	return ChartData{
		Labels: labels,
		Datasets: []Dataset{
			{Label: SeriesPlanned, Data: planned, BorderColor: "rgb(75, 192, 192)", Tension: 0.1},
			{Label: SeriesActual, Data: actual, BorderColor: "rgb(255, 99, 132)", Tension: 0.1},
		},
	}
}

// Series returns the dataset with the given label.
func (c ChartData) Series(label string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.Label == label {
			return d, true
		}
	}
	return Dataset{}, false
}

// Points converts a series for drawing. Values that do not parse as numbers
// come back as NaN so the renderer can leave a gap.
func (c ChartData) Points(label string) []float64 {
	d, ok := c.Series(label)
	if !ok {
		return nil
	}
	out := make([]float64, len(d.Data))
	for i, s := range d.Data {
		out[i] = Plottable(s)
	}
	return out
}

// Plottable parses a stored score. Anything non-numeric is NaN.
func Plottable(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
