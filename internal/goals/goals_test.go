package goals

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildChartFixture(t *testing.T) {
	g := InitialGoals()[0]
	chart := BuildChart(g, ActualsFor(g))

	wantLabels := []string{"2023-01-01", "2023-03-01", "2023-06-01", "2023-09-01", "2023-12-31"}
	if diff := cmp.Diff(wantLabels, chart.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	planned, ok := chart.Series(SeriesPlanned)
	if !ok {
		t.Fatal("planned series missing")
	}
	if diff := cmp.Diff([]string{"0", "20", "50", "80", "100"}, planned.Data); diff != "" {
		t.Errorf("planned mismatch (-want +got):\n%s", diff)
	}

	actual, ok := chart.Series(SeriesActual)
	if !ok {
		t.Fatal("actual series missing")
	}
	if diff := cmp.Diff([]string{"0", "", "", "", "100"}, actual.Data); diff != "" {
		t.Errorf("actual mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildChartLengths(t *testing.T) {
	for k := 0; k < 6; k++ {
		g := NewGoal(1, "n", "d")
		for i := 0; i < k; i++ {
			g.Waypoints = append(g.Waypoints, NewWaypoint("1", "2024-01-01"))
		}
		chart := BuildChart(g, ActualsFor(g))
		if len(chart.Labels) != k+2 {
			t.Errorf("k=%d: labels length = %d, want %d", k, len(chart.Labels), k+2)
		}
		for _, d := range chart.Datasets {
			if len(d.Data) != k+2 {
				t.Errorf("k=%d: %s length = %d, want %d", k, d.Label, len(d.Data), k+2)
			}
		}
	}
}

func TestBuildChartShortActuals(t *testing.T) {
	g := InitialGoals()[1]
	chart := BuildChart(g, nil)
	actual, _ := chart.Series(SeriesActual)
	if len(actual.Data) != 5 {
		t.Fatalf("actual length = %d, want 5", len(actual.Data))
	}
	if actual.Data[0] != "10" || actual.Data[4] != "200" {
		t.Errorf("actual endpoints = %q, %q", actual.Data[0], actual.Data[4])
	}
}

func TestPointsNonNumeric(t *testing.T) {
	chart := ChartData{
		Labels:   []string{"a", "b", "c"},
		Datasets: []Dataset{{Label: SeriesActual, Data: []string{"1.5", "abc", ""}}},
	}
	pts := chart.Points(SeriesActual)
	if pts[0] != 1.5 {
		t.Errorf("pts[0] = %v, want 1.5", pts[0])
	}
	if !math.IsNaN(pts[1]) || !math.IsNaN(pts[2]) {
		t.Errorf("expected NaN for non-numeric values, got %v", pts)
	}
	if chart.Points("missing") != nil {
		t.Error("expected nil for unknown series")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	g := InitialGoals()[0]
	c := g.Clone()
	c.Waypoints[0].Score = "999"
	c.Period.Start = "2000-01-01"
	if g.Waypoints[0].Score != "20" {
		t.Errorf("original waypoint mutated: %q", g.Waypoints[0].Score)
	}
	if g.Period.Start != "2023-01-01" {
		t.Errorf("original period mutated: %q", g.Period.Start)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(InitialGoals()); got != 3 {
		t.Errorf("NextID = %d, want 3", got)
	}
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(nil) = %d, want 1", got)
	}
}

func TestAlignActuals(t *testing.T) {
	g := InitialGoals()[0]
	stored := ActualsFor(g)
	stored[0].ActualScore = "15"
	stored[2].ActualScore = "70"

	t.Run("by id after reorder", func(t *testing.T) {
		reordered := g.Clone()
		reordered.Waypoints[0], reordered.Waypoints[2] = reordered.Waypoints[2], reordered.Waypoints[0]
		got := AlignActuals(reordered, stored)
		if got[0].ActualScore != "70" || got[2].ActualScore != "15" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("positional for legacy entries", func(t *testing.T) {
		legacy := []ActualEntry{
			{Date: "2023-03-01", Score: "20", ActualScore: "18"},
			{Date: "2023-06-01", Score: "50", ActualScore: ""},
			{Date: "2023-09-01", Score: "80", ActualScore: "81"},
		}
		got := AlignActuals(g, legacy)
		if got[0].ActualScore != "18" || got[2].ActualScore != "81" {
			t.Errorf("got %+v", got)
		}
		if got[0].WaypointID != g.Waypoints[0].ID {
			t.Errorf("waypoint id not adopted: %q", got[0].WaypointID)
		}
	})

	t.Run("missing entries are empty", func(t *testing.T) {
		got := AlignActuals(g, nil)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		for i, a := range got {
			if a.ActualScore != "" || a.Date != g.Waypoints[i].Date {
				t.Errorf("entry %d = %+v", i, a)
			}
		}
	})
}

func TestParseSeed(t *testing.T) {
	data := []byte(`[
		// comment lines are fine
		{
			"name": "Run 10k",
			"description": "spring race",
			"period": {"start": "2024-03-01", "end": "2024-06-01"},
			"goalScore": "10",
			"startPoint": "2",
			"waypoints": [{"score": "5", "date": "2024-04-01"},],
		},
		{"id": 7, "name": "Read", "description": "books"},
	]`)
	list, err := ParseSeed(data)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != 1 || list[1].ID != 7 {
		t.Errorf("ids = %d, %d", list[0].ID, list[1].ID)
	}
	if list[0].Waypoints[0].ID == "" {
		t.Error("waypoint id not assigned")
	}
	if list[1].Waypoints == nil {
		t.Error("waypoints should be an empty slice")
	}

	if _, err := ParseSeed([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed seed")
	}
}
