package goals

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// InitialGoals returns the built-in goals shown on first start. They live in
// memory only; a fresh slice is returned on every call.
func InitialGoals() []Goal {
	return []Goal{
		{
			ID:          1,
			Name:        "目標1",
			Description: "Toeic800点",
			Period:      Period{Start: "2023-01-01", End: "2023-12-31"},
			GoalScore:   "100",
			StartPoint:  "0",
			Waypoints: []Waypoint{
				NewWaypoint("20", "2023-03-01"),
				NewWaypoint("50", "2023-06-01"),
				NewWaypoint("80", "2023-09-01"),
			},
		},
		{
			ID:          2,
			Name:        "目標2",
			Description: "プロジェクト完了",
			Period:      Period{Start: "2023-02-01", End: "2023-11-30"},
			GoalScore:   "200",
			StartPoint:  "10",
			Waypoints: []Waypoint{
				NewWaypoint("40", "2023-04-01"),
				NewWaypoint("100", "2023-07-01"),
				NewWaypoint("150", "2023-10-01"),
			},
		},
	}
}

// ParseSeed reads a JSONC array of goals used in place of InitialGoals.
// Comments and trailing commas are allowed. Goals without an id are numbered
// by position; waypoints without an id get one.
func ParseSeed(data []byte) ([]Goal, error) {
	var list []Goal
	if err := json.Unmarshal(jsonc.ToJSON(data), &list); err != nil {
		return nil, fmt.Errorf("parse seed goals: %w", err)
	}
	for i := range list {
		if list[i].ID == 0 {
			list[i].ID = i + 1
		}
		if list[i].Waypoints == nil {
			list[i].Waypoints = []Waypoint{}
		}
		list[i].EnsureWaypointIDs()
	}
	return list, nil
}

func LoadSeed(path string) ([]Goal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}
