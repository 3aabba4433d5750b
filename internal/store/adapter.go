package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"goal-tracker/internal/goals"
)

// Keys the selected goal and its actual entries are stored under.
const (
	KeySelectedGoal = "selected_goal"
	KeyActualData   = "actual_data"
)

// Adapter persists the currently selected goal and its actual entries. It
// holds at most one goal at a time; the last Save wins.
type Adapter struct {
	kv  KV
	log *slog.Logger
}

func NewAdapter(kv KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, log: logger}
}

// Load returns the stored goal and actuals. Either may be nil when its key is
// absent. A value that is not valid JSON is logged and treated as absent, so
// a corrupt entry degrades to "nothing to restore". Only backend failures are
// returned as errors.
func (a *Adapter) Load(ctx context.Context) (*goals.Goal, []goals.ActualEntry, error) {
	var (
		goal    *goals.Goal
		actuals []goals.ActualEntry
	)

	raw, ok, err := a.kv.Get(ctx, KeySelectedGoal)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", KeySelectedGoal, err)
	}
	if ok {
		var g goals.Goal
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			a.log.Warn("ignoring corrupt stored value", "key", KeySelectedGoal, "error", err)
		} else {
			goal = &g
		}
	}

	raw, ok, err = a.kv.Get(ctx, KeyActualData)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", KeyActualData, err)
	}
	if ok {
		var list []goals.ActualEntry
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			a.log.Warn("ignoring corrupt stored value", "key", KeyActualData, "error", err)
		} else {
			actuals = list
		}
	}

	return goal, actuals, nil
}

// Save overwrites both keys. The two writes are not transactional.
func (a *Adapter) Save(ctx context.Context, goal goals.Goal, actuals []goals.ActualEntry) error {
	if actuals == nil {
		actuals = []goals.ActualEntry{}
	}

	goalJSON, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("encode goal: %w", err)
	}
	actualJSON, err := json.Marshal(actuals)
	if err != nil {
		return fmt.Errorf("encode actuals: %w", err)
	}

	if err := a.kv.Set(ctx, KeySelectedGoal, string(goalJSON)); err != nil {
		return fmt.Errorf("save %s: %w", KeySelectedGoal, err)
	}
	if err := a.kv.Set(ctx, KeyActualData, string(actualJSON)); err != nil {
		return fmt.Errorf("save %s: %w", KeyActualData, err)
	}

	a.log.Debug("goal saved", "goal_id", goal.ID, "waypoints", len(goal.Waypoints))
	return nil
}
