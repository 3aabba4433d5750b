package tracker

import (
	"context"
	"fmt"

	"goal-tracker/internal/goals"
)

// Field names accepted by UpdateField and UpdateWaypoint.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldGoalScore   = "goalScore"
	FieldStartPoint  = "startPoint"
	FieldPeriodStart = "period.start"
	FieldPeriodEnd   = "period.end"

	FieldScore = "score"
	FieldDate  = "date"
)

// Editor edits a working copy of one goal together with its actual entries.
// actuals always has one entry per waypoint, in waypoint order.
type Editor struct {
	goal    goals.Goal
	actuals []goals.ActualEntry
	store   Persister
}

func newEditor(g goals.Goal, stored []goals.ActualEntry, store Persister) *Editor {
	work := g.Clone()
	if work.Waypoints == nil {
		work.Waypoints = []goals.Waypoint{}
	}
	work.EnsureWaypointIDs()
	return &Editor{
		goal:    work,
		actuals: goals.AlignActuals(work, stored),
		store:   store,
	}
}

// Goal returns a copy of the working goal.
func (e *Editor) Goal() goals.Goal {
	return e.goal.Clone()
}

func (e *Editor) Actuals() []goals.ActualEntry {
	out := make([]goals.ActualEntry, len(e.actuals))
	copy(out, e.actuals)
	return out
}

// UpdateField sets a top-level scalar or period field. Values are stored as
// given; nothing is parsed or validated. "start" and "end" are accepted as
// short forms of the period fields.
func (e *Editor) UpdateField(name, value string) error {
	switch name {
	case FieldName:
		e.goal.Name = value
	case FieldDescription:
		e.goal.Description = value
	case FieldGoalScore:
		e.goal.GoalScore = value
	case FieldStartPoint:
		e.goal.StartPoint = value
	case FieldPeriodStart, "start":
		e.goal.Period.Start = value
	case FieldPeriodEnd, "end":
		e.goal.Period.End = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// UpdateWaypoint sets the score or date of one waypoint. The matching actual
// entry keeps the snapshot it was created with.
func (e *Editor) UpdateWaypoint(index int, field, value string) error {
	if index < 0 || index >= len(e.goal.Waypoints) {
		return fmt.Errorf("%w: waypoint %d", ErrIndexOutOfRange, index)
	}
	switch field {
	case FieldScore:
		e.goal.Waypoints[index].Score = value
	case FieldDate:
		e.goal.Waypoints[index].Date = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (e *Editor) UpdateActual(index int, value string) error {
	if index < 0 || index >= len(e.actuals) {
		return fmt.Errorf("%w: actual %d", ErrIndexOutOfRange, index)
	}
	e.actuals[index].ActualScore = value
	return nil
}

// AddWaypoint appends a waypoint and an empty actual entry for it, and
// returns the new waypoint's index.
func (e *Editor) AddWaypoint(score, date string) int {
	wp := goals.NewWaypoint(score, date)
	e.goal.Waypoints = append(e.goal.Waypoints, wp)
	e.actuals = append(e.actuals, goals.EntryFor(wp))
	return len(e.goal.Waypoints) - 1
}

// RemoveWaypoint drops a waypoint and its actual entry together.
func (e *Editor) RemoveWaypoint(index int) error {
	if index < 0 || index >= len(e.goal.Waypoints) {
		return fmt.Errorf("%w: waypoint %d", ErrIndexOutOfRange, index)
	}
	e.goal.Waypoints = append(e.goal.Waypoints[:index], e.goal.Waypoints[index+1:]...)
	e.actuals = append(e.actuals[:index], e.actuals[index+1:]...)
	return nil
}

// Submit persists the working copy and actuals. It does not leave the editor.
func (e *Editor) Submit(ctx context.Context) error {
	return e.store.Save(ctx, e.Goal(), e.Actuals())
}

func (e *Editor) ChartSeries() goals.ChartData {
	return goals.BuildChart(e.goal, e.actuals)
}
