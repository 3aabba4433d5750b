package goals

import "github.com/google/uuid"

// Goal is a tracked objective. Numeric fields stay strings end to end: they
// are edited, stored and charted exactly as typed.
type Goal struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Period      Period     `json:"period"`
	GoalScore   string     `json:"goalScore"`
	StartPoint  string     `json:"startPoint"`
	Waypoints   []Waypoint `json:"waypoints"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Waypoint is a planned checkpoint. ID links it to its ActualEntry; goals
// stored before ids existed have none and fall back to index alignment.
type Waypoint struct {
	ID    string `json:"id,omitempty"`
	Score string `json:"score"`
	Date  string `json:"date"`
}

// ActualEntry records the real score for one waypoint. Date and Score are a
// snapshot taken when the entry was created, not a live view of the waypoint.
type ActualEntry struct {
	WaypointID  string `json:"waypointId,omitempty"`
	Date        string `json:"date"`
	Score       string `json:"score"`
	ActualScore string `json:"actualScore"`
}

// NewGoal builds the mostly-empty goal created from the list view.
func NewGoal(id int, name, description string) Goal {
	return Goal{
		ID:          id,
		Name:        name,
		Description: description,
		Waypoints:   []Waypoint{},
	}
}

// NextID mirrors the list's id scheme: one past the current count. Ids are
// not unique across deletions, but goals are never deleted.
func NextID(list []Goal) int {
	return len(list) + 1
}

func NewWaypoint(score, date string) Waypoint {
	return Waypoint{ID: uuid.NewString(), Score: score, Date: date}
}

// Clone returns a deep copy so a working copy never aliases list data.
func (g Goal) Clone() Goal {
	out := g
	if g.Waypoints != nil {
		out.Waypoints = make([]Waypoint, len(g.Waypoints))
		copy(out.Waypoints, g.Waypoints)
	}
	return out
}

// EnsureWaypointIDs assigns ids to waypoints that lack one.
func (g *Goal) EnsureWaypointIDs() {
	for i := range g.Waypoints {
		if g.Waypoints[i].ID == "" {
			g.Waypoints[i].ID = uuid.NewString()
		}
	}
}

// ActualsFor starts a fresh actual series: one empty entry per waypoint.
func ActualsFor(g Goal) []ActualEntry {
	out := make([]ActualEntry, len(g.Waypoints))
	for i, wp := range g.Waypoints {
		out[i] = EntryFor(wp)
	}
	return out
}

func EntryFor(wp Waypoint) ActualEntry {
	return ActualEntry{WaypointID: wp.ID, Date: wp.Date, Score: wp.Score}
}

// AlignActuals lines stored entries up with the goal's waypoints. Entries are
// matched by waypoint id where both sides carry one; otherwise a stored series
// of the same length is taken positionally. Waypoints with no match get an
// empty entry, so the result always has one entry per waypoint.
func AlignActuals(g Goal, stored []ActualEntry) []ActualEntry {
	byID := make(map[string]ActualEntry, len(stored))
	for _, a := range stored {
		if a.WaypointID != "" {
			byID[a.WaypointID] = a
		}
	}

	out := make([]ActualEntry, len(g.Waypoints))
	for i, wp := range g.Waypoints {
		if a, ok := byID[wp.ID]; ok && wp.ID != "" {
			out[i] = a
			continue
		}
		if len(stored) == len(g.Waypoints) && stored[i].WaypointID == "" {
			a := stored[i]
			a.WaypointID = wp.ID
			out[i] = a
			continue
		}
		out[i] = EntryFor(wp)
	}
	return out
}
