package tracker

import (
	"fmt"
	"strings"

	"goal-tracker/internal/goals"
)

// ListView holds the add-goal mini form. The buffers belong to the view and
// survive a failed add.
type ListView struct {
	Name        string
	Description string
}

func (l *ListView) SetName(v string)        { l.Name = v }
func (l *ListView) SetDescription(v string) { l.Description = v }

// Row is one rendered line of the goal list.
type Row struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

func Rows(list []goals.Goal) []Row {
	rows := make([]Row, len(list))
	for i, g := range list {
		rows[i] = Row{ID: g.ID, Label: fmt.Sprintf("%s - %s", g.Name, g.Description)}
	}
	return rows
}

// Add builds a new goal from the buffers. It is a no-op, leaving the buffers
// as they are, when either one is blank after trimming. On success both
// buffers are cleared. The values are kept as typed.
func (l *ListView) Add(id int) (goals.Goal, bool) {
	if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Description) == "" {
		return goals.Goal{}, false
	}
	g := goals.NewGoal(id, l.Name, l.Description)
	l.Name = ""
	l.Description = ""
	return g, true
}
