package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"goal-tracker/internal/tracker"
)

// listFocus identifies which part of the list screen takes keystrokes.
type listFocus int

const (
	// focusRows means navigation keys move the goal cursor.
	focusRows listFocus = iota
	// focusName and focusDescription route keystrokes to the add-goal form.
	focusName
	focusDescription
)

// field is one bound input of the editor form. waypoint is the index of the
// waypoint the field belongs to, or -1 for goal-level fields.
type field struct {
	label    string
	waypoint int
	input    textinput.Model
	apply    func(e *tracker.Editor, value string) error
}

// Model is the bubbletea model for the goal tracker. Screen state lives in
// the controller; the model only holds input widgets and focus.
type Model struct {
	ctx   context.Context
	ctrl  *tracker.Controller
	keys  KeyMap
	theme Theme

	width int

	cursor    int
	listFocus listFocus
	nameInput textinput.Model
	descInput textinput.Model

	fields []field
	focus  int

	status    string
	statusErr bool
}

func NewModel(ctx context.Context, ctrl *tracker.Controller) Model {
	name := textinput.New()
	name.Placeholder = "new goal name"
	name.Prompt = "name: "
	name.SetValue(ctrl.List().Name)

	desc := textinput.New()
	desc.Placeholder = "goal description"
	desc.Prompt = "description: "
	desc.SetValue(ctrl.List().Description)

	m := Model{
		ctx:       ctx,
		ctrl:      ctrl,
		keys:      DefaultKeyMap,
		theme:     DefaultTheme,
		width:     80,
		nameInput: name,
		descInput: desc,
	}
	if ctrl.Mode() == tracker.Editing {
		m.buildFields(0)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.ctrl.Mode() == tracker.Editing {
			return m.updateEditor(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

// ----------------------
//      LIST SCREEN
// ----------------------

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ctrl.Rows()

	if m.listFocus == focusRows {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(rows) == 0 {
				return m, nil
			}
			// Open by position; seeded and added goals may share an id.
			if err := m.ctrl.SelectGoal(m.ctx, m.ctrl.Goals()[m.cursor]); err != nil {
				m.setError(err)
				return m, nil
			}
			m.buildFields(0)
			m.clearStatus()
		case key.Matches(msg, m.keys.Next):
			m.focusList(focusName)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.focusList(focusRows)
		return m, nil
	case msg.Type == tea.KeyTab:
		m.focusList((m.listFocus + 1) % 3)
		return m, nil
	case msg.Type == tea.KeyShiftTab:
		m.focusList((m.listFocus + 2) % 3)
		return m, nil
	case key.Matches(msg, m.keys.Select):
		g, ok := m.ctrl.AddGoal(m.ctx)
		if !ok {
			m.setStatus("name and description are required", true)
			return m, nil
		}
		m.nameInput.SetValue("")
		m.descInput.SetValue("")
		m.cursor = len(m.ctrl.Rows()) - 1
		m.setStatus(fmt.Sprintf("added %q", g.Name), false)
		return m, nil
	}

	var cmd tea.Cmd
	if m.listFocus == focusName {
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.ctrl.List().SetName(m.nameInput.Value())
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
		m.ctrl.List().SetDescription(m.descInput.Value())
	}
	return m, cmd
}

func (m *Model) focusList(f listFocus) {
	m.listFocus = f
	m.nameInput.Blur()
	m.descInput.Blur()
	switch f {
	case focusName:
		m.nameInput.Focus()
	case focusDescription:
		m.descInput.Focus()
	}
}

// ----------------------
//     EDITOR SCREEN
// ----------------------

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.ctrl.Editor()

	switch {
	case key.Matches(msg, m.keys.Back):
		if err := m.ctrl.Back(m.ctx); err != nil {
			m.setError(err)
			return m, nil
		}
		m.fields = nil
		m.clearStatus()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if err := m.ctrl.Submit(m.ctx); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("saved", false)
		return m, nil
	case key.Matches(msg, m.keys.AddWaypoint):
		idx := e.AddWaypoint("", "")
		m.buildFields(waypointFieldIndex(idx))
		return m, nil
	case key.Matches(msg, m.keys.RemoveWaypoint):
		wp := m.fields[m.focus].waypoint
		if wp < 0 {
			m.setStatus("move to a waypoint to remove it", true)
			return m, nil
		}
		if err := e.RemoveWaypoint(wp); err != nil {
			m.setError(err)
			return m, nil
		}
		m.buildFields(min(m.focus, waypointFieldIndex(wp)-1))
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.focusField((m.focus + 1) % len(m.fields))
		return m, nil
	case key.Matches(msg, m.keys.Previous):
		m.focusField((m.focus + len(m.fields) - 1) % len(m.fields))
		return m, nil
	}

	f := &m.fields[m.focus]
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if err := f.apply(e, f.input.Value()); err != nil {
		m.setError(err)
	}
	return m, cmd
}

const goalFieldCount = 4

func waypointFieldIndex(waypoint int) int {
	return goalFieldCount + 3*waypoint
}

// buildFields binds one input per editable value of the current editor and
// focuses the field at focus.
func (m *Model) buildFields(focus int) {
	e := m.ctrl.Editor()
	if e == nil {
		m.fields = nil
		return
	}
	g, actuals := e.Goal(), e.Actuals()

	setField := func(name string) func(*tracker.Editor, string) error {
		return func(e *tracker.Editor, v string) error { return e.UpdateField(name, v) }
	}

	fields := []field{
		newField("period start", -1, g.Period.Start, setField(tracker.FieldPeriodStart)),
		newField("period end", -1, g.Period.End, setField(tracker.FieldPeriodEnd)),
		newField("goal", -1, g.GoalScore, setField(tracker.FieldGoalScore)),
		newField("start point", -1, g.StartPoint, setField(tracker.FieldStartPoint)),
	}
	for i, wp := range g.Waypoints {
		i := i // per-iteration copy; module builds with go 1.21 loop semantics
		actual := ""
		if i < len(actuals) {
			actual = actuals[i].ActualScore
		}
		fields = append(fields,
			newField(fmt.Sprintf("waypoint %d score", i+1), i, wp.Score,
				func(e *tracker.Editor, v string) error { return e.UpdateWaypoint(i, tracker.FieldScore, v) }),
			newField(fmt.Sprintf("waypoint %d date", i+1), i, wp.Date,
				func(e *tracker.Editor, v string) error { return e.UpdateWaypoint(i, tracker.FieldDate, v) }),
			newField(fmt.Sprintf("waypoint %d actual", i+1), i, actual,
				func(e *tracker.Editor, v string) error { return e.UpdateActual(i, v) }),
		)
	}

	m.fields = fields
	if focus < 0 || focus >= len(fields) {
		focus = 0
	}
	m.focusField(focus)
}

func newField(label string, waypoint int, value string, apply func(*tracker.Editor, string) error) field {
	in := textinput.New()
	in.Prompt = ""
	in.SetValue(value)
	return field{label: label, waypoint: waypoint, input: in, apply: apply}
}

func (m *Model) focusField(i int) {
	for j := range m.fields {
		m.fields[j].input.Blur()
	}
	m.focus = i
	m.fields[i].input.Focus()
}

// ----------------------
//        STATUS
// ----------------------

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) setError(err error) {
	m.setStatus(err.Error(), true)
}

func (m *Model) clearStatus() {
	m.setStatus("", false)
}

// ----------------------
//         VIEW
// ----------------------

func styleFg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func (m Model) View() string {
	var b strings.Builder
	if m.ctrl.Mode() == tracker.Editing {
		m.viewEditor(&b)
	} else {
		m.viewList(&b)
	}
	if m.status != "" {
		color := m.theme.StatusOK
		if m.statusErr {
			color = m.theme.StatusError
		}
		b.WriteString("\n")
		b.WriteString(styleFg(color).Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) header(title string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.HeaderForeground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(m.theme.BorderColor).
		Render(title)
}

func (m Model) viewList(b *strings.Builder) {
	b.WriteString(m.header("Goals"))
	b.WriteString("\n")

	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)
	normal := styleFg(m.theme.NormalText)

	for i, row := range m.ctrl.Rows() {
		line := "  " + row.Label
		if i == m.cursor && m.listFocus == focusRows {
			b.WriteString(selected.Render("> " + row.Label))
		} else {
			b.WriteString(normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.descInput.View())
	b.WriteString("\n\n")

	help := "j/k move · enter open · tab add goal · q quit"
	if m.listFocus != focusRows {
		help = "tab next · enter add · esc back to list"
	}
	b.WriteString(styleFg(m.theme.HelpText).Render(help))
}

func (m Model) viewEditor(b *strings.Builder) {
	e := m.ctrl.Editor()
	g := e.Goal()

	b.WriteString(m.header(fmt.Sprintf("Goal Tracker · %s", g.Name)))
	b.WriteString("\n")

	label := styleFg(m.theme.FaintText)
	active := lipgloss.NewStyle().Bold(true).Foreground(m.theme.SelectedForeground)
	for i, f := range m.fields {
		l := label
		if i == m.focus {
			l = active
		}
		b.WriteString(l.Render(fmt.Sprintf("%-20s", f.label)))
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderChart(e.ChartSeries(), m.width, m.theme))
	b.WriteString("\n\n")
	b.WriteString(styleFg(m.theme.HelpText).Render(
		"tab/↓ next · S-tab/↑ prev · C-s submit · C-n add waypoint · C-x remove waypoint · esc back"))
}
