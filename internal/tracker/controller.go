package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"goal-tracker/internal/analytics"
	"goal-tracker/internal/goals"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrNotEditing      = errors.New("no goal selected")
	ErrNotListing      = errors.New("a goal is already selected")
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Persister is the capability the controller needs from storage.
type Persister interface {
	Load(ctx context.Context) (*goals.Goal, []goals.ActualEntry, error)
	Save(ctx context.Context, goal goals.Goal, actuals []goals.ActualEntry) error
}

// Mode is the screen the controller is on.
type Mode int

const (
	Listing Mode = iota
	Editing
)

func (m Mode) String() string {
	switch m {
	case Listing:
		return "listing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Controller owns the in-memory goal list and the current selection. It
// switches between Listing and Editing(goal):
//
//	Select(goal): Listing -> Editing(goal)
//	Back():       Editing -> Listing
//
// Goals added from the list live in memory only. Edits happen on the editor's
// working copy and are never written back into the list.
type Controller struct {
	store     Persister
	events    analytics.Recorder
	env       analytics.Envelope
	sourceKey string
	log       *slog.Logger

	goals  []goals.Goal
	mode   Mode
	list   ListView
	editor *Editor
}

type Option func(*Controller)

// WithGoals replaces the built-in initial goals.
func WithGoals(list []goals.Goal) Option {
	return func(c *Controller) {
		c.goals = make([]goals.Goal, len(list))
		for i, g := range list {
			c.goals[i] = g.Clone()
		}
	}
}

func WithRecorder(rec analytics.Recorder, env analytics.Envelope) Option {
	return func(c *Controller) {
		c.events = rec
		c.env = env
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.log = logger }
}

func New(store Persister, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		events: analytics.Nop,
		log:    slog.Default(),
		goals:  goals.InitialGoals(),
		mode:   Listing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore reopens the last submitted goal, if storage has one, so the editor
// is ready before anything is rendered. A goal that cannot be read leaves the
// controller on the list.
func (c *Controller) Restore(ctx context.Context) error {
	goal, actuals, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if goal == nil {
		c.log.Debug("nothing to restore")
		return nil
	}
	c.editor = newEditor(*goal, actuals, c.store)
	c.mode = Editing
	c.log.Info("restored goal", "goal_id", goal.ID, "actuals", len(actuals))
	return nil
}

func (c *Controller) Mode() Mode { return c.mode }

// Goals returns a copy of the goal list.
func (c *Controller) Goals() []goals.Goal {
	out := make([]goals.Goal, len(c.goals))
	for i, g := range c.goals {
		out[i] = g.Clone()
	}
	return out
}

func (c *Controller) Rows() []Row { return Rows(c.goals) }

// List returns the add-goal form state.
func (c *Controller) List() *ListView { return &c.list }

// Editor returns the active editor, or nil while listing.
func (c *Controller) Editor() *Editor {
	if c.mode != Editing {
		return nil
	}
	return c.editor
}

// AddGoal appends a goal built from the list buffers. It reports false, and
// changes nothing, when either buffer is blank.
func (c *Controller) AddGoal(ctx context.Context) (goals.Goal, bool) {
	nameLen := len(strings.TrimSpace(c.list.Name))
	descLen := len(strings.TrimSpace(c.list.Description))

	g, ok := c.list.Add(goals.NextID(c.goals))
	if !ok {
		return goals.Goal{}, false
	}
	c.goals = append(c.goals, g)

	c.record(ctx, "goal_added", map[string]any{
		"goal_id":         g.ID,
		"name_len":        nameLen,
		"description_len": descLen,
	})
	return g.Clone(), true
}

// Select opens the goal with the given id in the editor.
func (c *Controller) Select(ctx context.Context, id int) error {
	for _, g := range c.goals {
		if g.ID == id {
			return c.SelectGoal(ctx, g)
		}
	}
	return fmt.Errorf("%w: %d", ErrGoalNotFound, id)
}

// SelectGoal opens g in the editor with a fresh, empty actual series.
func (c *Controller) SelectGoal(ctx context.Context, g goals.Goal) error {
	if c.mode != Listing {
		return ErrNotListing
	}
	c.editor = newEditor(g, nil, c.store)
	c.mode = Editing

	c.record(ctx, "goal_selected", map[string]any{
		"goal_id":   g.ID,
		"waypoints": len(g.Waypoints),
	})
	return nil
}

// Back returns to the list, discarding unsubmitted edits.
func (c *Controller) Back(ctx context.Context) error {
	if c.mode != Editing {
		return ErrNotEditing
	}
	id := c.editor.goal.ID
	c.editor = nil
	c.mode = Listing

	c.record(ctx, "goal_back", map[string]any{"goal_id": id})
	return nil
}

// Submit saves the editor's working copy. The controller stays in Editing.
func (c *Controller) Submit(ctx context.Context) error {
	if c.mode != Editing {
		return ErrNotEditing
	}
	if err := c.editor.Submit(ctx); err != nil {
		return err
	}

	filled := 0
	for _, a := range c.editor.actuals {
		if strings.TrimSpace(a.ActualScore) != "" {
			filled++
		}
	}
	c.record(ctx, "goal_submitted", map[string]any{
		"goal_id":        c.editor.goal.ID,
		"waypoints":      len(c.editor.goal.Waypoints),
		"actuals_filled": filled,
	})
	return nil
}

// SetEnvelope sets the envelope and idempotency key attached to later
// events. The HTTP layer calls it once per request.
func (c *Controller) SetEnvelope(env analytics.Envelope, sourceEventKey string) {
	c.env = env
	c.sourceKey = sourceEventKey
}

func (c *Controller) record(ctx context.Context, name string, props map[string]any) {
	if err := c.events.Record(ctx, c.env, name, props, c.sourceKey); err != nil {
		c.log.Warn("record event failed", "event", name, "error", err)
	}
}
