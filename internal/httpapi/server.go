package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/rs/cors"

	"goal-tracker/internal/analytics"
	"goal-tracker/internal/goals"
	"goal-tracker/internal/tracker"
)

// Server exposes one tracker session over JSON. The controller is not safe
// for concurrent use, so every request holds mu for its whole duration.
type Server struct {
	mu   sync.Mutex
	ctrl *tracker.Controller
	log  *slog.Logger
}

func New(ctrl *tracker.Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{ctrl: ctrl, log: logger}
}

// Handler returns the routed API wrapped in CORS.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/state", s.route(map[string]http.HandlerFunc{
		http.MethodGet: s.getState,
	}))
	mux.HandleFunc("/goals", s.route(map[string]http.HandlerFunc{
		http.MethodGet:  s.getGoals,
		http.MethodPost: s.postGoal,
	}))
	mux.HandleFunc("/goals/select", s.route(map[string]http.HandlerFunc{
		http.MethodPost: s.selectGoal,
	}))
	mux.HandleFunc("/editor", s.route(map[string]http.HandlerFunc{
		http.MethodGet: s.getEditor,
	}))
	mux.HandleFunc("/editor/back", s.route(map[string]http.HandlerFunc{
		http.MethodPost: s.back,
	}))
	mux.HandleFunc("/editor/field", s.route(map[string]http.HandlerFunc{
		http.MethodPatch: s.updateField,
	}))
	mux.HandleFunc("/editor/waypoint", s.route(map[string]http.HandlerFunc{
		http.MethodPatch: s.updateWaypoint,
	}))
	mux.HandleFunc("/editor/actual", s.route(map[string]http.HandlerFunc{
		http.MethodPatch: s.updateActual,
	}))
	mux.HandleFunc("/editor/waypoints", s.route(map[string]http.HandlerFunc{
		http.MethodPost:   s.addWaypoint,
		http.MethodDelete: s.removeWaypoint,
	}))
	mux.HandleFunc("/editor/submit", s.route(map[string]http.HandlerFunc{
		http.MethodPost: s.submit,
	}))
	mux.HandleFunc("/editor/chart", s.route(map[string]http.HandlerFunc{
		http.MethodGet: s.getChart,
	}))

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Idempotency-Key", "X-Platform", "X-Session-Id", "X-App-Version", "X-Device-Locale", "X-Source-Event-Key"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

// route dispatches on method, serialising access to the controller and
// attaching the request's analytics envelope.
func (s *Server) route(methods map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h, ok := methods[r.Method]
		if !ok {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.ctrl.SetEnvelope(analytics.FromRequest(r), analytics.SourceEventKeyFromRequest(r))
		h(w, r)
	}
}

// ----------------------
//     RESPONSE TYPES
// ----------------------

type editorView struct {
	Goal    goals.Goal          `json:"goal"`
	Actuals []goals.ActualEntry `json:"actuals"`
}

type stateView struct {
	Mode   string        `json:"mode"`
	Goals  []tracker.Row `json:"goals"`
	Editor *editorView   `json:"editor,omitempty"`
}

func (s *Server) editorView() *editorView {
	e := s.ctrl.Editor()
	if e == nil {
		return nil
	}
	return &editorView{Goal: e.Goal(), Actuals: e.Actuals()}
}

// ----------------------
//       HANDLERS
// ----------------------

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateView{
		Mode:   s.ctrl.Mode().String(),
		Goals:  s.ctrl.Rows(),
		Editor: s.editorView(),
	})
}

func (s *Server) getGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Goals())
}

func (s *Server) postGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	list := s.ctrl.List()
	list.SetName(body.Name)
	list.SetDescription(body.Description)

	g, ok := s.ctrl.AddGoal(r.Context())
	if !ok {
		// The buffers keep what was sent, as the form does after a rejected add.
		http.Error(w, "name and description are required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) selectGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.ctrl.Select(r.Context(), body.ID); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editorView())
}

func (s *Server) getEditor(w http.ResponseWriter, r *http.Request) {
	view := s.editorView()
	if view == nil {
		s.fail(w, tracker.ErrNotEditing)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Back(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "mode": s.ctrl.Mode().String()})
}

func (s *Server) updateField(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.withEditor(w, func(e *tracker.Editor) error {
		return e.UpdateField(body.Name, body.Value)
	})
}

func (s *Server) updateWaypoint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.withEditor(w, func(e *tracker.Editor) error {
		return e.UpdateWaypoint(body.Index, body.Name, body.Value)
	})
}

func (s *Server) updateActual(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Index int    `json:"index"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.withEditor(w, func(e *tracker.Editor) error {
		return e.UpdateActual(body.Index, body.Value)
	})
}

func (s *Server) addWaypoint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Score string `json:"score"`
		Date  string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.withEditor(w, func(e *tracker.Editor) error {
		e.AddWaypoint(body.Score, body.Date)
		return nil
	})
}

func (s *Server) removeWaypoint(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "index required", http.StatusBadRequest)
		return
	}
	s.withEditor(w, func(e *tracker.Editor) error {
		return e.RemoveWaypoint(index)
	})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Submit(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	e := s.ctrl.Editor()
	if e == nil {
		s.fail(w, tracker.ErrNotEditing)
		return
	}
	writeJSON(w, http.StatusOK, e.ChartSeries())
}

// withEditor applies an edit and answers with the updated editor state.
func (s *Server) withEditor(w http.ResponseWriter, edit func(*tracker.Editor) error) {
	e := s.ctrl.Editor()
	if e == nil {
		s.fail(w, tracker.ErrNotEditing)
		return
	}
	if err := edit(e); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editorView())
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrGoalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, tracker.ErrNotEditing), errors.Is(err, tracker.ErrNotListing):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, tracker.ErrUnknownField), errors.Is(err, tracker.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled):
		http.Error(w, "request canceled", http.StatusServiceUnavailable)
	default:
		s.log.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
