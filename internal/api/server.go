// Package api exposes the goal tracker over a local HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/routineland/routine/internal/backup"
	"github.com/routineland/routine/internal/goals"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/stats"
	"github.com/routineland/routine/internal/store"
)

// Server handles HTTP requests against the goal service.
type Server struct {
	service *goals.Service
	store   store.Store
	addr    string
}

// New creates a new API server.
func New(service *goals.Service, st store.Store, addr string) *Server {
	return &Server{service: service, store: st, addr: addr}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /goals", s.listGoals)
	mux.HandleFunc("POST /goals", s.addGoal)
	mux.HandleFunc("POST /goals/{id}/toggle", s.toggleGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.removeGoal)

	mux.HandleFunc("GET /stats", s.getStats)
	mux.HandleFunc("GET /backup", s.getBackup)

	mux.HandleFunc("GET /health", s.health)

	return mux
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	fmt.Printf("listening on %s\n", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	tf := r.URL.Query().Get("timeframe")
	if !model.IsTimeframe(tf) {
		writeError(w, http.StatusBadRequest, "timeframe must be daily, weekly, monthly or yearly")
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		category = model.CategoryFilterAll
	}

	groups, err := s.service.List(r.Context(), goals.ListFilter{
		Timeframe: model.Timeframe(tf),
		Category:  category,
		Query:     r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// AddGoalRequest is the request body for creating a goal.
type AddGoalRequest struct {
	Timeframe     string  `json:"timeframe"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	CategoryID    string  `json:"categoryId"`
	StartAt       string  `json:"startAt"`
	DurationValue float64 `json:"durationValue"`
}

func (s *Server) addGoal(w http.ResponseWriter, r *http.Request) {
	var req AddGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !model.IsTimeframe(req.Timeframe) {
		writeError(w, http.StatusBadRequest, "timeframe must be daily, weekly, monthly or yearly")
		return
	}

	goal, err := s.service.Add(r.Context(), goals.AddParams{
		Timeframe:     model.Timeframe(req.Timeframe),
		Title:         req.Title,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		StartAt:       req.StartAt,
		DurationValue: req.DurationValue,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) toggleGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.service.ToggleDone(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) removeGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := s.service.Now()
	byTimeframe := make(map[model.Timeframe]stats.TimeframeStats)
	for _, tf := range model.Timeframes {
		byTimeframe[tf] = stats.ComputeTimeframeStats(now, state.Goals, tf)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totals":      stats.ComputeTotals(now, state.Goals),
		"byTimeframe": byTimeframe,
		"home":        stats.ComputeHomeStats(now, state.Goals),
	})
}

func (s *Server) getBackup(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	doc, err := backup.Build(r.Context(), s.store, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", backup.Filename(now)))
	writeJSON(w, http.StatusOK, doc)
}

// writeServiceError maps service errors onto HTTP statuses: validation
// failures are the client's fault, missing goals are 404.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case goals.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, goals.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
