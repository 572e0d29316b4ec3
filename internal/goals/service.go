// Package goals implements the user-facing goal operations: create, edit,
// toggle done, remove, and filtered listing. All mutations validate input
// first and leave stored state untouched on rejection.
package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/store"
)

// ErrNotFound is returned when no goal matches the requested id.
var ErrNotFound = errors.New("goal not found")

// ValidationError is a user-facing input rejection. The message is safe to
// show verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a user-input rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Service executes goal operations against an injected store.
type Service struct {
	store store.Store

	// Now is swappable so tests can pin the clock.
	Now func() time.Time
}

// NewService creates a Service backed by s.
func NewService(s store.Store) *Service {
	return &Service{store: s, Now: time.Now}
}

// State loads the sanitized stored state, substituting an empty default
// when nothing was stored yet.
func (s *Service) State(ctx context.Context) (model.StoredState, error) {
	loaded, err := s.store.LoadState(ctx)
	if err != nil {
		return model.StoredState{}, err
	}
	if loaded == nil {
		return model.StoredState{
			Categories: model.DefaultCategories,
			Goals:      []model.Goal{},
		}, nil
	}
	return *loaded, nil
}

// AddParams are the inputs for creating a goal.
type AddParams struct {
	Timeframe     model.Timeframe
	Title         string
	Description   string
	CategoryID    string
	StartAt       string // "YYYY-MM-DDTHH:MM"
	DurationValue float64
}

// Add validates params, computes the goal window, and persists a new goal
// at the front of the collection.
func (s *Service) Add(ctx context.Context, p AddParams) (model.Goal, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return model.Goal{}, &ValidationError{Msg: "give the goal a name"}
	}

	policy := model.PolicyFor(p.Timeframe)
	if err := validateDuration(policy, p.DurationValue); err != nil {
		return model.Goal{}, err
	}

	startD, endAt, err := computeWindow(p.StartAt, policy.Unit, p.DurationValue)
	if err != nil {
		return model.Goal{}, err
	}

	now := s.Now()
	categoryID, _ := model.ResolveCategoryID(p.CategoryID)

	initialStatus := model.StatusInProgress
	if now.Before(startD) {
		initialStatus = model.StatusFuture
	}

	goal := model.Goal{
		ID:            uuid.New().String(),
		Title:         title,
		Description:   p.Description,
		Timeframe:     p.Timeframe,
		CategoryID:    categoryID,
		StartAt:       dateutil.FormatDateTime(startD),
		EndAt:         endAt,
		DurationValue: p.DurationValue,
		DurationUnit:  policy.Unit,
		Status:        initialStatus,
		CreatedAt:     dateutil.Millis(now),
		UpdatedAt:     dateutil.Millis(now),
	}

	state, err := s.State(ctx)
	if err != nil {
		return model.Goal{}, err
	}
	state.Goals = append([]model.Goal{goal}, state.Goals...)

	s.save(ctx, state)
	return goal, nil
}

// EditParams are the inputs for editing a goal. The timeframe itself is
// immutable; the duration is re-validated against it.
type EditParams struct {
	Title         string
	CategoryID    string
	StartAt       string
	DurationValue float64
}

// Edit validates params and rewrites the matching goal. A goal already
// marked DONE stays DONE; otherwise the status is re-derived from the new
// start.
func (s *Service) Edit(ctx context.Context, id string, p EditParams) (model.Goal, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return model.Goal{}, &ValidationError{Msg: "give the goal a name"}
	}

	state, err := s.State(ctx)
	if err != nil {
		return model.Goal{}, err
	}

	idx := indexOf(state.Goals, id)
	if idx < 0 {
		return model.Goal{}, ErrNotFound
	}
	goal := state.Goals[idx]

	policy := model.PolicyFor(goal.Timeframe)
	if err := validateDuration(policy, p.DurationValue); err != nil {
		return model.Goal{}, err
	}

	startD, endAt, err := computeWindow(p.StartAt, policy.Unit, p.DurationValue)
	if err != nil {
		return model.Goal{}, err
	}

	now := s.Now()
	categoryID, _ := model.ResolveCategoryID(p.CategoryID)

	nextStatus := model.StatusInProgress
	switch {
	case goal.Status == model.StatusDone:
		nextStatus = model.StatusDone
	case now.Before(startD):
		nextStatus = model.StatusFuture
	}

	var nextDoneAt *int64
	if nextStatus == model.StatusDone {
		nextDoneAt = goal.DoneAt
		if nextDoneAt == nil {
			ms := dateutil.Millis(now)
			nextDoneAt = &ms
		}
	}

	goal.Title = title
	goal.CategoryID = categoryID
	goal.StartAt = dateutil.FormatDateTime(startD)
	goal.EndAt = endAt
	goal.DurationValue = p.DurationValue
	goal.DurationUnit = policy.Unit
	goal.Status = nextStatus
	goal.DoneAt = nextDoneAt
	goal.UpdatedAt = dateutil.Millis(now)

	state.Goals[idx] = goal

	s.save(ctx, state)
	return goal, nil
}

// ToggleDone flips a goal between DONE and IN_PROGRESS, setting DoneAt on
// completion and clearing it on reopen.
func (s *Service) ToggleDone(ctx context.Context, id string) (model.Goal, error) {
	state, err := s.State(ctx)
	if err != nil {
		return model.Goal{}, err
	}

	idx := indexOf(state.Goals, id)
	if idx < 0 {
		return model.Goal{}, ErrNotFound
	}
	goal := state.Goals[idx]

	ms := dateutil.Millis(s.Now())
	if goal.Status != model.StatusDone {
		goal.Status = model.StatusDone
		goal.DoneAt = &ms
	} else {
		goal.Status = model.StatusInProgress
		goal.DoneAt = nil
	}
	goal.UpdatedAt = ms

	state.Goals[idx] = goal

	s.save(ctx, state)
	return goal, nil
}

// Remove hard-deletes a goal.
func (s *Service) Remove(ctx context.Context, id string) error {
	state, err := s.State(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(state.Goals, id)
	if idx < 0 {
		return ErrNotFound
	}
	state.Goals = append(state.Goals[:idx], state.Goals[idx+1:]...)

	s.save(ctx, state)
	return nil
}

// save persists the state. Write failures are logged, not propagated: the
// caller keeps operating on the in-memory result and the next successful
// save converges.
func (s *Service) save(ctx context.Context, state model.StoredState) {
	if err := s.store.SaveState(ctx, state); err != nil {
		slog.Warn("saving state failed, continuing in memory", "error", err)
	}
}

// indexOf returns the position of the goal with the given id, or -1.
func indexOf(goals []model.Goal, id string) int {
	for i, g := range goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// validateDuration checks the value against the timeframe's inclusive
// range.
func validateDuration(policy model.DurationPolicy, value float64) error {
	if value != value || value < policy.Min || value > policy.Max {
		return &ValidationError{Msg: fmt.Sprintf(
			"duration must be between %g and %g %s",
			policy.Min, policy.Max, policy.UnitLabel,
		)}
	}
	return nil
}

// computeWindow parses the start, derives the end from the duration, and
// enforces a strictly positive window.
func computeWindow(startAt string, unit model.DurationUnit, value float64) (time.Time, string, error) {
	startD, err := dateutil.ParseDateTime(startAt)
	if err != nil {
		return time.Time{}, "", &ValidationError{Msg: "start must be a valid date and time"}
	}

	endAt := ComputeEndAt(startD, unit, value)
	endD, err := dateutil.ParseDateTime(endAt)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing computed end: %w", err)
	}

	if !endD.After(startD) {
		return time.Time{}, "", &ValidationError{Msg: "the end must come after the start"}
	}

	return startD, endAt, nil
}

// ComputeEndAt adds the duration to start using calendar arithmetic.
// Fractional values truncate to whole units; weeks expand to seven days;
// month addition follows calendar rollover.
func ComputeEndAt(start time.Time, unit model.DurationUnit, value float64) string {
	n := int(value)
	var end time.Time
	switch unit {
	case model.UnitHours:
		end = dateutil.AddHours(start, n)
	case model.UnitDays:
		end = dateutil.AddDays(start, n)
	case model.UnitWeeks:
		end = dateutil.AddDays(start, n*7)
	default:
		end = dateutil.AddMonths(start, n)
	}
	return dateutil.FormatDateTime(end)
}
