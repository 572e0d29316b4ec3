// Package remind fires a best-effort local notification when a goal's
// window opens. Delivery is at-most-once per (goal, start) pair, enforced
// by a persisted firing ledger, and the whole engine is a no-op while the
// reminders preference is disabled.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/store"
)

// Notifier delivers one reminder. Implementations must tolerate repeated
// process restarts; dedup is the engine's job, not theirs.
type Notifier interface {
	Notify(ctx context.Context, goal model.Goal) error
}

// LogNotifier writes reminders to the terminal. It stands in for a desktop
// notification daemon when none is wired up.
type LogNotifier struct{}

// Notify prints the reminder.
func (LogNotifier) Notify(_ context.Context, goal model.Goal) error {
	fmt.Printf("reminder: %q starts now (%s)\n", goal.Title, goal.StartAt)
	return nil
}

// Engine polls the goal collection and fires reminders for starts that
// just passed.
type Engine struct {
	store        store.Store
	notifier     Notifier
	pollInterval time.Duration

	// lookback is how far behind now a start may be and still fire; older
	// starts are considered missed.
	lookback time.Duration

	// Now is swappable so tests can pin the clock.
	Now func() time.Time
}

// New creates an Engine. pollInterval and lookback fall back to 30s and
// 2m when non-positive.
func New(s store.Store, n Notifier, pollInterval, lookback time.Duration) *Engine {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	if lookback <= 0 {
		lookback = 2 * time.Minute
	}
	return &Engine{
		store:        s,
		notifier:     n,
		pollInterval: pollInterval,
		lookback:     lookback,
		Now:          time.Now,
	}
}

// Run fires due reminders, then sleeps until the earlier of the next poll
// tick and the next future goal start, until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if _, err := e.FireDue(ctx, e.Now()); err != nil {
			slog.Warn("reminder pass failed", "error", err)
		}

		wait := e.pollInterval
		if next, ok := e.NextWake(ctx, e.Now()); ok {
			if until := next.Sub(e.Now()); until > 0 && until < wait {
				wait = until
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// FireDue notifies every unfired goal whose start falls inside
// (now-lookback, now] and records it in the ledger. It returns how many
// reminders fired.
func (e *Engine) FireDue(ctx context.Context, now time.Time) (int, error) {
	prefs, err := e.store.LoadRemindersPrefs(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading reminders prefs: %w", err)
	}
	if !prefs.Enabled {
		return 0, nil
	}

	state, err := e.store.LoadState(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return 0, nil
	}

	fired, err := e.store.LoadFired(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading firing ledger: %w", err)
	}

	count := 0
	wrote := false

	for _, g := range state.Goals {
		if g.Status == model.StatusDone || g.StartAt == "" {
			continue
		}

		start, err := dateutil.ParseDateTime(g.StartAt)
		if err != nil {
			continue
		}
		if start.After(now) || start.Before(now.Add(-e.lookback)) {
			continue
		}

		key := LedgerKey(g)
		if _, done := fired[key]; done {
			continue
		}

		fired[key] = dateutil.Millis(now)
		wrote = true
		count++

		if err := e.notifier.Notify(ctx, g); err != nil {
			slog.Warn("delivering reminder failed", "goal", g.ID, "error", err)
		}
	}

	if wrote {
		if err := e.store.SaveFired(ctx, fired); err != nil {
			return count, fmt.Errorf("saving firing ledger: %w", err)
		}
	}

	return count, nil
}

// NextWake returns the earliest goal start strictly after now, if any.
func (e *Engine) NextWake(ctx context.Context, now time.Time) (time.Time, bool) {
	state, err := e.store.LoadState(ctx)
	if err != nil || state == nil {
		return time.Time{}, false
	}

	var next time.Time
	found := false
	for _, g := range state.Goals {
		if g.Status == model.StatusDone || g.StartAt == "" {
			continue
		}
		start, err := dateutil.ParseDateTime(g.StartAt)
		if err != nil || !start.After(now) {
			continue
		}
		if !found || start.Before(next) {
			next = start
			found = true
		}
	}

	return next, found
}

// LedgerKey identifies one firing: a goal whose start is edited becomes
// eligible to fire again.
func LedgerKey(g model.Goal) string {
	return g.ID + ":" + g.StartAt
}
