// Package store is the persistence gateway. The core engine only sees the
// Store interface; the SQLite document backend is wired in by the host.
package store

import (
	"context"

	"github.com/routineland/routine/internal/model"
)

// Document keys. Each logical document lives under one fixed key, matching
// the storage identifiers used by earlier versions of the app.
const (
	StateKey         = "routine.state.v1"
	uiPrefsKeyPrefix = "routine.ui.goals."
	uiPrefsKeySuffix = ".v1"
	RemindersKey     = "routine.reminders.v1"
	FiredLedgerKey   = "routine.reminders.fired.v1"
)

// UIPrefsKey returns the document key for one timeframe's UI preferences.
func UIPrefsKey(tf model.Timeframe) string {
	return uiPrefsKeyPrefix + string(tf) + uiPrefsKeySuffix
}

// Store defines the persistence interface for goal state, per-timeframe UI
// preferences, the reminders preference, and the reminder firing ledger.
type Store interface {
	// LoadState reads and sanitizes the persisted state. It returns nil
	// when nothing was ever stored or the stored document is unreadable.
	// When sanitization changed anything the cleaned state is written back
	// once before returning.
	LoadState(ctx context.Context) (*model.StoredState, error)

	// SaveState persists the state, forcing the canonical category table
	// regardless of what the caller passed.
	SaveState(ctx context.Context, state model.StoredState) error

	// ClearState removes the persisted state entirely.
	ClearState(ctx context.Context) error

	// LoadUIPrefs returns the stored preferences for one timeframe, or nil
	// when absent or unreadable.
	LoadUIPrefs(ctx context.Context, tf model.Timeframe) (*model.GoalsUIPrefs, error)
	SaveUIPrefs(ctx context.Context, tf model.Timeframe, prefs model.GoalsUIPrefs) error

	// LoadRemindersPrefs returns the reminders preference, defaulting to
	// disabled when absent or unreadable.
	LoadRemindersPrefs(ctx context.Context) (model.RemindersPrefs, error)
	SaveRemindersPrefs(ctx context.Context, prefs model.RemindersPrefs) error

	// LoadFired returns the reminder dedup ledger: "{goalID}:{startAt}" ->
	// fired-at millisecond timestamp.
	LoadFired(ctx context.Context) (map[string]int64, error)
	SaveFired(ctx context.Context, fired map[string]int64) error

	Close() error
}
