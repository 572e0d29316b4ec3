package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/routineland/routine/internal/migrate"
	"github.com/routineland/routine/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database
// holding one JSON document per key.
type SQLiteStore struct {
	db *sqlx.DB

	// now is swappable so tests can pin the sanitization clock.
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// getDocument reads the raw JSON stored under key. Absent keys return
// ("", nil).
func (s *SQLiteStore) getDocument(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM documents WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", key, err)
	}
	return value, nil
}

// putDocument writes raw JSON under key, replacing any previous value.
func (s *SQLiteStore) putDocument(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing document %s: %w", key, err)
	}
	return nil
}

// deleteDocument removes the document stored under key.
func (s *SQLiteStore) deleteDocument(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", key, err)
	}
	return nil
}

// LoadState reads the state document, runs the sanitization pipeline, and
// writes the cleaned state back once when anything changed. A document
// that is not valid JSON at all is treated as absent.
func (s *SQLiteStore) LoadState(ctx context.Context) (*model.StoredState, error) {
	raw, err := s.getDocument(ctx, StateKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		slog.Warn("stored state is not valid JSON, resetting", "error", err)
		return nil, nil
	}

	state, changed := migrate.SanitizeState(parsed, s.now())

	if changed {
		if err := s.writeState(ctx, state); err != nil {
			// Keep serving the sanitized in-memory state; the next
			// successful save will persist it.
			slog.Warn("writing back sanitized state failed", "error", err)
		}
	}

	return &state, nil
}

// SaveState persists the state with the canonical category table forced.
func (s *SQLiteStore) SaveState(ctx context.Context, state model.StoredState) error {
	safe := model.StoredState{
		Categories: model.DefaultCategories,
		Goals:      state.Goals,
	}
	if safe.Goals == nil {
		safe.Goals = []model.Goal{}
	}
	return s.writeState(ctx, safe)
}

func (s *SQLiteStore) writeState(ctx context.Context, state model.StoredState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	return s.putDocument(ctx, StateKey, string(data))
}

// ClearState removes the persisted state document.
func (s *SQLiteStore) ClearState(ctx context.Context) error {
	return s.deleteDocument(ctx, StateKey)
}

// LoadUIPrefs returns the stored preferences for one timeframe. Unreadable
// documents are tolerated and reported as absent.
func (s *SQLiteStore) LoadUIPrefs(ctx context.Context, tf model.Timeframe) (*model.GoalsUIPrefs, error) {
	raw, err := s.getDocument(ctx, UIPrefsKey(tf))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var prefs model.GoalsUIPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		slog.Warn("stored UI prefs unreadable", "timeframe", tf, "error", err)
		return nil, nil
	}
	return &prefs, nil
}

// SaveUIPrefs persists the preferences for one timeframe.
func (s *SQLiteStore) SaveUIPrefs(ctx context.Context, tf model.Timeframe, prefs model.GoalsUIPrefs) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshaling UI prefs: %w", err)
	}
	return s.putDocument(ctx, UIPrefsKey(tf), string(data))
}

// LoadRemindersPrefs returns the reminders preference, defaulting to
// disabled.
func (s *SQLiteStore) LoadRemindersPrefs(ctx context.Context) (model.RemindersPrefs, error) {
	raw, err := s.getDocument(ctx, RemindersKey)
	if err != nil || raw == "" {
		return model.RemindersPrefs{}, err
	}

	var prefs model.RemindersPrefs
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		slog.Warn("stored reminders prefs unreadable", "error", err)
		return model.RemindersPrefs{}, nil
	}
	return prefs, nil
}

// SaveRemindersPrefs persists the reminders preference.
func (s *SQLiteStore) SaveRemindersPrefs(ctx context.Context, prefs model.RemindersPrefs) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshaling reminders prefs: %w", err)
	}
	return s.putDocument(ctx, RemindersKey, string(data))
}

// LoadFired returns the reminder dedup ledger. Unreadable ledgers reset to
// empty rather than blocking reminders.
func (s *SQLiteStore) LoadFired(ctx context.Context) (map[string]int64, error) {
	raw, err := s.getDocument(ctx, FiredLedgerKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return map[string]int64{}, nil
	}

	var fired map[string]int64
	if err := json.Unmarshal([]byte(raw), &fired); err != nil {
		slog.Warn("stored firing ledger unreadable, resetting", "error", err)
		return map[string]int64{}, nil
	}
	if fired == nil {
		fired = map[string]int64{}
	}
	return fired, nil
}

// SaveFired persists the reminder dedup ledger.
func (s *SQLiteStore) SaveFired(ctx context.Context, fired map[string]int64) error {
	data, err := json.Marshal(fired)
	if err != nil {
		return fmt.Errorf("marshaling firing ledger: %w", err)
	}
	return s.putDocument(ctx, FiredLedgerKey, string(data))
}
