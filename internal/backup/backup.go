// Package backup encodes and decodes portable snapshots of the full
// persisted state plus per-timeframe UI preferences.
//
// The document is versioned with an exact-match schema tag: a version bump
// is a hard break, there is no cross-version migration on import.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/store"
)

// AppTag identifies documents produced by this application.
const AppTag = "routineland"

// SchemaVersion is the only backup version this build reads or writes.
const SchemaVersion = 1

// Import rejection reasons, surfaced to the user as-is.
var (
	ErrBadJSON            = errors.New("backup is not valid JSON")
	ErrNotBackup          = errors.New("not a routineland backup")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

// Document is a self-describing snapshot of everything the app persists.
type Document struct {
	App           string                                 `json:"app"`
	SchemaVersion int                                    `json:"schemaVersion"`
	ExportedAt    string                                 `json:"exportedAt"`
	State         model.StoredState                      `json:"state"`
	UIPrefs       map[model.Timeframe]model.GoalsUIPrefs `json:"uiPrefs"`
}

// Build snapshots the current persisted state and all present
// per-timeframe UI preferences.
func Build(ctx context.Context, s store.Store, now time.Time) (Document, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("loading state for backup: %w", err)
	}
	if state == nil {
		state = &model.StoredState{
			Categories: model.DefaultCategories,
			Goals:      []model.Goal{},
		}
	}

	uiPrefs := make(map[model.Timeframe]model.GoalsUIPrefs)
	for _, tf := range model.Timeframes {
		p, err := s.LoadUIPrefs(ctx, tf)
		if err != nil {
			return Document{}, fmt.Errorf("loading %s prefs for backup: %w", tf, err)
		}
		if p != nil {
			uiPrefs[tf] = *p
		}
	}

	return Document{
		App:           AppTag,
		SchemaVersion: SchemaVersion,
		ExportedAt:    now.Format(time.RFC3339),
		State:         *state,
		UIPrefs:       uiPrefs,
	}, nil
}

// Filename returns the conventional export filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s-backup-%s.json", AppTag, now.Format("2006-01-02"))
}

// Encode renders a document as indented JSON.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Parse validates and decodes a backup document. The app tag and schema
// version must match exactly; the state is reconstructed defensively so a
// backup with a missing or mangled state section still imports as empty
// rather than failing.
func Parse(text []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(text, &raw); err != nil {
		return Document{}, ErrBadJSON
	}

	var app string
	if err := json.Unmarshal(raw["app"], &app); err != nil || app != AppTag {
		return Document{}, ErrNotBackup
	}

	var version int
	if err := json.Unmarshal(raw["schemaVersion"], &version); err != nil || version != SchemaVersion {
		return Document{}, ErrUnsupportedVersion
	}

	doc := Document{
		App:           AppTag,
		SchemaVersion: SchemaVersion,
		State:         parseState(raw["state"]),
		UIPrefs:       parseUIPrefs(raw["uiPrefs"]),
	}

	if err := json.Unmarshal(raw["exportedAt"], &doc.ExportedAt); err != nil {
		doc.ExportedAt = time.Now().Format(time.RFC3339)
	}

	return doc, nil
}

// parseState rebuilds the state section, falling back to safe defaults for
// missing or invalid pieces.
func parseState(raw json.RawMessage) model.StoredState {
	state := model.StoredState{
		Categories: model.DefaultCategories,
		Goals:      []model.Goal{},
	}
	if raw == nil {
		return state
	}

	var parsed struct {
		Categories json.RawMessage `json:"categories"`
		Goals      json.RawMessage `json:"goals"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return state
	}

	var categories []model.Category
	if err := json.Unmarshal(parsed.Categories, &categories); err == nil && categories != nil {
		state.Categories = categories
	}

	var goals []model.Goal
	if err := json.Unmarshal(parsed.Goals, &goals); err == nil && goals != nil {
		state.Goals = goals
	}

	return state
}

// parseUIPrefs keeps only well-formed entries for known timeframes.
func parseUIPrefs(raw json.RawMessage) map[model.Timeframe]model.GoalsUIPrefs {
	prefs := make(map[model.Timeframe]model.GoalsUIPrefs)
	if raw == nil {
		return prefs
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return prefs
	}

	for _, tf := range model.Timeframes {
		entry, ok := parsed[string(tf)]
		if !ok {
			continue
		}
		var p model.GoalsUIPrefs
		if err := json.Unmarshal(entry, &p); err == nil {
			prefs[tf] = p
		}
	}

	return prefs
}

// Restore overwrites the persisted state and every preference entry the
// document carries. The caller confirms destructive intent first; restore
// itself is all-or-nothing only in the sense that parsing already
// succeeded, so nothing here can partially reject.
func Restore(ctx context.Context, s store.Store, doc Document) error {
	if err := s.SaveState(ctx, doc.State); err != nil {
		return fmt.Errorf("restoring state: %w", err)
	}

	for _, tf := range model.Timeframes {
		p, ok := doc.UIPrefs[tf]
		if !ok {
			continue
		}
		if err := s.SaveUIPrefs(ctx, tf, p); err != nil {
			return fmt.Errorf("restoring %s prefs: %w", tf, err)
		}
	}

	return nil
}
