// Package migrate normalizes persisted state across schema versions.
//
// The engine accepts whatever was last written to storage, possibly by a
// much older build, and produces a valid current-schema state. Structurally
// wrong records are dropped, wrong fields are defaulted, and the reported
// changed flag tells the gateway to rewrite storage once. Running the
// engine on its own output reports no change.
package migrate

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
)

// SanitizeState normalizes a decoded storage document. raw is the result
// of unmarshaling the stored JSON into interface{} values.
func SanitizeState(raw any, now time.Time) (model.StoredState, bool) {
	obj, _ := raw.(map[string]any)

	categories, catChanged := SanitizeCategories(obj["categories"])
	goals, goalsChanged := SanitizeGoals(obj["goals"], now)

	return model.StoredState{
		Categories: categories,
		Goals:      goals,
	}, catChanged || goalsChanged
}

// SanitizeCategories always yields the canonical category table; stored
// categories are a forward-compatibility echo, not user data. The changed
// flag reports whether the input differed from the canonical set.
func SanitizeCategories(input any) ([]model.Category, bool) {
	return model.DefaultCategories, !categoriesEqualCanonical(input)
}

// categoriesEqualCanonical reports whether input is exactly the canonical
// category table: same length, same order, same three fields per entry.
func categoriesEqualCanonical(input any) bool {
	arr, ok := input.([]any)
	if !ok || len(arr) != len(model.DefaultCategories) {
		return false
	}

	for i, rawCat := range arr {
		m, ok := rawCat.(map[string]any)
		if !ok || len(m) != 3 {
			return false
		}
		want := model.DefaultCategories[i]
		if m["id"] != want.ID || m["displayName"] != want.DisplayName || m["color"] != want.Color {
			return false
		}
	}

	return true
}

// SanitizeGoals migrates each raw record independently. Records that are
// not objects at all are dropped. A non-array input yields an empty list
// without flagging a change, matching a fresh install.
func SanitizeGoals(input any, now time.Time) ([]model.Goal, bool) {
	arr, ok := input.([]any)
	if !ok {
		return []model.Goal{}, false
	}

	changed := false
	out := make([]model.Goal, 0, len(arr))

	for _, raw := range arr {
		goal, recChanged, ok := MigrateGoal(raw, now)
		if !ok {
			slog.Warn("dropping malformed goal record", "record", raw)
			changed = true
			continue
		}
		if recChanged {
			changed = true
		}
		out = append(out, goal)
	}

	return out, changed
}

// MigrateGoal coerces one raw record into a valid Goal. It returns ok=false
// only when the record is not an object; every field-level problem is
// repaired instead, with changed=true.
func MigrateGoal(raw any, now time.Time) (model.Goal, bool, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Goal{}, true, false
	}

	changed := false

	timeframe := model.TimeframeDaily
	if s, ok := obj["timeframe"].(string); ok && model.IsTimeframe(s) {
		timeframe = model.Timeframe(s)
	} else {
		changed = true
	}

	id, _ := obj["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
		changed = true
	}

	title, ok := obj["title"].(string)
	if !ok {
		title = ""
		changed = true
	}
	description, _ := obj["description"].(string)

	categoryID, catChanged := resolveCategory(obj["categoryId"])
	if catChanged {
		changed = true
	}

	// Prefer the full local-datetime fields; fall back to the legacy
	// date-only pair, then to today at midnight.
	startAt := wellFormedDateTime(obj["startAt"])
	endAt := wellFormedDateTime(obj["endAt"])
	legacyStart := legacyDate(obj["startDate"])
	legacyEnd := legacyDate(obj["endDate"])

	if startAt == "" {
		d := legacyStart
		if d == "" {
			d = dateutil.FormatDate(now)
		}
		startAt = d + "T00:00"
		changed = true
	}

	policy := model.PolicyFor(timeframe)

	// A stored value is only meaningful in the timeframe's canonical unit;
	// a mismatched unit resets both to the default rather than
	// reinterpreting the number.
	durationUnit := policy.Unit
	canonicalUnit := false
	if s, ok := obj["durationUnit"].(string); ok && model.DurationUnit(s) == policy.Unit {
		canonicalUnit = true
	} else {
		changed = true
	}

	durationValue := policy.DefaultValue
	if n, ok := obj["durationValue"].(float64); ok && canonicalUnit {
		durationValue = n
	} else if canonicalUnit {
		changed = true
	}

	if endAt == "" {
		if legacyEnd != "" {
			endAt = legacyEnd + "T00:00"
		} else {
			// Zero-length window; tolerated in storage, rejected by the
			// create/edit path.
			endAt = startAt
		}
		changed = true
	}

	createdAt, ok := timestamp(obj["createdAt"])
	if !ok {
		createdAt = dateutil.Millis(now)
		changed = true
	}
	updatedAt, ok := timestamp(obj["updatedAt"])
	if !ok {
		updatedAt = dateutil.Millis(now)
		changed = true
	}

	status := normalizeStatus(obj["status"])
	if s, _ := obj["status"].(string); s != string(status) {
		changed = true
	}

	var doneAt *int64
	if rawDone, present := obj["doneAt"]; present {
		if ts, ok := timestamp(rawDone); ok {
			doneAt = &ts
		} else {
			changed = true
		}
	}

	startDate, _ := obj["startDate"].(string)
	endDate, _ := obj["endDate"].(string)

	goal := model.Goal{
		ID:            id,
		Title:         title,
		Description:   description,
		Timeframe:     timeframe,
		CategoryID:    categoryID,
		StartAt:       startAt,
		EndAt:         endAt,
		DurationValue: durationValue,
		DurationUnit:  durationUnit,
		Status:        status,
		DoneAt:        doneAt,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		StartDate:     startDate,
		EndDate:       endDate,
	}

	return goal, changed, true
}

// resolveCategory trims and resolves a raw category id through the alias
// table, falling back to "other".
func resolveCategory(raw any) (string, bool) {
	original := model.CategoryOther
	if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
		original = strings.TrimSpace(s)
	}

	id, mapped := model.ResolveCategoryID(original)

	rawStr, _ := raw.(string)
	return id, mapped || id != rawStr
}

// wellFormedDateTime returns raw when it looks like a local datetime
// (contains the date/time separator), else "".
func wellFormedDateTime(raw any) string {
	s, ok := raw.(string)
	if !ok || !strings.Contains(s, "T") {
		return ""
	}
	return s
}

// legacyDate returns raw when it looks like a date-only string, else "".
func legacyDate(raw any) string {
	s, ok := raw.(string)
	if !ok || len(s) < 10 {
		return ""
	}
	return s
}

// timestamp converts a decoded JSON number to millisecond Unix time.
func timestamp(raw any) (int64, bool) {
	n, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

// normalizeStatus collapses unknown status values to IN_PROGRESS.
func normalizeStatus(raw any) model.GoalStatus {
	switch raw {
	case string(model.StatusDone):
		return model.StatusDone
	case string(model.StatusFuture):
		return model.StatusFuture
	default:
		return model.StatusInProgress
	}
}
