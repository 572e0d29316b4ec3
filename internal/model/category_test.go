package model

import "testing"

func TestResolveCategoryID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		changed bool
	}{
		{"home", "home", false},
		{"work", "work", false},
		{"fitness", "health", true},
		{"learning", "study", true},
		{"misc", "other", true},
		{"totally-unknown", "other", true},
		{"", "other", true},
	}

	for _, tt := range tests {
		got, changed := ResolveCategoryID(tt.in)
		if got != tt.want || changed != tt.changed {
			t.Errorf("ResolveCategoryID(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, changed, tt.want, tt.changed)
		}
	}
}

func TestCategoryByIDUnknownFallsBackToOther(t *testing.T) {
	if got := CategoryByID("nope"); got.ID != CategoryOther {
		t.Errorf("expected other, got %q", got.ID)
	}
}

func TestGoalsUIPrefsNormalize(t *testing.T) {
	p := GoalsUIPrefs{CategoryID: "bogus", CategoryFilter: "bogus"}.Normalize()
	if p.CategoryID != DefaultCategories[0].ID {
		t.Errorf("expected first category fallback, got %q", p.CategoryID)
	}
	if p.CategoryFilter != CategoryFilterAll {
		t.Errorf("expected all fallback, got %q", p.CategoryFilter)
	}

	valid := GoalsUIPrefs{CategoryID: "work", CategoryFilter: "health", Query: "q"}
	if got := valid.Normalize(); got != valid {
		t.Errorf("expected valid prefs unchanged, got %+v", got)
	}
}

func TestPolicyFor(t *testing.T) {
	if p := PolicyFor(TimeframeWeekly); p.Unit != UnitDays || p.Max != 7 {
		t.Errorf("unexpected weekly policy: %+v", p)
	}
	// Unknown timeframes get the daily policy.
	if p := PolicyFor(Timeframe("quarterly")); p.Unit != UnitHours {
		t.Errorf("expected daily fallback, got %+v", p)
	}
}
