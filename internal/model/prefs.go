package model

// GoalsUIPrefs holds the last-used form defaults and filters for one
// timeframe's goal screen. The values are advisory: anything missing or
// invalid falls back to a safe default on read.
type GoalsUIPrefs struct {
	CategoryID     string `json:"categoryId"`
	CategoryFilter string `json:"categoryFilter"`
	Query          string `json:"query"`
}

// CategoryFilterAll selects every category in list filters.
const CategoryFilterAll = "all"

// Normalize clamps the prefs to valid values: the form category must be a
// canonical id and the filter must be "all" or a canonical id.
func (p GoalsUIPrefs) Normalize() GoalsUIPrefs {
	if !IsCategoryID(p.CategoryID) {
		p.CategoryID = DefaultCategories[0].ID
	}
	if p.CategoryFilter != CategoryFilterAll && !IsCategoryID(p.CategoryFilter) {
		p.CategoryFilter = CategoryFilterAll
	}
	return p
}

// RemindersPrefs controls the best-effort goal-start reminder engine.
type RemindersPrefs struct {
	Enabled bool `json:"enabled"`
}
