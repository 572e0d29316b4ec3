package model

// Category is one entry in the fixed category table.
type Category struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// CategoryOther is the fallback category for unknown or legacy ids.
const CategoryOther = "other"

// DefaultCategories is the canonical category set. The ids are closed:
// every goal's CategoryID must be one of these five. Stored categories are
// always overwritten with this table on load and save, so display names
// and colors can change without a data migration.
var DefaultCategories = []Category{
	{ID: "home", DisplayName: "Household", Color: "#60A5FA"},
	{ID: "work", DisplayName: "Work", Color: "#34D399"},
	{ID: "health", DisplayName: "Health & fitness", Color: "#F87171"},
	{ID: "study", DisplayName: "Learning & leisure", Color: "#FBBF24"},
	{ID: CategoryOther, DisplayName: "Other", Color: "#A78BFA"},
}

// categoryAliases maps ids that existed in older installs onto the current
// closed set, so old goals keep a sensible category instead of dropping to
// "other".
var categoryAliases = map[string]string{
	"chores":      "home",
	"house":       "home",
	"home_chores": "home",

	"job":    "work",
	"office": "work",

	"fitness":        "health",
	"sport":          "health",
	"gym":            "health",
	"training":       "health",
	"health_fitness": "health",

	"learning": "study",
	"learn":    "study",
	"leisure":  "study",
	"hobby":    "study",
	"topic":    "study",
	"subject":  "study",

	"friends":       CategoryOther,
	"social":        CategoryOther,
	"relationships": CategoryOther,
	"contact":       CategoryOther,
	"networking":    CategoryOther,
	"misc":          CategoryOther,
}

// IsCategoryID reports whether id is in the canonical set.
func IsCategoryID(id string) bool {
	for _, c := range DefaultCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryByID returns the canonical category for id, or the "other"
// category when id is unknown.
func CategoryByID(id string) Category {
	for _, c := range DefaultCategories {
		if c.ID == id {
			return c
		}
	}
	return DefaultCategories[len(DefaultCategories)-1]
}

// ResolveCategoryID maps an arbitrary stored category id through the alias
// table and validates it against the closed set. It returns the resolved id
// and whether the input had to change.
func ResolveCategoryID(raw string) (string, bool) {
	id := raw
	if mapped, ok := categoryAliases[id]; ok {
		id = mapped
	}
	if !IsCategoryID(id) {
		id = CategoryOther
	}
	return id, id != raw
}
