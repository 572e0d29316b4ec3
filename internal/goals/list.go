package goals

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/stats"
)

// ListFilter narrows a listing to one timeframe, an optional category, and
// an optional free-text query.
type ListFilter struct {
	Timeframe model.Timeframe

	// Category is a canonical category id, or "all".
	Category string

	// Query matches case-insensitively against title and description.
	Query string
}

// Group is the goals of one category, in display order.
type Group struct {
	Category model.Category
	Goals    []model.Goal
}

// List filters the collection and groups the survivors by category.
// Within each group goals sort by live status rank (active, upcoming,
// done) and then by start ascending; the zero-padded fixed-width local
// format makes the string comparison chronological. Empty groups are
// omitted and groups follow the canonical category order.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Group, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	return GroupGoals(s.Now(), state.Goals, f), nil
}

// GroupGoals is the pure filtering/grouping/sorting core behind List.
func GroupGoals(now time.Time, goals []model.Goal, f ListFilter) []Group {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	byCategory := make(map[string][]model.Goal)
	for _, g := range goals {
		if g.Timeframe != f.Timeframe {
			continue
		}
		if f.Category != "" && f.Category != model.CategoryFilterAll && g.CategoryID != f.Category {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(g.Title + " " + g.Description)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		byCategory[g.CategoryID] = append(byCategory[g.CategoryID], g)
	}

	var groups []Group
	for _, cat := range model.DefaultCategories {
		arr := byCategory[cat.ID]
		if len(arr) == 0 {
			continue
		}

		sort.SliceStable(arr, func(i, j int) bool {
			ri := stats.Rank(stats.LiveStatus(now, arr[i]))
			rj := stats.Rank(stats.LiveStatus(now, arr[j]))
			if ri != rj {
				return ri < rj
			}
			return arr[i].StartAt < arr[j].StartAt
		})

		groups = append(groups, Group{Category: cat, Goals: arr})
	}

	return groups
}
