package stats

import (
	"time"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
)

// TimeframeStats counts open vs done goals within one timeframe.
type TimeframeStats struct {
	Total int `json:"total"`
	Open  int `json:"open"`
	Done  int `json:"done"`
}

// ComputeTimeframeStats tallies goals of one timeframe by live status.
func ComputeTimeframeStats(now time.Time, goals []model.Goal, tf model.Timeframe) TimeframeStats {
	var st TimeframeStats
	for _, g := range goals {
		if g.Timeframe != tf {
			continue
		}
		st.Total++
		if LiveStatus(now, g) == model.StatusDone {
			st.Done++
		} else {
			st.Open++
		}
	}
	return st
}

// Totals aggregates all goals regardless of timeframe.
type Totals struct {
	All     int `json:"all"`
	Open    int `json:"open"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

// ComputeTotals tallies the whole collection and the done percentage.
func ComputeTotals(now time.Time, goals []model.Goal) Totals {
	t := Totals{All: len(goals)}
	for _, g := range goals {
		if LiveStatus(now, g) == model.StatusDone {
			t.Done++
		} else {
			t.Open++
		}
	}
	if t.All > 0 {
		t.Percent = int(float64(t.Done)/float64(t.All)*100 + 0.5)
	}
	return t
}

// HomeStats summarizes recent completions for the home screen.
type HomeStats struct {
	DoneToday    int `json:"doneToday"`
	DoneThisWeek int `json:"doneThisWeek"`
	StreakDays   int `json:"streakDays"`
}

// maxStreakScan bounds the backward streak walk so a pathological ledger
// cannot loop forever.
const maxStreakScan = 3650

// ComputeHomeStats computes today's and this week's completion counts and
// the consecutive-day completion streak ending today. Weeks start Sunday
// 00:00 local. Goals completed before DoneAt existed fall back to
// UpdatedAt, then CreatedAt.
func ComputeHomeStats(now time.Time, goals []model.Goal) HomeStats {
	weekStart := dateutil.StartOfWeekSunday(now)

	// Bucket completions by calendar day.
	doneByDay := make(map[string]int)
	for _, g := range goals {
		if g.Status != model.StatusDone {
			continue
		}
		d := dateutil.FromMillis(completedAt(g))
		doneByDay[dateutil.DayKey(d)]++
	}

	var st HomeStats
	st.DoneToday = doneByDay[dateutil.DayKey(now)]

	for key, count := range doneByDay {
		d, err := dateutil.ParseDateTime(key)
		if err != nil {
			continue
		}
		if !d.Before(weekStart) && !d.After(now) {
			st.DoneThisWeek += count
		}
	}

	cursor := dateutil.StartOfDay(now)
	for i := 0; i < maxStreakScan; i++ {
		if doneByDay[dateutil.DayKey(cursor)] == 0 {
			break
		}
		st.StreakDays++
		cursor = dateutil.AddDays(cursor, -1)
	}

	return st
}

// completedAt returns the effective completion timestamp for a done goal.
func completedAt(g model.Goal) int64 {
	if g.DoneAt != nil {
		return *g.DoneAt
	}
	if g.UpdatedAt != 0 {
		return g.UpdatedAt
	}
	return g.CreatedAt
}
