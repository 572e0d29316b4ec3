package stats

import (
	"testing"
	"time"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local) // a Wednesday

func TestLiveStatus(t *testing.T) {
	tests := []struct {
		name string
		goal model.Goal
		want model.GoalStatus
	}{
		{
			name: "done is sticky even before the start",
			goal: model.Goal{Status: model.StatusDone, StartAt: "2024-03-07T09:00"},
			want: model.StatusDone,
		},
		{
			name: "future start",
			goal: model.Goal{Status: model.StatusInProgress, StartAt: "2024-03-06T12:30"},
			want: model.StatusFuture,
		},
		{
			name: "started",
			goal: model.Goal{Status: model.StatusInProgress, StartAt: "2024-03-06T09:00"},
			want: model.StatusInProgress,
		},
		{
			name: "persisted FUTURE is re-derived once the start passes",
			goal: model.Goal{Status: model.StatusFuture, StartAt: "2024-03-06T09:00"},
			want: model.StatusInProgress,
		},
		{
			name: "unparseable start counts as started",
			goal: model.Goal{Status: model.StatusInProgress, StartAt: "whenever"},
			want: model.StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LiveStatus(testNow, tt.goal); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRankOrdersActiveFirst(t *testing.T) {
	if !(Rank(model.StatusInProgress) < Rank(model.StatusFuture)) {
		t.Error("expected IN_PROGRESS before FUTURE")
	}
	if !(Rank(model.StatusFuture) < Rank(model.StatusDone)) {
		t.Error("expected FUTURE before DONE")
	}
}

func TestComputeTotalsPercentRounds(t *testing.T) {
	done := func() model.Goal { return model.Goal{Status: model.StatusDone} }
	open := func() model.Goal {
		return model.Goal{Status: model.StatusInProgress, StartAt: "2024-03-01T00:00"}
	}

	totals := ComputeTotals(testNow, []model.Goal{done(), open(), open()})
	if totals.Percent != 33 {
		t.Errorf("expected 33, got %d", totals.Percent)
	}

	totals = ComputeTotals(testNow, []model.Goal{done(), done(), open()})
	if totals.Percent != 67 {
		t.Errorf("expected 67, got %d", totals.Percent)
	}

	if got := ComputeTotals(testNow, nil); got.Percent != 0 || got.All != 0 {
		t.Errorf("expected zero totals for empty input, got %+v", got)
	}
}

func TestComputeTimeframeStats(t *testing.T) {
	goals := []model.Goal{
		{Timeframe: model.TimeframeDaily, Status: model.StatusDone},
		{Timeframe: model.TimeframeDaily, Status: model.StatusInProgress, StartAt: "2024-03-01T00:00"},
		{Timeframe: model.TimeframeWeekly, Status: model.StatusInProgress, StartAt: "2024-03-01T00:00"},
	}

	st := ComputeTimeframeStats(testNow, goals, model.TimeframeDaily)
	if st.Total != 2 || st.Done != 1 || st.Open != 1 {
		t.Errorf("unexpected daily stats: %+v", st)
	}
}

// doneOn builds a completed goal whose DoneAt falls on the given day.
func doneOn(d time.Time) model.Goal {
	ms := dateutil.Millis(d)
	return model.Goal{Status: model.StatusDone, DoneAt: &ms}
}

func TestComputeHomeStats(t *testing.T) {
	day := func(offset int) time.Time {
		return testNow.AddDate(0, 0, offset)
	}

	goals := []model.Goal{
		doneOn(day(0)),
		doneOn(day(0)),
		doneOn(day(-1)),
		doneOn(day(-2)),
		// Last Saturday: before the Sunday week start, breaks the streak.
		doneOn(day(-4)),
		// Open goal, never counted.
		{Status: model.StatusInProgress, StartAt: "2024-03-01T00:00"},
	}

	st := ComputeHomeStats(testNow, goals)
	if st.DoneToday != 2 {
		t.Errorf("expected 2 done today, got %d", st.DoneToday)
	}
	// Sunday Mar 3 through Wednesday: today, yesterday and Monday count.
	if st.DoneThisWeek != 4 {
		t.Errorf("expected 4 done this week, got %d", st.DoneThisWeek)
	}
	// Wednesday, Tuesday, Monday completed; Sunday not.
	if st.StreakDays != 3 {
		t.Errorf("expected streak of 3, got %d", st.StreakDays)
	}
}

func TestComputeHomeStatsTimestampFallback(t *testing.T) {
	// Goals completed before DoneAt existed fall back to UpdatedAt.
	g := model.Goal{
		Status:    model.StatusDone,
		UpdatedAt: dateutil.Millis(testNow),
	}

	st := ComputeHomeStats(testNow, []model.Goal{g})
	if st.DoneToday != 1 {
		t.Errorf("expected UpdatedAt fallback to count today, got %d", st.DoneToday)
	}
}

func TestComputeHomeStatsNoCompletionsToday(t *testing.T) {
	goals := []model.Goal{doneOn(testNow.AddDate(0, 0, -1))}

	st := ComputeHomeStats(testNow, goals)
	if st.DoneToday != 0 {
		t.Errorf("expected 0 done today, got %d", st.DoneToday)
	}
	// A gap today means no current streak.
	if st.StreakDays != 0 {
		t.Errorf("expected streak 0, got %d", st.StreakDays)
	}
}
