package remind_test

import (
	"context"
	"testing"
	"time"

	"github.com/routineland/routine/internal/dateutil"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/internal/remind"
	"github.com/routineland/routine/internal/store"
	"github.com/routineland/routine/tests/testutil"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 30, 0, time.Local)

// captureNotifier records delivered reminders instead of printing them.
type captureNotifier struct {
	goals []model.Goal
}

func (n *captureNotifier) Notify(_ context.Context, goal model.Goal) error {
	n.goals = append(n.goals, goal)
	return nil
}

func startingAt(id string, offset time.Duration) model.Goal {
	return model.Goal{
		ID: id, Title: id,
		Timeframe: model.TimeframeDaily, CategoryID: "home",
		StartAt: dateutil.FormatDateTime(testNow.Add(offset)),
		EndAt:   dateutil.FormatDateTime(testNow.Add(offset + 12*time.Hour)),
		DurationValue: 12, DurationUnit: model.UnitHours,
		Status:    model.StatusInProgress,
		CreatedAt: dateutil.Millis(testNow),
		UpdatedAt: dateutil.Millis(testNow),
	}
}

func seed(t *testing.T, enabled bool, goals ...model.Goal) (*remind.Engine, *captureNotifier, *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	st := testutil.NewTestStore(t)
	if err := st.SaveState(ctx, model.StoredState{Goals: goals}); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if err := st.SaveRemindersPrefs(ctx, model.RemindersPrefs{Enabled: enabled}); err != nil {
		t.Fatalf("SaveRemindersPrefs failed: %v", err)
	}

	notifier := &captureNotifier{}
	return remind.New(st, notifier, 0, 0), notifier, st
}

func TestFireDueDisabled(t *testing.T) {
	engine, notifier, _ := seed(t, false, startingAt("g1", -time.Minute))

	count, err := engine.FireDue(context.Background(), testNow)
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 0 || len(notifier.goals) != 0 {
		t.Errorf("expected no reminders while disabled, fired %d", count)
	}
}

func TestFireDueFiresOnce(t *testing.T) {
	engine, notifier, _ := seed(t, true, startingAt("g1", -time.Minute))
	ctx := context.Background()

	count, err := engine.FireDue(ctx, testNow)
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reminder, got %d", count)
	}
	if len(notifier.goals) != 1 || notifier.goals[0].ID != "g1" {
		t.Fatal("expected g1 to be delivered")
	}

	// The ledger persists the firing, so a second pass is silent.
	count, err = engine.FireDue(ctx, testNow)
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected dedup on second pass, fired %d", count)
	}
}

func TestFireDueWindow(t *testing.T) {
	engine, notifier, _ := seed(t, true,
		startingAt("missed", -10*time.Minute), // older than the lookback
		startingAt("upcoming", time.Hour),
		startingAt("due", -time.Minute),
	)

	count, err := engine.FireDue(context.Background(), testNow)
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 1 || len(notifier.goals) != 1 || notifier.goals[0].ID != "due" {
		t.Errorf("expected only the due goal to fire, fired %d", count)
	}
}

func TestFireDueSkipsDone(t *testing.T) {
	done := startingAt("g1", -time.Minute)
	done.Status = model.StatusDone

	engine, _, _ := seed(t, true, done)

	count, err := engine.FireDue(context.Background(), testNow)
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected done goals to be skipped, fired %d", count)
	}
}

func TestEditedStartFiresAgain(t *testing.T) {
	engine, notifier, st := seed(t, true, startingAt("g1", -time.Minute))
	ctx := context.Background()

	if _, err := engine.FireDue(ctx, testNow); err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}

	// Moving the start gives the goal a new ledger key, so it becomes
	// eligible to fire once more.
	moved := startingAt("g1", 30*time.Minute)
	if err := st.SaveState(ctx, model.StoredState{Goals: []model.Goal{moved}}); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	count, err := engine.FireDue(ctx, testNow.Add(31*time.Minute))
	if err != nil {
		t.Fatalf("FireDue failed: %v", err)
	}
	if count != 1 || len(notifier.goals) != 2 {
		t.Errorf("expected the moved start to fire again, fired %d", count)
	}
}

func TestNextWake(t *testing.T) {
	engine, _, _ := seed(t, true,
		startingAt("sooner", time.Hour),
		startingAt("later", 2*time.Hour),
		startingAt("past", -time.Hour),
	)

	next, ok := engine.NextWake(context.Background(), testNow)
	if !ok {
		t.Fatal("expected an upcoming start")
	}
	want := dateutil.FormatDateTime(testNow.Add(time.Hour))
	if got := dateutil.FormatDateTime(next); got != want {
		t.Errorf("expected wake at %s, got %s", want, got)
	}
}

func TestNextWakeEmpty(t *testing.T) {
	engine, _, _ := seed(t, true)

	if _, ok := engine.NextWake(context.Background(), testNow); ok {
		t.Error("expected no wake time for an empty collection")
	}
}
