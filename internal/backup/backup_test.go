package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/routineland/routine/internal/backup"
	"github.com/routineland/routine/internal/model"
	"github.com/routineland/routine/tests/testutil"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local)

// validGoal builds a goal that survives the sanitization pipeline
// unchanged, so round-trip comparisons stay exact.
func validGoal(id, title string) model.Goal {
	return model.Goal{
		ID: id, Title: title,
		Timeframe: model.TimeframeDaily, CategoryID: "home",
		StartAt: "2024-03-06T09:00", EndAt: "2024-03-06T21:00",
		DurationValue: 12, DurationUnit: model.UnitHours,
		Status:    model.StatusInProgress,
		CreatedAt: 1700000000000, UpdatedAt: 1700000000000,
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := testutil.NewTestStore(t)

	require.NoError(t, src.SaveState(ctx, model.StoredState{
		Goals: []model.Goal{validGoal("g1", "Water plants")},
	}))
	require.NoError(t, src.SaveUIPrefs(ctx, model.TimeframeDaily, model.GoalsUIPrefs{
		CategoryID: "home", CategoryFilter: "all", Query: "plants",
	}))

	doc, err := backup.Build(ctx, src, testNow)
	require.NoError(t, err)
	require.Equal(t, backup.AppTag, doc.App)
	require.Equal(t, backup.SchemaVersion, doc.SchemaVersion)

	data, err := backup.Encode(doc)
	require.NoError(t, err)

	parsed, err := backup.Parse(data)
	require.NoError(t, err)
	require.Equal(t, doc.State, parsed.State)
	require.Equal(t, doc.UIPrefs, parsed.UIPrefs)

	dst := testutil.NewTestStore(t)
	require.NoError(t, backup.Restore(ctx, dst, parsed))

	state, err := dst.LoadState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.Goals, 1)
	require.Equal(t, "Water plants", state.Goals[0].Title)

	prefs, err := dst.LoadUIPrefs(ctx, model.TimeframeDaily)
	require.NoError(t, err)
	require.NotNil(t, prefs)
	require.Equal(t, "plants", prefs.Query)
}

func TestBuildEmptyStore(t *testing.T) {
	ctx := context.Background()

	doc, err := backup.Build(ctx, testutil.NewTestStore(t), testNow)
	require.NoError(t, err)
	require.Equal(t, model.DefaultCategories, doc.State.Categories)
	require.Empty(t, doc.State.Goals)
	require.Empty(t, doc.UIPrefs)
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"not JSON", `{"app":`, backup.ErrBadJSON},
		{"missing app tag", `{"schemaVersion":1}`, backup.ErrNotBackup},
		{"foreign app", `{"app":"todoland","schemaVersion":1}`, backup.ErrNotBackup},
		{"missing version", `{"app":"routineland"}`, backup.ErrUnsupportedVersion},
		{"newer version", `{"app":"routineland","schemaVersion":2}`, backup.ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backup.Parse([]byte(tt.text))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseMangledSectionsFallBack(t *testing.T) {
	parsed, err := backup.Parse([]byte(
		`{"app":"routineland","schemaVersion":1,"state":42,"uiPrefs":"broken"}`,
	))
	require.NoError(t, err)
	require.Equal(t, model.DefaultCategories, parsed.State.Categories)
	require.Empty(t, parsed.State.Goals)
	require.Empty(t, parsed.UIPrefs)
}

func TestRejectedImportLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	require.NoError(t, st.SaveState(ctx, model.StoredState{
		Goals: []model.Goal{validGoal("g1", "Keep me")},
	}))

	_, err := backup.Parse([]byte(`{"app":"routineland","schemaVersion":2}`))
	require.Error(t, err)

	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, state.Goals, 1)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "routineland-backup-2024-03-06.json", backup.Filename(testNow))
}
