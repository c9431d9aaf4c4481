package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/experiment"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/metrics"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/scenario"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/testutil"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/trial"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func runTable(t *testing.T) scenario.Table {
	t.Helper()
	f := testutil.GreenDeck(17)
	table, err := scenario.NewRunner(testutil.NopLogger()).Run(context.Background(), scenario.Scenario{
		Name: "lands",
		Base: experiment.Config{
			Deck:       f.Deck,
			TrialCount: 30,
			Seed:       11,
			Workers:    2,
			Strategy:   strategy.NameBaseline,
			Trial:      trial.Config{TurnLimit: 5, OpeningHandSize: 7, MulliganMax: 1},
			Metrics:    metrics.DefaultOptions(),
		},
		Sweeps:     []scenario.Sweep{{Parameter: scenario.ParamLandCount, Values: []string{"16", "18"}}},
		SeedPolicy: scenario.SeedShared,
		LandSlot:   f.Forest,
		FillerSlot: f.Bears,
	})
	require.NoError(t, err)
	return table
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSaveAndLoadScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	table := runTable(t)

	id, err := s.SaveScenario(ctx, table)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "lands", run.Scenario)
	assert.Equal(t, int64(11), run.Seed)
	assert.Equal(t, "shared", run.SeedPolicy)
	assert.Equal(t, []string{scenario.ParamLandCount}, run.Parameters)
	assert.Equal(t, 2, run.Points)
	assert.WithinDuration(t, time.Now(), run.CreatedAt, time.Minute)

	rows, err := s.GetRows(ctx, id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, row := range rows {
		want := table.Rows[i]
		assert.Equal(t, want.Index, row.Index)
		assert.Equal(t, want.Params, row.Params)
		assert.Equal(t, want.Summary.RunID, row.Summary.RunID)
		assert.Equal(t, want.Summary.Completed, row.Summary.Completed)
		assert.Equal(t, want.Summary, row.Summary)
	}
}

func TestSaveEmptyTable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.SaveScenario(ctx, scenario.Table{Scenario: "empty", SeedPolicy: "derived"})
	require.NoError(t, err)
	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, run.Parameters)
	assert.Zero(t, run.Points)

	rows, err := s.GetRows(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		id, err := s.SaveScenario(ctx, scenario.Table{Scenario: name, SeedPolicy: "derived"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, "c", runs[0].Scenario)
	assert.Equal(t, clock, runs[0].CreatedAt)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestUnknownRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetRows(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(ctx))

	id, err := s.SaveScenario(ctx, scenario.Table{Scenario: "mem", SeedPolicy: "derived"})
	require.NoError(t, err)
	_, err = s.GetRun(ctx, id)
	assert.NoError(t, err)
}
