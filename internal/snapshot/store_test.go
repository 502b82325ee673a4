package snapshot

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roasbeef/plexdash/internal/db"
	"github.com/roasbeef/plexdash/internal/viewmodel"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// testHarness opens a migrated temp database and a store reading it.
type testHarness struct {
	t     *testing.T
	db    *sql.DB
	store *Store
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	sqliteStore, err := db.NewSqliteStore(&db.SqliteConfig{
		DatabaseFileName: filepath.Join(t.TempDir(), "test.db"),
		Migrate:          true,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqliteStore.Close()
	})

	cfg := DefaultConfig()
	cfg.JobsLimit = 3
	cfg.Clock = func() time.Time { return testNow }

	return &testHarness{
		t:     t,
		db:    sqliteStore.DB(),
		store: NewStore(cfg, sqliteStore.DB(), nil),
	}
}

func (h *testHarness) exec(query string, args ...any) {
	h.t.Helper()

	_, err := h.db.Exec(query, args...)
	require.NoError(h.t, err)
}

func ms(d time.Duration) int64 {
	return testNow.Add(-d).UnixMilli()
}

// TestDashboardSnapshotEmpty verifies an empty database yields an empty,
// incomplete-setup snapshot.
func TestDashboardSnapshotEmpty(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)

	snap, err := h.store.DashboardSnapshot(context.Background(), "dashboard")
	require.NoError(t, err)
	require.Equal(t, "dashboard", snap.Page)
	require.Empty(t, snap.Playlists)
	require.Empty(t, snap.Jobs)
	require.Zero(t, snap.CacheStats.Total)
	require.Empty(t, snap.CacheStats.BySource)
	require.False(t, snap.SetupComplete)
}

// TestDashboardSnapshot verifies rows are mapped and ordered as the view
// layer expects.
func TestDashboardSnapshot(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)

	h.exec(`INSERT INTO playlists ("window", title, track_count,
		generated_at, plex_rating_key) VALUES (?, ?, ?, ?, ?)`,
		"morning", "Morning Mix", 50, ms(2*time.Hour), "1234")
	h.exec(`INSERT INTO playlists ("window", title, track_count,
		generated_at) VALUES (?, NULL, ?, ?)`,
		"jazz", 30, ms(time.Hour))

	// Five runs, inserted out of order. Only the newest three are kept.
	h.exec(`INSERT INTO job_runs ("window", status, started_at,
		finished_at, error) VALUES (?, ?, ?, ?, ?)`,
		"morning", "failed", ms(5*time.Hour), ms(5*time.Hour-time.Minute),
		"plex unreachable")
	h.exec(`INSERT INTO job_runs ("window", status, started_at)
		VALUES (?, ?, ?)`, "evening", "running", ms(time.Minute))
	h.exec(`INSERT INTO job_runs ("window", status, started_at,
		finished_at) VALUES (?, ?, ?, ?)`,
		"afternoon", "success", ms(3*time.Hour), ms(3*time.Hour-time.Minute))
	h.exec(`INSERT INTO job_runs ("window", status, started_at,
		finished_at) VALUES (?, ?, ?, ?)`,
		"jazz", "success", ms(48*time.Hour), ms(48*time.Hour-time.Minute))
	h.exec(`INSERT INTO job_runs ("window", status, started_at,
		finished_at) VALUES (?, ?, ?, ?)`,
		"rock", "success", ms(4*time.Hour), ms(4*time.Hour-time.Minute))

	h.exec(`INSERT INTO genre_cache (artist_name, genres, source,
		cached_at, expires_at) VALUES
		('a', 'rock', 'lastfm', ?, ?),
		('b', 'jazz', 'lastfm', ?, ?),
		('c', 'pop', 'spotify', ?, NULL)`,
		ms(time.Hour), testNow.Add(time.Hour).UnixMilli(),
		ms(time.Hour), ms(time.Minute),
		ms(time.Hour),
	)

	h.exec(`INSERT INTO setup_state (id, current_step, completed,
		updated_at) VALUES (1, 'complete', 1, ?)`, ms(0))

	snap, err := h.store.DashboardSnapshot(context.Background(), "dashboard")
	require.NoError(t, err)

	require.Len(t, snap.Playlists, 2)
	require.Equal(t, viewmodel.Window("jazz"), snap.Playlists[0].Window)
	require.True(t, snap.Playlists[0].Title.IsNone())
	require.Equal(t, "jazz", snap.Playlists[0].DisplayTitle())
	require.Equal(t, "1234", snap.Playlists[1].PlexRatingKey.UnwrapOr(""))
	require.Equal(
		t, testNow.Add(-2*time.Hour).UnixMilli(),
		snap.Playlists[1].GeneratedAt.UnixMilli(),
	)

	require.Len(t, snap.Jobs, 3)
	require.Equal(t, viewmodel.JobRunning, snap.Jobs[0].Status)
	require.True(t, snap.Jobs[0].FinishedAt.IsNone())
	require.Equal(t, viewmodel.Window("afternoon"), snap.Jobs[1].Window)
	require.Equal(t, viewmodel.Window("rock"), snap.Jobs[2].Window)

	require.Equal(t, 3, snap.CacheStats.Total)
	require.Equal(t, 1, snap.CacheStats.Expired)
	require.Equal(t, map[string]int{
		"lastfm":  2,
		"spotify": 1,
	}, snap.CacheStats.BySource)

	require.True(t, snap.SetupComplete)
}

// TestRecentFailureCountBounded verifies the 24 hour error count is taken
// from the loaded job window rather than the whole table.
func TestRecentFailureCountBounded(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)

	for i := 1; i <= 5; i++ {
		started := time.Duration(i) * time.Hour
		h.exec(`INSERT INTO job_runs ("window", status, started_at,
			finished_at, error) VALUES (?, ?, ?, ?, ?)`,
			"morning", "failed", ms(started), ms(started-time.Minute),
			"plex unreachable")
	}

	snap, err := h.store.DashboardSnapshot(context.Background(), "dashboard")
	require.NoError(t, err)
	require.Len(t, snap.Jobs, 3)

	view := viewmodel.BuildDashboard(*snap, testNow)
	require.Equal(t, 3, view.Last24hErrorCount)
	require.Equal(t, "3 errors", view.Last24hErrorLabel)
}

// TestSetupInput verifies the wizard position and schedule lookup.
func TestSetupInput(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	ctx := context.Background()

	in, err := h.store.SetupInput(ctx)
	require.NoError(t, err)
	require.Equal(t, WizardSteps, in.Steps)
	require.Equal(t, len(WizardSteps)-1, in.CurrentStepIndex)
	require.Empty(t, in.DailyPlaylistsCron)

	h.exec(`INSERT INTO setup_state (id, current_step, completed,
		updated_at) VALUES (1, 'genres', 0, ?)`, ms(0))
	h.exec(`INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`, DailyPlaylistsCronKey, "30 6 * * *", ms(0))

	in, err = h.store.SetupInput(ctx)
	require.NoError(t, err)
	require.Equal(t, StepIndex("genres"), in.CurrentStepIndex)
	require.Equal(t, "30 6 * * *", in.DailyPlaylistsCron)
}

// TestStepIndexUnknown verifies unknown step ids fall back to the last step.
func TestStepIndexUnknown(t *testing.T) {
	t.Parallel()

	require.Zero(t, StepIndex("welcome"))
	require.Equal(t, len(WizardSteps)-1, StepIndex("retired-step"))
}

// TestStaticSource verifies the fixed source stamps the page identifier and
// hands out copies.
func TestStaticSource(t *testing.T) {
	t.Parallel()

	src := &Static{
		Snapshot: viewmodel.Snapshot{SetupComplete: true},
		Setup:    viewmodel.SetupInput{DailyPlaylistsCron: "0 7 * * *"},
	}

	snap, err := src.DashboardSnapshot(context.Background(), "dashboard")
	require.NoError(t, err)
	require.Equal(t, "dashboard", snap.Page)
	require.Empty(t, src.Snapshot.Page)

	in, err := src.SetupInput(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0 7 * * *", in.DailyPlaylistsCron)
}
