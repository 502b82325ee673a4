package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/roasbeef/plexdash/internal/db"
	"github.com/roasbeef/plexdash/internal/viewmodel"
)

const (
	// DefaultJobsLimit is the number of job runs shown in recent activity.
	DefaultJobsLimit = 10
)

// Config holds configuration for the SQLite snapshot store.
type Config struct {
	// JobsLimit bounds the number of job runs loaded per snapshot.
	JobsLimit int

	// Clock returns the instant used to classify expired cache entries.
	Clock func() time.Time
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		JobsLimit: DefaultJobsLimit,
		Clock:     time.Now,
	}
}

// Store reads snapshots from the database shared with the generation
// service. It never writes.
type Store struct {
	cfg  Config
	exec *db.ReadExecutor
	log  *slog.Logger
}

// NewStore creates a snapshot store over an open database.
func NewStore(cfg Config, sqlDB *sql.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	if cfg.JobsLimit <= 0 {
		cfg.JobsLimit = DefaultJobsLimit
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	log = log.With("component", "snapshot")

	return &Store{
		cfg:  cfg,
		exec: db.NewReadExecutor(sqlDB, log),
		log:  log,
	}
}

// DashboardSnapshot loads playlists, recent job runs, cache statistics and
// the setup flag in a single read transaction.
func (s *Store) DashboardSnapshot(ctx context.Context,
	page string) (*viewmodel.Snapshot, error) {

	snap := &viewmodel.Snapshot{Page: page}
	now := s.cfg.Clock()

	err := s.exec.ExecRead(ctx, func(tx *sql.Tx) error {
		var err error

		snap.Playlists, err = listPlaylists(ctx, tx)
		if err != nil {
			return fmt.Errorf("list playlists: %w", err)
		}

		snap.Jobs, err = listRecentJobs(ctx, tx, s.cfg.JobsLimit)
		if err != nil {
			return fmt.Errorf("list job runs: %w", err)
		}

		snap.CacheStats, err = cacheStats(ctx, tx, now)
		if err != nil {
			return fmt.Errorf("cache stats: %w", err)
		}

		state, err := loadSetupState(ctx, tx)
		switch {
		case errors.Is(err, ErrSetupStateMissing):
			snap.SetupComplete = false

		case err != nil:
			return fmt.Errorf("setup state: %w", err)

		default:
			snap.SetupComplete = state.completed
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "Loaded dashboard snapshot",
		"playlists", len(snap.Playlists), "jobs", len(snap.Jobs),
		"cache_total", snap.CacheStats.Total)

	return snap, nil
}

// SetupInput loads the wizard position and the configured daily schedule.
func (s *Store) SetupInput(ctx context.Context) (*viewmodel.SetupInput,
	error) {

	in := &viewmodel.SetupInput{
		Steps:            WizardSteps,
		CurrentStepIndex: len(WizardSteps) - 1,
	}

	err := s.exec.ExecRead(ctx, func(tx *sql.Tx) error {
		state, err := loadSetupState(ctx, tx)
		switch {
		case errors.Is(err, ErrSetupStateMissing):
			// Never started, keep the completion step.

		case err != nil:
			return fmt.Errorf("setup state: %w", err)

		default:
			in.CurrentStepIndex = StepIndex(state.currentStep)
		}

		cron, err := loadSetting(ctx, tx, DailyPlaylistsCronKey)
		if err != nil {
			return fmt.Errorf("daily schedule: %w", err)
		}
		in.DailyPlaylistsCron = cron.UnwrapOr("")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return in, nil
}

func listPlaylists(ctx context.Context,
	tx *sql.Tx) ([]viewmodel.Playlist, error) {

	rows, err := tx.QueryContext(ctx, `
		SELECT id, "window", title, track_count, generated_at,
			plex_rating_key
		FROM playlists
		ORDER BY generated_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []viewmodel.Playlist
	for rows.Next() {
		var (
			p           viewmodel.Playlist
			window      string
			title       sql.NullString
			generatedAt int64
			ratingKey   sql.NullString
		)
		err := rows.Scan(
			&p.ID, &window, &title, &p.TrackCount, &generatedAt,
			&ratingKey,
		)
		if err != nil {
			return nil, err
		}

		p.Window = viewmodel.Window(window)
		p.Title = optString(title)
		p.GeneratedAt = fromMillis(generatedAt)
		p.PlexRatingKey = optString(ratingKey)

		playlists = append(playlists, p)
	}

	return playlists, rows.Err()
}

func listRecentJobs(ctx context.Context, tx *sql.Tx,
	limit int) ([]viewmodel.JobRun, error) {

	rows, err := tx.QueryContext(ctx, `
		SELECT id, "window", status, started_at, finished_at, error
		FROM job_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []viewmodel.JobRun
	for rows.Next() {
		var (
			j          viewmodel.JobRun
			window     string
			status     string
			startedAt  int64
			finishedAt sql.NullInt64
			jobErr     sql.NullString
		)
		err := rows.Scan(
			&j.ID, &window, &status, &startedAt, &finishedAt,
			&jobErr,
		)
		if err != nil {
			return nil, err
		}

		j.Window = viewmodel.Window(window)
		j.Status = viewmodel.JobStatus(status)
		j.StartedAt = fromMillis(startedAt)
		if finishedAt.Valid {
			j.FinishedAt = fn.Some(fromMillis(finishedAt.Int64))
		}
		j.Error = optString(jobErr)

		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

func cacheStats(ctx context.Context, tx *sql.Tx,
	now time.Time) (viewmodel.CacheStats, error) {

	stats := viewmodel.CacheStats{
		BySource: make(map[string]int),
	}

	err := tx.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN expires_at IS NOT NULL
				AND expires_at < ? THEN 1 ELSE 0 END), 0)
		FROM genre_cache`, now.UnixMilli(),
	).Scan(&stats.Total, &stats.Expired)
	if err != nil {
		return stats, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT source, COUNT(*)
		FROM genre_cache
		GROUP BY source`,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			source string
			count  int
		)
		if err := rows.Scan(&source, &count); err != nil {
			return stats, err
		}
		stats.BySource[source] = count
	}

	return stats, rows.Err()
}

type setupState struct {
	currentStep string
	completed   bool
}

func loadSetupState(ctx context.Context, tx *sql.Tx) (*setupState, error) {
	var state setupState
	err := tx.QueryRowContext(ctx, `
		SELECT current_step, completed FROM setup_state WHERE id = 1`,
	).Scan(&state.currentStep, &state.completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSetupStateMissing
	}
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func loadSetting(ctx context.Context, tx *sql.Tx,
	key string) (fn.Option[string], error) {

	var value string
	err := tx.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fn.None[string](), nil
	}
	if err != nil {
		return fn.None[string](), err
	}

	return fn.Some(value), nil
}

func optString(ns sql.NullString) fn.Option[string] {
	if !ns.Valid {
		return fn.None[string]()
	}

	return fn.Some(ns.String)
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// A compile time check to ensure Store implements Source.
var _ Source = (*Store)(nil)
