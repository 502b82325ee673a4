package commands

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/roasbeef/plexdash/internal/snapshot"
	"github.com/roasbeef/plexdash/internal/viewmodel"
)

// demoSource returns sample data anchored at now, for rendering pages
// without a database.
func demoSource(now time.Time) *snapshot.Static {
	ago := func(d time.Duration) time.Time {
		return now.Add(-d)
	}

	playlists := []viewmodel.Playlist{
		{
			ID: 1, Window: viewmodel.WindowMorning,
			Title: fn.Some("Morning Mix"), TrackCount: 50,
			GeneratedAt: ago(6 * time.Hour),
		},
		{
			ID: 2, Window: viewmodel.WindowAfternoon,
			Title: fn.Some("Afternoon Mix"), TrackCount: 50,
			GeneratedAt: ago(6 * time.Hour),
		},
		{
			ID: 3, Window: viewmodel.WindowEvening,
			Title: fn.Some("Evening Mix"), TrackCount: 50,
			GeneratedAt: ago(6 * time.Hour),
		},
	}
	for i, genre := range []string{
		"jazz", "rock", "electronic", "hip-hop", "classical", "folk",
		"soul", "ambient", "metal", "blues",
	} {
		playlists = append(playlists, viewmodel.Playlist{
			ID:          int64(10 + i),
			Window:      viewmodel.Window(genre),
			TrackCount:  30 + i,
			GeneratedAt: ago(30 * time.Hour),
		})
	}

	jobs := []viewmodel.JobRun{
		{
			ID: 5, Window: viewmodel.WindowEvening,
			Status: viewmodel.JobRunning, StartedAt: ago(time.Minute),
		},
		{
			ID: 4, Window: "jazz", Status: viewmodel.JobFailed,
			StartedAt:  ago(2 * time.Hour),
			FinishedAt: fn.Some(ago(2*time.Hour - 12*time.Second)),
			Error:      fn.Some("plex server unreachable: connection refused"),
		},
		{
			ID: 3, Window: viewmodel.WindowAfternoon,
			Status: viewmodel.JobSuccess, StartedAt: ago(6 * time.Hour),
			FinishedAt: fn.Some(ago(6*time.Hour - 95*time.Second)),
		},
		{
			ID: 2, Window: viewmodel.WindowMorning,
			Status: viewmodel.JobSuccess, StartedAt: ago(6 * time.Hour),
			FinishedAt: fn.Some(ago(6*time.Hour - 80*time.Second)),
		},
	}

	return &snapshot.Static{
		Snapshot: viewmodel.Snapshot{
			Playlists: playlists,
			Jobs:      jobs,
			CacheStats: viewmodel.CacheStats{
				Total: 412,
				BySource: map[string]int{
					"lastfm": 301, "spotify": 96, "manual": 15,
				},
				Expired: 7,
			},
			SetupComplete: true,
		},
		Setup: viewmodel.SetupInput{
			Steps:            snapshot.WizardSteps,
			CurrentStepIndex: len(snapshot.WizardSteps) - 1,
		},
	}
}
