// Package viewmodel derives display-ready structures for the dashboard and
// setup pages from immutable snapshots of upstream state. Every builder is a
// pure function of its input and an explicit "now".
package viewmodel

import (
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// JobStatus is the lifecycle state of a playlist generation job run.
type JobStatus string

const (
	// JobRunning is the only non-terminal state.
	JobRunning JobStatus = "running"

	// JobSuccess marks a run that produced a playlist.
	JobSuccess JobStatus = "success"

	// JobFailed marks a run that ended with an error.
	JobFailed JobStatus = "failed"
)

// IsKnown returns true if the status is one of the recognized states.
func (s JobStatus) IsKnown() bool {
	switch s {
	case JobRunning, JobSuccess, JobFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for success and failed.
func (s JobStatus) IsTerminal() bool {
	return s == JobSuccess || s == JobFailed
}

// Playlist is a generated playlist as recorded by the generation engine.
type Playlist struct {
	ID            int64
	Window        Window
	Title         fn.Option[string]
	TrackCount    int
	GeneratedAt   time.Time
	PlexRatingKey fn.Option[string]
}

// DisplayTitle returns the playlist title, falling back to the window name
// when no title was recorded.
func (p Playlist) DisplayTitle() string {
	title := p.Title.UnwrapOr("")
	if title == "" {
		return string(p.Window)
	}

	return title
}

// JobRun is a single execution record of a scheduled generation attempt.
// FinishedAt is set for terminal runs and Error only for failed ones.
type JobRun struct {
	ID         int64
	Window     Window
	Status     JobStatus
	StartedAt  time.Time
	FinishedAt fn.Option[time.Time]
	Error      fn.Option[string]
}

// CacheStats summarizes the genre cache. Total is not required to equal the
// sum of BySource since expired entries may be counted separately.
type CacheStats struct {
	Total    int
	BySource map[string]int
	Expired  int
}

// Snapshot is the complete input of a dashboard render. Jobs are expected
// most-recent-first; the builders never re-sort them.
type Snapshot struct {
	Playlists     []Playlist
	Jobs          []JobRun
	CacheStats    CacheStats
	SetupComplete bool

	// Page identifies the active navigation entry of the layout shell.
	Page string
}
