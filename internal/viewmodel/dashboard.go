package viewmodel

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"time"
	"unicode/utf8"
)

const (
	// MaxRecentErrors is the number of failed runs surfaced in the recent
	// errors alert.
	MaxRecentErrors = 3

	// RecentErrorWindow is the look-back used for the failure counter.
	RecentErrorWindow = 24 * time.Hour

	// MaxErrorLength is the number of characters of an error message shown
	// before it is cut off.
	MaxErrorLength = 120

	// ErrorEllipsis is appended to truncated error messages.
	ErrorEllipsis = "..."

	// MaxGenreTiles is the number of genre playlists shown individually.
	MaxGenreTiles = 8

	// DurationPending is shown for runs that are still in progress.
	DurationPending = "..."

	// DurationAbsent is shown when no duration can be derived.
	DurationAbsent = "-"

	// UnknownStatus is the label and badge suffix used for statuses outside
	// the recognized set.
	UnknownStatus = "unknown"

	// UnknownStatusBadge is the badge class shared by unrecognized
	// statuses.
	UnknownStatusBadge = "status-badge status-" + UnknownStatus
)

// PlaylistCard is a playlist prepared for the daily cards or genre tiles.
type PlaylistCard struct {
	ID           int64
	Title        string
	Icon         string
	TrackCount   int
	GeneratedAgo string
	Link         string
}

// ErrorView is a failed job run shown in the recent errors alert.
type ErrorView struct {
	JobID       int64
	Window      Window
	FailedAgo   string
	Message     string
	HasMessage  bool
	RetryAction string
}

// JobRow is a job run prepared for the recent activity table.
type JobRow struct {
	ID         int64
	Window     Window
	Status     string
	BadgeClass string
	StartedAgo string
	Duration   string
}

// CacheSourceView is one entry of the genre cache breakdown.
type CacheSourceView struct {
	Source string
	Count  int
}

// Ratio is a success/total pair rendered as "success/total".
type Ratio struct {
	Success int
	Total   int
}

// String formats the ratio. An empty ratio renders as "0/0".
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Success, r.Total)
}

// DashboardView holds every derived field the dashboard page needs.
type DashboardView struct {
	Page            string
	ShowSetupBanner bool

	// Stats overview.
	TotalPlaylists      int
	TotalTracks         int
	SuccessRatio        Ratio
	CachedArtists       int
	ExpiredCacheEntries int

	// Playlist partitions, in input order.
	DailyPlaylists        []PlaylistCard
	GenrePlaylists        []PlaylistCard
	VisibleGenrePlaylists []PlaylistCard
	GenreOverflow         bool

	// Recent errors alert.
	RecentErrors      []ErrorView
	Last24hErrorCount int
	Last24hErrorLabel string

	Jobs         []JobRow
	CacheSources []CacheSourceView
}

// HasPlaylists gates the "no playlists yet" empty state.
func (v *DashboardView) HasPlaylists() bool {
	return v.TotalPlaylists > 0
}

// HasJobs gates the "no job history yet" empty state.
func (v *DashboardView) HasJobs() bool {
	return len(v.Jobs) > 0
}

// HasCacheSources gates the empty genre cache state.
func (v *DashboardView) HasCacheSources() bool {
	return len(v.CacheSources) > 0
}

// HasRecentErrors reports whether the recent errors alert is shown.
func (v *DashboardView) HasRecentErrors() bool {
	return len(v.RecentErrors) > 0
}

// GenreTotal is the number of genre playlists, including the ones hidden by
// the overflow link.
func (v *DashboardView) GenreTotal() int {
	return len(v.GenrePlaylists)
}

// BuildDashboard derives the dashboard view from a snapshot. The function is
// pure: identical snapshots and identical now values yield identical views.
func BuildDashboard(snap Snapshot, now time.Time) *DashboardView {
	daily, genre := Categorize(snap.Playlists)

	view := &DashboardView{
		Page:                snap.Page,
		ShowSetupBanner:     !snap.SetupComplete,
		TotalPlaylists:      len(snap.Playlists),
		TotalTracks:         TotalTracks(snap.Playlists),
		SuccessRatio:        SuccessRatio(snap.Jobs),
		CachedArtists:       snap.CacheStats.Total,
		ExpiredCacheEntries: snap.CacheStats.Expired,
		DailyPlaylists:      playlistCards(daily, now),
		GenrePlaylists:      playlistCards(genre, now),
		Last24hErrorCount:   CountRecentFailures(snap.Jobs, now),
		CacheSources:        cacheSources(snap.CacheStats.BySource),
	}

	view.VisibleGenrePlaylists = view.GenrePlaylists
	if len(view.GenrePlaylists) > MaxGenreTiles {
		view.VisibleGenrePlaylists = view.GenrePlaylists[:MaxGenreTiles]
		view.GenreOverflow = true
	}

	view.Last24hErrorLabel = pluralize(view.Last24hErrorCount, "error")

	for _, job := range RecentErrors(snap.Jobs) {
		msg := job.Error.UnwrapOr("")
		view.RecentErrors = append(view.RecentErrors, ErrorView{
			JobID:       job.ID,
			Window:      job.Window,
			FailedAgo:   RelativeTime(job.StartedAt, now),
			Message:     TruncateError(msg),
			HasMessage:  msg != "",
			RetryAction: RetryAction(job.Window),
		})
	}

	view.Jobs = make([]JobRow, 0, len(snap.Jobs))
	for _, job := range snap.Jobs {
		view.Jobs = append(view.Jobs, JobRow{
			ID:         job.ID,
			Window:     job.Window,
			Status:     StatusLabel(job.Status),
			BadgeClass: BadgeClass(job.Status),
			StartedAgo: RelativeTime(job.StartedAt, now),
			Duration:   JobDuration(job),
		})
	}

	return view
}

// Categorize splits playlists into daily and genre partitions, preserving
// the relative input order within each.
func Categorize(playlists []Playlist) ([]Playlist, []Playlist) {
	var daily, genre []Playlist
	for _, p := range playlists {
		if p.Window.IsDaily() {
			daily = append(daily, p)
		} else {
			genre = append(genre, p)
		}
	}

	return daily, genre
}

// TotalTracks sums the track counts of all playlists.
func TotalTracks(playlists []Playlist) int {
	total := 0
	for _, p := range playlists {
		total += p.TrackCount
	}

	return total
}

// SuccessRatio counts successful runs against all runs.
func SuccessRatio(jobs []JobRun) Ratio {
	ratio := Ratio{Total: len(jobs)}
	for _, j := range jobs {
		if j.Status == JobSuccess {
			ratio.Success++
		}
	}

	return ratio
}

// RecentErrors returns the first MaxRecentErrors failed runs in input order.
func RecentErrors(jobs []JobRun) []JobRun {
	var failed []JobRun
	for _, j := range jobs {
		if j.Status != JobFailed {
			continue
		}

		failed = append(failed, j)
		if len(failed) == MaxRecentErrors {
			break
		}
	}

	return failed
}

// CountRecentFailures counts failed runs that started less than
// RecentErrorWindow before now. Only the given runs are counted, so for a
// snapshot the figure covers the loaded recent activity and never exceeds
// its failures.
func CountRecentFailures(jobs []JobRun, now time.Time) int {
	count := 0
	for _, j := range jobs {
		if j.Status == JobFailed && now.Sub(j.StartedAt) < RecentErrorWindow {
			count++
		}
	}

	return count
}

// TruncateError cuts messages longer than MaxErrorLength characters and
// appends ErrorEllipsis.
func TruncateError(msg string) string {
	if utf8.RuneCountInString(msg) <= MaxErrorLength {
		return msg
	}

	runes := []rune(msg)
	return string(runes[:MaxErrorLength]) + ErrorEllipsis
}

// JobDuration renders the wall time of a run in whole seconds. Running jobs
// without a finish time render DurationPending, anything else without both
// timestamps renders DurationAbsent, as does a run that rounds to zero
// seconds. Negative durations are not corrected.
func JobDuration(job JobRun) string {
	if job.FinishedAt.IsSome() && !job.StartedAt.IsZero() {
		finished := job.FinishedAt.UnwrapOr(job.StartedAt)
		millis := finished.Sub(job.StartedAt).Milliseconds()
		seconds := int64(math.Floor(float64(millis)/1000 + 0.5))
		if seconds == 0 {
			return DurationAbsent
		}

		return fmt.Sprintf("%ds", seconds)
	}

	if job.Status == JobRunning {
		return DurationPending
	}

	return DurationAbsent
}

// StatusLabel returns the text shown inside a status badge.
func StatusLabel(s JobStatus) string {
	if s == "" {
		return UnknownStatus
	}

	return string(s)
}

// BadgeClass returns the CSS classes of a status badge. Statuses outside the
// recognized set share the unknown styling.
func BadgeClass(s JobStatus) string {
	if !s.IsKnown() {
		return UnknownStatusBadge
	}

	return "status-badge status-" + string(s)
}

// PlaylistLink is the detail page of a playlist.
func PlaylistLink(id int64) string {
	return fmt.Sprintf("/playlists/%d", id)
}

// RetryAction is the form target that regenerates a window.
func RetryAction(w Window) string {
	return "/actions/generate/" + url.PathEscape(string(w))
}

func playlistCards(playlists []Playlist, now time.Time) []PlaylistCard {
	cards := make([]PlaylistCard, 0, len(playlists))
	for _, p := range playlists {
		cards = append(cards, PlaylistCard{
			ID:           p.ID,
			Title:        p.DisplayTitle(),
			Icon:         WindowIcon(p.Window),
			TrackCount:   p.TrackCount,
			GeneratedAgo: RelativeTime(p.GeneratedAt, now),
			Link:         PlaylistLink(p.ID),
		})
	}

	return cards
}

// cacheSources flattens the per-source counts, sorted by source name so that
// repeated renders are byte-identical.
func cacheSources(bySource map[string]int) []CacheSourceView {
	sources := make([]CacheSourceView, 0, len(bySource))
	for source, count := range bySource {
		sources = append(sources, CacheSourceView{
			Source: source,
			Count:  count,
		})
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Source < sources[j].Source
	})

	return sources
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
