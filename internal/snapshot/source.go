// Package snapshot loads immutable snapshots of the generation service's
// state for the view layer.
package snapshot

import (
	"context"
	"errors"

	"github.com/roasbeef/plexdash/internal/viewmodel"
)

// DailyPlaylistsCronKey is the settings key holding the daily schedule.
const DailyPlaylistsCronKey = "daily_playlists_cron"

var (
	// ErrSetupStateMissing is returned when the wizard has never been
	// started.
	ErrSetupStateMissing = errors.New("setup state not found")
)

// Source hands out fully materialized snapshots. Implementations must return
// jobs most-recent-first; the view layer relies on that order when picking
// the recent errors.
type Source interface {
	// DashboardSnapshot returns the dashboard input for the given page
	// identifier.
	DashboardSnapshot(ctx context.Context,
		page string) (*viewmodel.Snapshot, error)

	// SetupInput returns the wizard state for the completion page.
	SetupInput(ctx context.Context) (*viewmodel.SetupInput, error)
}

// WizardSteps is the ordered list of setup wizard pages.
var WizardSteps = []viewmodel.SetupStep{
	{ID: "welcome", Title: "Welcome", Path: "/setup"},
	{ID: "plex", Title: "Connect Plex", Path: "/setup/plex"},
	{ID: "api-keys", Title: "API Keys", Path: "/setup/api-keys"},
	{ID: "genres", Title: "Genre Playlists", Path: "/setup/genres"},
	{ID: "schedule", Title: "Schedule", Path: "/setup/schedule"},
	{ID: "complete", Title: "Complete", Path: "/setup/complete"},
}

// StepIndex returns the position of a wizard step, or the last step when the
// id is unknown.
func StepIndex(id string) int {
	for i, step := range WizardSteps {
		if step.ID == id {
			return i
		}
	}

	return len(WizardSteps) - 1
}

// Static is a Source over fixed values. It backs the render command's demo
// mode and tests.
type Static struct {
	Snapshot viewmodel.Snapshot
	Setup    viewmodel.SetupInput
}

// DashboardSnapshot returns a copy of the fixed snapshot with the page set.
func (s *Static) DashboardSnapshot(_ context.Context,
	page string) (*viewmodel.Snapshot, error) {

	snap := s.Snapshot
	snap.Page = page

	return &snap, nil
}

// SetupInput returns a copy of the fixed wizard state.
func (s *Static) SetupInput(_ context.Context) (*viewmodel.SetupInput,
	error) {

	in := s.Setup
	return &in, nil
}

// A compile time check to ensure Static implements Source.
var _ Source = (*Static)(nil)
