package viewmodel

import "strings"

// SetupStep describes one page of the setup wizard.
type SetupStep struct {
	ID    string
	Title string
	Path  string
}

// StepState is the progress state of a wizard step relative to the current
// one.
type StepState string

const (
	StepComplete StepState = "complete"
	StepCurrent  StepState = "current"
	StepUpcoming StepState = "upcoming"
)

// StepView is a wizard step prepared for the progress indicator.
type StepView struct {
	SetupStep

	Number int
	State  StepState
}

// SetupInput is the wizard state handed to the completion page.
type SetupInput struct {
	Steps              []SetupStep
	CurrentStepIndex   int
	DailyPlaylistsCron string
}

// DailyMix describes one of the daily playlists generated together.
type DailyMix struct {
	Window  Window
	Icon    string
	Name    string
	History string
}

// CustomizationItem is an entry of the "what can I customize" menu.
type CustomizationItem struct {
	Setting     string
	Description string
	Location    string
}

// CLICommand is an entry of the command line reference.
type CLICommand struct {
	Comment string
	Command string
}

// QuickAction is a large navigation button.
type QuickAction struct {
	Href     string
	Icon     string
	Title    string
	Subtitle string
	Class    string
}

// Link is a labelled hyperlink.
type Link struct {
	Href  string
	Label string
}

// SetupCompleteView holds the content of the wizard completion page.
type SetupCompleteView struct {
	Steps            []StepView
	CurrentStepIndex int

	Schedule           string
	ScheduleAnnotation string
	UsingDefault       bool

	DailyMixes         []DailyMix
	QuickActions       []QuickAction
	CustomizationItems []CustomizationItem
	CLICommands        []CLICommand
	HelpLinks          []Link
}

// IsComplete reports whether the wizard is positioned on its last step.
func (v *SetupCompleteView) IsComplete() bool {
	return len(v.Steps) > 0 && v.CurrentStepIndex == len(v.Steps)-1
}

// The static sections of the completion page are shared by every view.
var (
	dailyMixes = []DailyMix{
		{WindowMorning, "🌅", "Morning Mix", "6am-12pm history"},
		{WindowAfternoon, "☀️", "Afternoon Mix", "12pm-6pm history"},
		{WindowEvening, "🌙", "Evening Mix", "6pm-12am history"},
	}

	quickActions = []QuickAction{
		{"/actions", "🎵", "Generate Now", "Create playlists immediately", ""},
		{"/playlists", "📋", "View Playlists", "Browse generated playlists", "secondary"},
		{"/config", "⚙️", "Settings", "Customize parameters", "secondary"},
	}

	customizationItems = []CustomizationItem{
		{"Scheduling", "Change when playlists are generated", "Configuration → Scheduling"},
		{"Playlist Size", "Adjust target number of tracks", "Configuration → Scoring"},
		{"Genre Limits", "Control max percentage per genre", "Configuration → Scoring"},
		{"Artist Variety", "Change max tracks per artist", "Configuration → Scoring"},
		{"Recency Bias", "Adjust half-life for recency weighting", "Configuration → Scoring"},
		{"API Keys", "Add or update Last.fm/Spotify keys", "Configuration → Environment"},
		{"Genre Playlists", "Configure which genres get playlists", "Configuration → Playlists"},
	}

	cliCommands = []CLICommand{
		{"Generate a specific playlist", "plex-playlists run morning"},
		{"Generate all daily playlists", "plex-playlists run-all"},
		{"Warm the genre cache", "plex-playlists cache warm"},
		{"Import ratings from CSV", "plex-playlists import /path/to/csv"},
	}

	helpLinks = []Link{
		{"https://github.com/aceofaces/plex-playlists/blob/main/README.md", "documentation"},
		{"https://github.com/aceofaces/plex-playlists/blob/main/docs/troubleshooting.md", "troubleshooting guide"},
	}
)

// BuildSetupComplete derives the completion page content. Only the schedule
// and the step progress depend on the input.
func BuildSetupComplete(in SetupInput) *SetupCompleteView {
	view := &SetupCompleteView{
		CurrentStepIndex:   in.CurrentStepIndex,
		DailyMixes:         dailyMixes,
		QuickActions:       quickActions,
		CustomizationItems: customizationItems,
		CLICommands:        cliCommands,
		HelpLinks:          helpLinks,
	}

	view.Schedule = strings.TrimSpace(in.DailyPlaylistsCron)
	if view.Schedule == "" {
		view.Schedule = DefaultDailyCron
		view.ScheduleAnnotation = DefaultDailySchedule
		view.UsingDefault = true
	} else {
		view.ScheduleAnnotation = DescribeCron(view.Schedule)
	}

	view.Steps = make([]StepView, 0, len(in.Steps))
	for i, step := range in.Steps {
		state := StepUpcoming
		switch {
		case i < in.CurrentStepIndex:
			state = StepComplete
		case i == in.CurrentStepIndex:
			state = StepCurrent
		}

		view.Steps = append(view.Steps, StepView{
			SetupStep: step,
			Number:    i + 1,
			State:     state,
		})
	}

	return view
}

// CLIReference joins the command reference into the text shown in the
// collapsible code block.
func CLIReference(cmds []CLICommand) string {
	var b strings.Builder
	for i, c := range cmds {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("# ")
		b.WriteString(c.Comment)
		b.WriteString("\n")
		b.WriteString(c.Command)
	}

	return b.String()
}
