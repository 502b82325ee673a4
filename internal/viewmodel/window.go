package viewmodel

// Window names the generation slot of a playlist. The three daily slots are
// fixed; every other value is a genre identifier.
type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
)

// DefaultWindowIcon is shown for genre windows.
const DefaultWindowIcon = "🎵"

// IsDaily returns true if the window is one of the fixed daily slots.
func (w Window) IsDaily() bool {
	switch w {
	case WindowMorning, WindowAfternoon, WindowEvening:
		return true
	default:
		return false
	}
}

// WindowIcon returns the display glyph for a playlist window.
func WindowIcon(w Window) string {
	switch w {
	case WindowMorning:
		return "🌅"
	case WindowAfternoon:
		return "☀️"
	case WindowEvening:
		return "🌙"
	default:
		return DefaultWindowIcon
	}
}
