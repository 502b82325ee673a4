package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRelativeTime verifies the unit thresholds and truncation rules.
func TestRelativeTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"zero", 0, "0s ago"},
		{"seconds", 30 * time.Second, "30s ago"},
		{"sub-second truncated", 59*time.Second + 999*time.Millisecond, "59s ago"},
		{"one minute", 60 * time.Second, "1m ago"},
		{"ninety seconds", 90 * time.Second, "1m ago"},
		{"just under an hour", 3599 * time.Second, "59m ago"},
		{"one hour", 3700 * time.Second, "1h ago"},
		{"just under a day", 24*time.Hour - time.Second, "23h ago"},
		{"one day", 90000 * time.Second, "1d ago"},
		{"many days", 10*24*time.Hour + 5*time.Hour, "10d ago"},
		{"future clamps", -5 * time.Minute, "0s ago"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := RelativeTime(now.Add(-tc.elapsed), now)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestWindowIcon verifies the fixed glyph mapping and the genre fallback.
func TestWindowIcon(t *testing.T) {
	t.Parallel()

	require.Equal(t, "🌅", WindowIcon(WindowMorning))
	require.Equal(t, "☀️", WindowIcon(WindowAfternoon))
	require.Equal(t, "🌙", WindowIcon(WindowEvening))
	require.Equal(t, DefaultWindowIcon, WindowIcon("synthwave"))
	require.Equal(t, DefaultWindowIcon, WindowIcon(""))

	require.True(t, WindowMorning.IsDaily())
	require.False(t, Window("Morning").IsDaily())
}
