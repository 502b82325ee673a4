package viewmodel

import (
	"fmt"
	"time"
)

// RelativeTime formats ts as a coarse "N{s,m,h,d} ago" string relative to
// now. Each unit is truncated, never rounded. Timestamps in the future clamp
// to "0s ago".
func RelativeTime(ts, now time.Time) string {
	seconds := int64(now.Sub(ts) / time.Second)
	if seconds < 0 {
		seconds = 0
	}

	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	return fmt.Sprintf("%dd ago", hours/24)
}
