package viewmodel

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultDailyCron is the schedule shown when none is configured.
	DefaultDailyCron = "0 5 * * *"

	// DefaultDailySchedule is the annotation of DefaultDailyCron.
	DefaultDailySchedule = "5:00 AM daily"

	// CustomSchedule annotates expressions that are not a plain daily time.
	CustomSchedule = "custom schedule"
)

// DescribeCron returns a short human-readable annotation for a five field
// cron expression. Only "M H * * *" is spelled out; every other expression
// is reported as a custom schedule.
func DescribeCron(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return CustomSchedule
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return CustomSchedule
		}
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return CustomSchedule
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return CustomSchedule
	}

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return fmt.Sprintf("%d:%02d %s daily", hour12, minute, suffix)
}
