package timetable

import (
	"testing"
	"time"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

// Week of 2025-01-06: Monday the 6th through Sunday the 12th.
func at(day, hour, min, sec int) time.Time {
	return time.Date(2025, time.January, day, hour, min, sec, 0, istanbul)
}

func loadDefault(t *testing.T) *Timetable {
	t.Helper()
	tt, err := Default()
	if err != nil {
		t.Fatalf("load default timetable: %v", err)
	}
	return tt
}

// withWeekly returns a copy of tt whose weekly table is replaced by weekly.
func withWeekly(tt *Timetable, weekly WeeklySchedule) *Timetable {
	clone := *tt
	clone.Weekly = weekly
	return &clone
}
