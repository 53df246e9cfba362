// Package timetable holds the school's static slot and lesson tables and
// resolves a wall-clock instant into the status shown on the bell board.
package timetable

import (
	"fmt"
	"time"
)

// SlotKind distinguishes lesson periods from breaks.
type SlotKind string

const (
	SlotLesson SlotKind = "lesson"
	SlotBreak  SlotKind = "break"
)

// LunchBreakName is the break that gets a fixed bell window on Fridays.
const LunchBreakName = "Öğle Arası"

// ClockTime is a nominal hour/minute on the school's wall clock.
type ClockTime struct {
	Hour   int
	Minute int
}

// Before reports whether c is strictly earlier than o.
func (c ClockTime) Before(o ClockTime) bool {
	if c.Hour != o.Hour {
		return c.Hour < o.Hour
	}
	return c.Minute < o.Minute
}

// String formats the clock time as "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock time to the calendar day of day, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// TimeSlot is one named interval of the school day.
type TimeSlot struct {
	Kind   SlotKind
	Name   string
	Start  ClockTime
	End    ClockTime
	Period int // 1-based, lessons only
}

// IsLesson reports whether the slot is a numbered lesson period.
func (s TimeSlot) IsLesson() bool {
	return s.Kind == SlotLesson && s.Period > 0
}

// DailySchedule lists lesson names by period-1. An empty entry is a free period.
type DailySchedule []string

// LessonAt returns the lesson scheduled for the 1-based period, or "".
func (d DailySchedule) LessonAt(period int) string {
	if period < 1 || period > len(d) {
		return ""
	}
	return d[period-1]
}

// WeeklySchedule maps a weekday to that day's lessons. Days without an
// entry have no school.
type WeeklySchedule map[time.Weekday]DailySchedule

// MaterialKind tags how a lesson material is presented.
type MaterialKind string

const (
	MaterialInteractive  MaterialKind = "interactive"
	MaterialPresentation MaterialKind = "presentation"
	MaterialPDF          MaterialKind = "pdf"
	MaterialMultiPDF     MaterialKind = "multi-pdf"
)

// Book is one named document of a multi-pdf material.
type Book struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// LessonMaterial is the supplementary resource attached to a lesson.
// URL is set for every kind except multi-pdf, which uses Books.
type LessonMaterial struct {
	Kind  MaterialKind `json:"type"`
	Label string       `json:"label"`
	URL   string       `json:"url,omitempty"`
	Books []Book       `json:"books,omitempty"`
}

// PrimaryURL returns the link to open for the material: its URL, or the
// first book of a multi-pdf list.
func (m *LessonMaterial) PrimaryURL() string {
	if m == nil {
		return ""
	}
	if m.Kind == MaterialMultiPDF {
		if len(m.Books) > 0 {
			return m.Books[0].URL
		}
		return ""
	}
	return m.URL
}

// Timetable is the complete static configuration consumed by the resolver.
type Timetable struct {
	Slots         []TimeSlot
	Weekly        WeeklySchedule
	Materials     map[string]LessonMaterial
	Abbreviations map[string]string
	DayNames      map[time.Weekday]string
}

// Material looks up the material for a lesson. A missing entry is not an error.
func (t *Timetable) Material(lesson string) (*LessonMaterial, bool) {
	m, ok := t.Materials[lesson]
	if !ok {
		return nil, false
	}
	return &m, true
}

// DayName returns the display name of a weekday.
func (t *Timetable) DayName(day time.Weekday) string {
	if name, ok := t.DayNames[day]; ok {
		return name
	}
	return day.String()
}

// MaxPeriod returns the highest lesson period in the slot table.
func (t *Timetable) MaxPeriod() int {
	max := 0
	for _, s := range t.Slots {
		if s.IsLesson() && s.Period > max {
			max = s.Period
		}
	}
	return max
}
