package timetable

import (
	"math"
	"time"
)

// StatusKind is the coarse state of the school day.
type StatusKind string

const (
	StatusLesson       StatusKind = "lesson"
	StatusBreak        StatusKind = "break"
	StatusWeekend      StatusKind = "weekend"
	StatusBeforeSchool StatusKind = "before_school"
	StatusAfterSchool  StatusKind = "after_school"
	StatusNoSchoolDay  StatusKind = "no_school_day"
)

// Display titles.
const (
	TitleWeekend      = "Hafta Sonu Tatili"
	TitleNoSchoolDay  = "Bugün Ders Yok"
	TitleFreePeriod   = "Boş Ders"
	TitleBeforeSchool = "Dersler Başlamadı"
	TitleAfterSchool  = "Dersler Bitti"
)

// CountdownWindow is how many seconds before a bell the countdown shows.
const CountdownWindow = 20

// Status is the resolved state of the board at one instant.
// Start, End and OfficialEndsAt are only set inside a slot.
type Status struct {
	Kind           StatusKind      `json:"status"`
	Title          string          `json:"title"`
	LessonName     string          `json:"lessonName,omitempty"`
	Material       *LessonMaterial `json:"lessonMaterial,omitempty"`
	OfficialEndsAt string          `json:"officialEndsAt,omitempty"`
	Start          *time.Time      `json:"startTime,omitempty"`
	End            *time.Time      `json:"endTime,omitempty"`
}

// NextLesson is the upcoming lesson of the current day.
type NextLesson struct {
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	Start     time.Time `json:"start"`
}

// Resolver turns instants into board statuses. It holds no mutable state.
type Resolver struct {
	tt       *Timetable
	location *time.Location
}

// NewResolver creates a resolver in the local time zone.
func NewResolver(tt *Timetable) *Resolver {
	return NewResolverWithLocation(tt, time.Local)
}

// NewResolverWithLocation creates a resolver for a specific time zone.
func NewResolverWithLocation(tt *Timetable, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{tt: tt, location: loc}
}

// Timetable returns the configuration the resolver reads from.
func (r *Resolver) Timetable() *Timetable {
	return r.tt
}

// Location returns the resolver's time zone.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Resolve returns the status at now.
func (r *Resolver) Resolve(now time.Time) Status {
	local := now.In(r.location)
	day := local.Weekday()

	if day == time.Saturday || day == time.Sunday {
		return Status{Kind: StatusWeekend, Title: TitleWeekend}
	}

	lessons, ok := r.tt.Weekly[day]
	if !ok {
		return Status{Kind: StatusNoSchoolDay, Title: TitleNoSchoolDay}
	}

	// First match in table order wins if slots ever overlap.
	for _, slot := range r.tt.Slots {
		start, end, _ := Adjust(slot, local)
		if local.Before(start) || !local.Before(end) {
			continue
		}

		st := Status{
			Kind:           StatusBreak,
			Title:          slot.Name,
			OfficialEndsAt: FormatClock(end),
			Start:          &start,
			End:            &end,
		}
		if !slot.IsLesson() {
			return st
		}

		name := lessons.LessonAt(slot.Period)
		if name == "" {
			st.Title = TitleFreePeriod
			return st
		}
		st.Kind = StatusLesson
		st.LessonName = name
		st.Material, _ = r.tt.Material(name)
		return st
	}

	firstStart, _, _ := Adjust(r.tt.Slots[0], local)
	if local.Before(firstStart) {
		return Status{Kind: StatusBeforeSchool, Title: TitleBeforeSchool}
	}
	return Status{Kind: StatusAfterSchool, Title: TitleAfterSchool}
}

// NextLesson returns the first scheduled lesson that starts strictly after
// now on the same day, or nil.
func (r *Resolver) NextLesson(now time.Time) *NextLesson {
	local := now.In(r.location)
	day := local.Weekday()
	if RuleFor(day) == nil {
		return nil
	}

	lessons, ok := r.tt.Weekly[day]
	if !ok {
		return nil
	}

	for _, slot := range r.tt.Slots {
		if !slot.IsLesson() {
			continue
		}
		start, _, _ := Adjust(slot, local)
		if !start.After(local) {
			continue
		}
		if name := lessons.LessonAt(slot.Period); name != "" {
			return &NextLesson{Name: name, StartTime: FormatClock(start), Start: start}
		}
	}
	return nil
}

// Countdown returns the whole seconds left until st ends and whether the
// countdown is live, i.e. within [0, CountdownWindow].
func Countdown(st Status, now time.Time) (int, bool) {
	if st.End == nil {
		return 0, false
	}
	// Halves round up, never away from zero.
	secs := int(math.Floor(st.End.Sub(now).Seconds() + 0.5))
	if secs < 0 || secs > CountdownWindow {
		return 0, false
	}
	return secs, true
}

// FormatClock formats an instant as zero-padded 24-hour "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
