package timetable

import "time"

// Bell offsets. The school rings its bells ahead of the printed timetable.
const (
	StandardOffset      = 53 * time.Second
	FridayMorningOffset = 11 * time.Minute
)

var (
	fridayMorningCutoff = ClockTime{Hour: 12, Minute: 30}
	fridayLunchStart    = ClockTime{Hour: 12, Minute: 19}
	fridayLunchEnd      = ClockTime{Hour: 13, Minute: 39}
)

// ShiftRule maps a slot's nominal times to its actual bell times on day.
type ShiftRule func(slot TimeSlot, day time.Time) (start, end time.Time)

// shiftRules is indexed by weekday. Weekend entries are nil: no slot is
// ever active on those days.
var shiftRules = [7]ShiftRule{
	time.Sunday:    nil,
	time.Monday:    shiftStandard,
	time.Tuesday:   shiftStandard,
	time.Wednesday: shiftStandard,
	time.Thursday:  shiftStandard,
	time.Friday:    shiftFriday,
	time.Saturday:  nil,
}

// RuleFor returns the shift rule for weekday, or nil when the day has none.
func RuleFor(day time.Weekday) ShiftRule {
	if day < time.Sunday || day > time.Saturday {
		return nil
	}
	return shiftRules[day]
}

// Adjust returns the actual start and end instants of slot on the calendar
// day of day. ok is false on days without a rule, in which case the nominal
// times are returned unchanged.
func Adjust(slot TimeSlot, day time.Time) (start, end time.Time, ok bool) {
	rule := RuleFor(day.Weekday())
	if rule == nil {
		return slot.Start.On(day), slot.End.On(day), false
	}
	start, end = rule(slot, day)
	return start, end, true
}

func shiftStandard(slot TimeSlot, day time.Time) (time.Time, time.Time) {
	return shiftBy(slot, day, StandardOffset)
}

func shiftFriday(slot TimeSlot, day time.Time) (time.Time, time.Time) {
	switch {
	case slot.Start.Before(fridayMorningCutoff):
		return shiftBy(slot, day, FridayMorningOffset)
	case slot.Name == LunchBreakName:
		return fridayLunchStart.On(day), fridayLunchEnd.On(day)
	default:
		return shiftBy(slot, day, StandardOffset)
	}
}

func shiftBy(slot TimeSlot, day time.Time, offset time.Duration) (time.Time, time.Time) {
	return slot.Start.On(day).Add(-offset), slot.End.On(day).Add(-offset)
}
