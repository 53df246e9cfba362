package timetable

import (
	"sort"
	"strconv"
	"time"
)

// WeekColumn describes one slot of the weekly grid header.
type WeekColumn struct {
	Label            string   `json:"label"`
	Kind             SlotKind `json:"type"`
	Period           int      `json:"period,omitempty"`
	MondayToThursday string   `json:"mondayToThursday"`
	Friday           string   `json:"friday"`
}

// WeekCell is one slot of one day in the weekly grid.
type WeekCell struct {
	Kind        SlotKind `json:"type"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	MaterialURL string   `json:"materialUrl,omitempty"`
	FreePeriod  bool     `json:"freePeriod,omitempty"`
}

// WeekRow is one school day in the weekly grid.
type WeekRow struct {
	Weekday time.Weekday `json:"weekday"`
	DayName string       `json:"dayName"`
	Cells   []WeekCell   `json:"cells"`
}

// WeekGrid is the full weekly timetable as shown on the schedule view.
type WeekGrid struct {
	Columns []WeekColumn `json:"columns"`
	Rows    []WeekRow    `json:"rows"`
}

// referenceMonday and referenceFriday anchor the header time ranges. Any
// Monday and Friday would do; these fall outside daylight-saving changes.
var (
	referenceMonday = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)
	referenceFriday = time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
)

// Week builds the weekly grid from the timetable.
func (t *Timetable) Week() WeekGrid {
	grid := WeekGrid{Columns: make([]WeekColumn, 0, len(t.Slots))}

	for _, slot := range t.Slots {
		col := WeekColumn{
			Label:            slot.Name,
			Kind:             slot.Kind,
			MondayToThursday: formatRange(slot, referenceMonday),
			Friday:           formatRange(slot, referenceFriday),
		}
		if slot.IsLesson() {
			col.Period = slot.Period
			col.Label = strconv.Itoa(slot.Period) + ". Ders"
		}
		grid.Columns = append(grid.Columns, col)
	}

	days := make([]time.Weekday, 0, len(t.Weekly))
	for day := range t.Weekly {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	for _, day := range days {
		lessons := t.Weekly[day]
		row := WeekRow{Weekday: day, DayName: t.DayName(day), Cells: make([]WeekCell, 0, len(t.Slots))}

		for _, slot := range t.Slots {
			if !slot.IsLesson() {
				row.Cells = append(row.Cells, WeekCell{Kind: SlotBreak, Name: slot.Name, DisplayName: slot.Name})
				continue
			}

			name := lessons.LessonAt(slot.Period)
			cell := WeekCell{Kind: SlotLesson, Name: name, DisplayName: t.Abbreviate(name)}
			if name == "" {
				cell.FreePeriod = true
				cell.DisplayName = TitleFreePeriod
			} else if m, ok := t.Material(name); ok {
				cell.MaterialURL = m.PrimaryURL()
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

func formatRange(slot TimeSlot, day time.Time) string {
	start, end, _ := Adjust(slot, day)
	return FormatClock(start) + " - " + FormatClock(end)
}
