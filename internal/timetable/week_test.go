package timetable

import (
	"testing"
	"time"
)

func TestWeekGrid(t *testing.T) {
	grid := loadDefault(t).Week()

	if len(grid.Columns) != 15 {
		t.Fatalf("columns = %d, want 15", len(grid.Columns))
	}

	first := grid.Columns[0]
	if first.Label != "1. Ders" || first.MondayToThursday != "08:29 - 09:09" || first.Friday != "08:19 - 08:59" {
		t.Fatalf("unexpected first column: %+v", first)
	}

	lunch := grid.Columns[9]
	if lunch.Label != LunchBreakName || lunch.MondayToThursday != "12:29 - 13:39" || lunch.Friday != "12:19 - 13:39" {
		t.Fatalf("unexpected lunch column: %+v", lunch)
	}

	if len(grid.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(grid.Rows))
	}
	for i, row := range grid.Rows {
		if row.Weekday != time.Monday+time.Weekday(i) {
			t.Fatalf("row %d is %s, rows must be sorted", i, row.Weekday)
		}
		if len(row.Cells) != len(grid.Columns) {
			t.Fatalf("%s has %d cells", row.Weekday, len(row.Cells))
		}
	}

	monday := grid.Rows[0]
	if monday.DayName != "Pazartesi" {
		t.Fatalf("day name = %q", monday.DayName)
	}
	if c := monday.Cells[0]; c.Name != "Din Kültürü" || c.MaterialURL == "" {
		t.Fatalf("unexpected monday first cell: %+v", c)
	}
	if c := monday.Cells[1]; c.Kind != SlotBreak || c.DisplayName != "Teneffüs" {
		t.Fatalf("unexpected break cell: %+v", c)
	}

	thursday := grid.Rows[3]
	if c := thursday.Cells[4]; c.Name != "Klasik Ahlak Metinleri" || c.DisplayName != "KAM" {
		t.Fatalf("unexpected thursday third period: %+v", c)
	}

	tuesday := grid.Rows[1]
	if c := tuesday.Cells[4]; c.MaterialURL == "" || c.Name != "Almanca" {
		t.Fatalf("multi-pdf cell should link its first book: %+v", c)
	}
}

func TestWeekGridMarksFreePeriods(t *testing.T) {
	tt := withWeekly(loadDefault(t), WeeklySchedule{
		time.Monday: {"", "Tarih", "Tarih", "Tarih", "Tarih", "Tarih", "Tarih", "Tarih"},
	})

	c := tt.Week().Rows[0].Cells[0]
	if !c.FreePeriod || c.DisplayName != TitleFreePeriod || c.MaterialURL != "" {
		t.Fatalf("unexpected free period cell: %+v", c)
	}
}

func TestAbbreviate(t *testing.T) {
	tt := loadDefault(t)

	tests := map[string]string{
		"":                       "",
		"Türk Dili ve Edebiyatı": "TDVE",
		"Klasik Ahlak Metinleri": "KAM",
		"Coğrafya":               "Coğrafya",
		"Adab-ı Muaşeret":        "Adab-ı Muaşeret",
		"bir iki üç dört":        "BIÜD",
	}
	for name, want := range tests {
		if got := tt.Abbreviate(name); got != want {
			t.Errorf("Abbreviate(%q) = %q, want %q", name, got, want)
		}
	}
}
