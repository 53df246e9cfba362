package timetable

import (
	"reflect"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)

	tests := []struct {
		name       string
		now        time.Time
		wantKind   StatusKind
		wantTitle  string
		wantLesson string
		wantEndsAt string
	}{
		{"monday before school", at(6, 7, 0, 0), StatusBeforeSchool, TitleBeforeSchool, "", ""},
		{"one second before first bell", at(6, 8, 29, 6), StatusBeforeSchool, TitleBeforeSchool, "", ""},
		{"first bell", at(6, 8, 29, 7), StatusLesson, "1. Ders", "Din Kültürü", "09:09"},
		{"end of first lesson is break", at(6, 9, 9, 7), StatusBreak, "Teneffüs", "", "09:24"},
		{"tuesday third period", at(7, 10, 30, 0), StatusLesson, "3. Ders", "Almanca", "10:54"},
		{"monday lunch", at(6, 13, 0, 0), StatusBreak, LunchBreakName, "", "13:39"},
		{"last bell", at(6, 15, 59, 7), StatusAfterSchool, TitleAfterSchool, "", ""},
		{"monday evening", at(6, 16, 0, 0), StatusAfterSchool, TitleAfterSchool, "", ""},
		{"friday morning", at(10, 8, 19, 0), StatusLesson, "1. Ders", "Kur’an-ı Kerim", "08:59"},
		{"friday fifth period", at(10, 12, 18, 59), StatusLesson, "5. Ders", "Matematik", "12:19"},
		{"friday lunch", at(10, 12, 19, 0), StatusBreak, LunchBreakName, "", "13:39"},
		{"friday gap after lunch", at(10, 13, 39, 3), StatusAfterSchool, TitleAfterSchool, "", ""},
		{"friday sixth period", at(10, 13, 39, 7), StatusLesson, "6. Ders", "Matematik", "14:19"},
		{"saturday", at(11, 10, 0, 0), StatusWeekend, TitleWeekend, "", ""},
		{"sunday", at(12, 10, 0, 0), StatusWeekend, TitleWeekend, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := r.Resolve(tc.now)
			if st.Kind != tc.wantKind {
				t.Fatalf("kind = %q, want %q", st.Kind, tc.wantKind)
			}
			if st.Title != tc.wantTitle {
				t.Errorf("title = %q, want %q", st.Title, tc.wantTitle)
			}
			if st.LessonName != tc.wantLesson {
				t.Errorf("lesson = %q, want %q", st.LessonName, tc.wantLesson)
			}
			if st.OfficialEndsAt != tc.wantEndsAt {
				t.Errorf("officialEndsAt = %q, want %q", st.OfficialEndsAt, tc.wantEndsAt)
			}
			inSlot := tc.wantKind == StatusLesson || tc.wantKind == StatusBreak
			if inSlot != (st.Start != nil && st.End != nil) {
				t.Errorf("start/end presence = %v, want %v", st.Start != nil, inSlot)
			}
		})
	}
}

func TestResolveAttachesMaterial(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)

	st := r.Resolve(at(7, 10, 30, 0))
	if st.Material == nil {
		t.Fatal("expected material for Almanca")
	}
	if st.Material.Kind != MaterialMultiPDF || len(st.Material.Books) != 2 {
		t.Fatalf("unexpected material: %+v", st.Material)
	}
	if st.Material.PrimaryURL() != st.Material.Books[0].URL {
		t.Fatalf("primary url should be the first book")
	}

	// Adab-ı Muaşeret has no material; that is not an error.
	st = r.Resolve(at(6, 12, 0, 0))
	if st.Kind != StatusLesson || st.LessonName != "Adab-ı Muaşeret" {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Material != nil {
		t.Fatalf("expected no material, got %+v", st.Material)
	}
}

func TestResolveFreePeriod(t *testing.T) {
	base := loadDefault(t)
	tt := withWeekly(base, WeeklySchedule{
		time.Monday: {"Tarih", "", "Tarih", "Tarih", "Tarih", "Tarih", "Tarih", "Tarih"},
	})
	r := NewResolverWithLocation(tt, istanbul)

	st := r.Resolve(at(6, 9, 30, 0))
	if st.Kind != StatusBreak || st.Title != TitleFreePeriod {
		t.Fatalf("got %q %q, want free period break", st.Kind, st.Title)
	}
	if st.OfficialEndsAt != "10:04" || st.End == nil || !st.End.Equal(at(6, 10, 4, 7)) {
		t.Fatalf("free period should carry slot times, got %+v", st)
	}
}

func TestResolveNoSchoolDay(t *testing.T) {
	base := loadDefault(t)
	tt := withWeekly(base, WeeklySchedule{time.Monday: base.Weekly[time.Monday]})
	r := NewResolverWithLocation(tt, istanbul)

	st := r.Resolve(at(8, 10, 0, 0))
	if st.Kind != StatusNoSchoolDay || st.Title != TitleNoSchoolDay {
		t.Fatalf("got %q %q, want no_school_day", st.Kind, st.Title)
	}
	if r.NextLesson(at(8, 7, 0, 0)) != nil {
		t.Fatal("expected no next lesson on a day without school")
	}
}

func TestResolveFirstMatchWinsOnOverlap(t *testing.T) {
	tt := &Timetable{
		Slots: []TimeSlot{
			{Kind: SlotLesson, Name: "1. Ders", Start: ClockTime{9, 0}, End: ClockTime{10, 0}, Period: 1},
			{Kind: SlotBreak, Name: "Teneffüs", Start: ClockTime{9, 30}, End: ClockTime{10, 30}},
		},
		Weekly: WeeklySchedule{time.Monday: {"Fizik"}},
	}
	r := NewResolverWithLocation(tt, istanbul)

	if st := r.Resolve(at(6, 9, 40, 0)); st.Kind != StatusLesson {
		t.Fatalf("got %q, want the earlier slot to win", st.Kind)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)

	for _, now := range []time.Time{at(6, 7, 0, 0), at(7, 10, 30, 0), at(10, 12, 30, 0), at(11, 9, 0, 0)} {
		first := r.Resolve(now)
		second := r.Resolve(now)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("resolve(%s) differs between calls: %+v vs %+v", now, first, second)
		}
	}
}

func TestResolveWeekendIffSaturdayOrSunday(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)
	valid := map[StatusKind]bool{
		StatusLesson: true, StatusBreak: true, StatusWeekend: true,
		StatusBeforeSchool: true, StatusAfterSchool: true, StatusNoSchoolDay: true,
	}

	for now := at(6, 0, 0, 0); now.Before(at(13, 0, 0, 0)); now = now.Add(7*time.Minute + 13*time.Second) {
		st := r.Resolve(now)
		if !valid[st.Kind] {
			t.Fatalf("resolve(%s) returned unknown kind %q", now, st.Kind)
		}
		weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday
		if (st.Kind == StatusWeekend) != weekend {
			t.Fatalf("resolve(%s) = %q on %s", now, st.Kind, now.Weekday())
		}
	}
}

func TestResolveUsesResolverLocation(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)

	// 05:29:07 UTC is 08:29:07 in Istanbul.
	st := r.Resolve(time.Date(2025, time.January, 6, 5, 29, 7, 0, time.UTC))
	if st.Kind != StatusLesson || st.LessonName != "Din Kültürü" {
		t.Fatalf("got %+v, want first lesson", st)
	}
}

func TestNextLesson(t *testing.T) {
	r := NewResolverWithLocation(loadDefault(t), istanbul)

	tests := []struct {
		name      string
		now       time.Time
		wantName  string
		wantStart string
	}{
		{"before school", at(6, 7, 0, 0), "Din Kültürü", "08:29"},
		{"at first bell", at(6, 8, 29, 7), "Din Kültürü", "09:24"},
		{"during lunch", at(6, 13, 0, 0), "Coğrafya", "13:39"},
		{"friday morning", at(10, 8, 0, 0), "Kur’an-ı Kerim", "08:19"},
		{"last lesson started", at(6, 15, 30, 0), "", ""},
		{"saturday", at(11, 7, 0, 0), "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := r.NextLesson(tc.now)
			if tc.wantName == "" {
				if next != nil {
					t.Fatalf("expected no next lesson, got %+v", next)
				}
				return
			}
			if next == nil {
				t.Fatal("expected a next lesson")
			}
			if next.Name != tc.wantName || next.StartTime != tc.wantStart {
				t.Fatalf("got %s at %s, want %s at %s", next.Name, next.StartTime, tc.wantName, tc.wantStart)
			}
		})
	}
}

func TestNextLessonSkipsFreePeriods(t *testing.T) {
	tt := withWeekly(loadDefault(t), WeeklySchedule{
		time.Monday: {"Tarih", "", "Fizik", "", "", "", "", ""},
	})
	r := NewResolverWithLocation(tt, istanbul)

	next := r.NextLesson(at(6, 8, 45, 0))
	if next == nil || next.Name != "Fizik" || next.StartTime != "10:14" {
		t.Fatalf("got %+v, want Fizik at 10:14", next)
	}
	if next := r.NextLesson(at(6, 10, 30, 0)); next != nil {
		t.Fatalf("only free periods remain, got %+v", next)
	}
}

func TestCountdown(t *testing.T) {
	end := at(6, 9, 9, 7)
	st := Status{Kind: StatusLesson, End: &end}

	tests := []struct {
		name     string
		now      time.Time
		wantSecs int
		wantLive bool
	}{
		{"exactly twenty", end.Add(-20 * time.Second), 20, true},
		{"exactly twenty one", end.Add(-21 * time.Second), 0, false},
		{"rounds down", end.Add(-20400 * time.Millisecond), 20, true},
		{"half rounds up", end.Add(-20500 * time.Millisecond), 0, false},
		{"at the bell", end, 0, true},
		{"half second left", end.Add(-500 * time.Millisecond), 1, true},
		{"far away", end.Add(-10 * time.Minute), 0, false},
		{"past the end", end.Add(2 * time.Second), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			secs, live := Countdown(st, tc.now)
			if secs != tc.wantSecs || live != tc.wantLive {
				t.Fatalf("got (%d, %v), want (%d, %v)", secs, live, tc.wantSecs, tc.wantLive)
			}
		})
	}

	if _, live := Countdown(Status{Kind: StatusWeekend}, end); live {
		t.Fatal("status without an end must never have a live countdown")
	}
}
