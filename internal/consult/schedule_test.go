package consult

import (
	"errors"
	"testing"
	"time"
)

func TestParseMinuteOfDay(t *testing.T) {
	ok := []struct {
		in   string
		want MinuteOfDay
	}{
		{"00:00", 0},
		{"09:05", 9*60 + 5},
		{"15:04", 15*60 + 4},
		{"23:59", 23*60 + 59},
		{" 10:30 ", 10*60 + 30},
	}
	for _, c := range ok {
		got, err := ParseMinuteOfDay(c.in)
		if err != nil {
			t.Errorf("ParseMinuteOfDay(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseMinuteOfDay(%q) = %d, want %d", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "10", "24:00", "12:60", "ab:cd", "-1:30"} {
		if _, err := ParseMinuteOfDay(in); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseMinuteOfDay(%q) err = %v, want ErrValidation", in, err)
		}
	}
}

func TestMinuteOfDayString(t *testing.T) {
	if got := MinuteOfDay(9*60 + 5).String(); got != "09:05" {
		t.Errorf("String() = %q, want 09:05", got)
	}
	// Правая граница суток печатается как полночь.
	if got := MinuteOfDay(1440).String(); got != "00:00" {
		t.Errorf("String(1440) = %q, want 00:00", got)
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("  Wednesday ")
	if err != nil {
		t.Fatalf("ParseWeekday: %v", err)
	}
	if d != time.Wednesday {
		t.Fatalf("ParseWeekday = %s", d)
	}

	for _, in := range []string{"saturday", "sunday", "", "fri day"} {
		if _, err := ParseWeekday(in); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseWeekday(%q) err = %v, want ErrValidation", in, err)
		}
	}
}

func TestWeeklyWindowValidate(t *testing.T) {
	good := WeeklyWindow{Weekday: time.Tuesday, Start: 10 * 60, End: 11 * 60}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}

	bad := []WeeklyWindow{
		{Weekday: time.Sunday, Start: 10 * 60, End: 11 * 60},
		{Weekday: time.Saturday, Start: 10 * 60, End: 11 * 60},
		{Weekday: time.Tuesday, Start: 11 * 60, End: 10 * 60},
		{Weekday: time.Tuesday, Start: 10 * 60, End: 10 * 60},
		{Weekday: time.Tuesday, Start: -5, End: 10 * 60},
		{Weekday: time.Tuesday, Start: 10 * 60, End: 1500},
	}
	for _, w := range bad {
		if err := w.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("Validate(%+v) err = %v, want ErrValidation", w, err)
		}
	}
}

func TestWeeklyWindowOccurrences(t *testing.T) {
	w := WeeklyWindow{Weekday: time.Tuesday, Start: 10 * 60, End: 11 * 60}

	// Понедельник 7 сентября, три недели вперёд.
	from := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 21)

	got := w.Occurrences(from, to)
	if len(got) != 3 {
		t.Fatalf("occurrences = %d, want 3", len(got))
	}
	first := got[0]
	if first.Start.Day() != 8 || first.Start.Hour() != 10 || first.End.Hour() != 11 {
		t.Fatalf("first = %v .. %v", first.Start, first.End)
	}
	if got[1].Start.Sub(got[0].Start) != 7*24*time.Hour {
		t.Fatalf("occurrences not a week apart")
	}

	// from после начала первого интервала: он отбрасывается.
	late := time.Date(2026, 9, 8, 10, 30, 0, 0, time.UTC)
	if got := w.Occurrences(late, to); len(got) != 2 {
		t.Fatalf("late occurrences = %d, want 2", len(got))
	}

	// Пустое окно запроса.
	if got := w.Occurrences(to, from); len(got) != 0 {
		t.Fatalf("inverted range occurrences = %d, want 0", len(got))
	}
}

func TestWeeklyWindowOverlaps(t *testing.T) {
	base := WeeklyWindow{Weekday: time.Monday, Start: 10 * 60, End: 12 * 60}

	cases := []struct {
		other WeeklyWindow
		want  bool
	}{
		{WeeklyWindow{Weekday: time.Monday, Start: 11 * 60, End: 13 * 60}, true},
		{WeeklyWindow{Weekday: time.Monday, Start: 9 * 60, End: 10*60 + 30}, true},
		// Касание концами — не пересечение.
		{WeeklyWindow{Weekday: time.Monday, Start: 12 * 60, End: 13 * 60}, false},
		{WeeklyWindow{Weekday: time.Monday, Start: 9 * 60, End: 10 * 60}, false},
		// Другой день недели.
		{WeeklyWindow{Weekday: time.Tuesday, Start: 10 * 60, End: 12 * 60}, false},
	}
	for _, c := range cases {
		if got := base.Overlaps(c.other); got != c.want {
			t.Errorf("Overlaps(%+v) = %v, want %v", c.other, got, c.want)
		}
	}
}
