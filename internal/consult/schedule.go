package consult

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange представляет конкретный временной интервал [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Консультации проводятся только по будним дням.
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
}

// ParseWeekday разбирает название будного дня ("monday" .. "friday").
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: weekday %q is not a working day", ErrValidation, s)
	}
	return d, nil
}

// WeekdayAllowed сообщает, разрешён ли день для слота (понедельник — пятница).
func WeekdayAllowed(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// WeeklyWindow — повторяющееся недельное окно консультации:
// день недели плюс интервал времени внутри дня.
type WeeklyWindow struct {
	Weekday time.Weekday
	Start   MinuteOfDay
	End     MinuteOfDay
}

// Validate проверяет инварианты окна: будний день, корректные границы,
// начало строго раньше конца.
func (w WeeklyWindow) Validate() error {
	if !WeekdayAllowed(w.Weekday) {
		return fmt.Errorf("%w: weekday %s is not a working day", ErrValidation, w.Weekday)
	}
	if !w.Start.Valid() || !w.End.Valid() {
		return fmt.Errorf("%w: time of day out of range", ErrValidation)
	}
	if w.Start >= w.End {
		return fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}
	return nil
}

// Occurrences разворачивает недельное окно в конкретные интервалы внутри
// [from, to). Интервалы, начинающиеся вне окна запроса, отбрасываются.
func (w WeeklyWindow) Occurrences(from, to time.Time) []TimeRange {
	if !to.After(from) {
		return []TimeRange{}
	}

	// Сдвигаемся к первому нужному дню недели не раньше from.
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for day.Weekday() != w.Weekday {
		day = day.AddDate(0, 0, 1)
	}

	var result []TimeRange
	for ; day.Before(to); day = day.AddDate(0, 0, 7) {
		start := day.Add(time.Duration(w.Start) * time.Minute)
		end := day.Add(time.Duration(w.End) * time.Minute)
		if start.Before(from) || !start.Before(to) {
			continue
		}
		result = append(result, TimeRange{Start: start, End: end})
	}

	return result
}

// Overlaps сообщает, пересекаются ли два окна одного дня недели.
// Интервалы полуоткрытые: касание концами пересечением не считается.
func (w WeeklyWindow) Overlaps(other WeeklyWindow) bool {
	if w.Weekday != other.Weekday {
		return false
	}
	return w.Start < other.End && other.Start < w.End
}
