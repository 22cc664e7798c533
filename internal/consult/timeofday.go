package consult

import (
	"fmt"
	"strconv"
	"strings"
)

// MinuteOfDay — время внутри дня с точностью до минуты: 0 .. 1440.
// Хранится в БД как smallint, сериализуется в формате "ЧЧ:ММ".
type MinuteOfDay int

const minutesPerDay = 24 * 60

// ParseMinuteOfDay разбирает строку вида "15:04".
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: time %q must be in HH:MM form", ErrValidation, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrValidation, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: time %q out of range", ErrValidation, s)
	}
	return MinuteOfDay(h*60 + m), nil
}

// Valid сообщает, лежит ли значение в границах суток.
// 1440 допускается как правая граница интервала (полночь следующего дня).
func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m <= minutesPerDay
}

func (m MinuteOfDay) Hour() int   { return int(m) / 60 }
func (m MinuteOfDay) Minute() int { return int(m) % 60 }

// String возвращает "ЧЧ:ММ".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", m.Hour()%24, m.Minute())
}
