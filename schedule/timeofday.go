package schedule

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrInvalidDuration = errors.New("duration must be between 0 and 24h, date rollover not supported")
)

var timeLayouts = []string{"15:04", "15:04:05", "15:04:05.999999999"}

// TimeOfDay is a wall-clock time with minute resolution. It carries no date
// and no time zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At builds a TimeOfDay without validation. Use ParseTimeOfDay for user input.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (fractional seconds allowed).
// Seconds are truncated.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

func fromMinutes(m int) TimeOfDay {
	m %= minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) IsValid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// Add returns t shifted by the given minutes, wrapping around midnight.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return fromMinutes(t.Minutes() + minutes)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for TIME columns.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return t.UnmarshalText(v)
	case string:
		return t.UnmarshalText([]byte(v))
	case time.Time:
		*t = TimeOfDay{Hour: v.Hour(), Minute: v.Minute()}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", value)
	}
}

// EndTime adds durationMinutes to start. A zero duration returns start
// unchanged. The result wraps past midnight without advancing any date, so
// callers that book appointments must check that the end is still after the
// start.
func EndTime(start TimeOfDay, durationMinutes int) (TimeOfDay, error) {
	if !start.IsValid() {
		return TimeOfDay{}, fmt.Errorf("%w: %s", ErrInvalidTime, start)
	}
	if durationMinutes < 0 || durationMinutes >= minutesPerDay {
		return TimeOfDay{}, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}
	return start.Add(durationMinutes), nil
}
