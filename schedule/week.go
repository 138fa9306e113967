package schedule

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Week is seven consecutive dates, Sunday through Saturday.
type Week [7]civil.Date

// WeekOf returns the Sunday-aligned week containing ref.
func WeekOf(ref civil.Date) Week {
	offset := int(ref.In(time.UTC).Weekday())
	start := ref.AddDays(-offset)

	var w Week
	for i := range w {
		w[i] = start.AddDays(i)
	}
	return w
}

// Shift moves the window by whole weeks; negative deltas go back.
func (w Week) Shift(deltaWeeks int) Week {
	return WeekOf(w[0].AddDays(7 * deltaWeeks))
}

func (w Week) Start() civil.Date { return w[0] }
func (w Week) End() civil.Date   { return w[6] }

func (w Week) Contains(d civil.Date) bool {
	return !d.Before(w[0]) && !d.After(w[6])
}

// Header renders "Month Year", or "Short – Month Year" when the week spans
// two months.
func (w Week) Header(l Labels) string {
	first, last := w.Start(), w.End()
	monthYear := fmt.Sprintf(l.MonthYear, l.Months[last.Month-1], last.Year)
	if first.Month == last.Month && first.Year == last.Year {
		return monthYear
	}
	return fmt.Sprintf("%s – %s", l.ShortMonths[first.Month-1], monthYear)
}

func (w Week) Strings() []string {
	out := make([]string, len(w))
	for i, d := range w {
		out[i] = d.String()
	}
	return out
}
