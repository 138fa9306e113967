package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var (
	ErrEmptyStart    = errors.New("empty start time")
	ErrMalformedTime = errors.New("malformed start time")
)

// AppointmentView is the read model the calendar renders. StartTime is either
// a bare "HH:MM[:SS]" time of day or a full date-time containing a 'T'.
type AppointmentView struct {
	ID          string `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	Status      Status `json:"status"`
}

// placement is where a view lands on the grid. Undated placements come from
// bare times, which the caller has already filtered to the right day.
type placement struct {
	dated bool
	date  civil.Date
	at    TimeOfDay
}

func (p placement) matches(date civil.Date, slot TimeOfDay) bool {
	if p.dated && p.date != date {
		return false
	}
	return p.at == slot
}

func placeStart(start string) (placement, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		return placement{}, ErrEmptyStart
	}

	if strings.Contains(start, "T") {
		dt, err := parseDateTime(start)
		if err != nil {
			return placement{}, err
		}
		return placement{
			dated: true,
			date:  dt.Date,
			at:    TimeOfDay{Hour: dt.Time.Hour, Minute: dt.Time.Minute},
		}, nil
	}

	if len(start) < 5 {
		return placement{}, fmt.Errorf("%w: %q", ErrMalformedTime, start)
	}
	at, err := ParseTimeOfDay(start[:5])
	if err != nil {
		return placement{}, fmt.Errorf("%w: %q", ErrMalformedTime, start)
	}
	return placement{at: at}, nil
}

// parseDateTime keeps the wall clock as written. Offsets are accepted but
// never converted.
func parseDateTime(s string) (civil.DateTime, error) {
	if dt, err := civil.ParseDateTime(s); err == nil {
		return dt, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateTimeOf(t), nil
		}
	}
	return civil.DateTime{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
}

// Resolver answers which appointments occupy a calendar cell. It never
// fails: unparseable start times are logged and left out.
type Resolver struct {
	logger      *slog.Logger
	onMalformed func(raw string)
}

type ResolverOption func(*Resolver)

func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMalformedHook registers a callback run for every unparseable start time.
func WithMalformedHook(fn func(raw string)) ResolverOption {
	return func(r *Resolver) {
		r.onMalformed = fn
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) place(v AppointmentView) (placement, bool) {
	p, err := placeStart(v.StartTime)
	if err == nil {
		return p, true
	}
	if errors.Is(err, ErrEmptyStart) {
		r.logger.Debug("appointment without start time", "appointment_id", v.ID)
		return placement{}, false
	}
	r.logger.Warn("skipping appointment with malformed start time",
		"appointment_id", v.ID, "start_time", v.StartTime, "error", err)
	if r.onMalformed != nil {
		r.onMalformed(v.StartTime)
	}
	return placement{}, false
}

// OccupantsFor returns every view that starts in the given slot on date.
func (r *Resolver) OccupantsFor(date civil.Date, slot TimeOfDay, views []AppointmentView) []AppointmentView {
	var out []AppointmentView
	for _, v := range views {
		p, ok := r.place(v)
		if ok && p.matches(date, slot) {
			out = append(out, v)
		}
	}
	return out
}

type Cell struct {
	Date      civil.Date        `json:"date"`
	Slot      TimeOfDay         `json:"slot"`
	Occupants []AppointmentView `json:"occupants,omitempty"`
}

// OccupantSummary is what a cell shows: the first occupant only.
type OccupantSummary struct {
	Title       string `json:"title"`
	ServiceName string `json:"service_name,omitempty"`
	Status      Status `json:"status"`
	Completed   bool   `json:"completed"`
	Others      int    `json:"others,omitempty"`
}

// Summary returns nil for an empty cell. The service name is dropped in
// compact mode.
func (c Cell) Summary(compact bool, l Labels) *OccupantSummary {
	if len(c.Occupants) == 0 {
		return nil
	}
	first := c.Occupants[0]
	s := &OccupantSummary{
		Title:     first.ClientName,
		Status:    first.Status,
		Completed: first.Status == StatusCompleted,
		Others:    len(c.Occupants) - 1,
	}
	if s.Title == "" {
		s.Title = l.Untitled
	}
	if !compact {
		s.ServiceName = first.ServiceName
	}
	return s
}

// Grid is the calendar body. Rows are indexed by slot, columns by weekday.
type Grid struct {
	Week  Week
	Slots []TimeOfDay
	Rows  [][]Cell
}

// Grid places every view once and buckets it into the week's cells.
func (r *Resolver) Grid(week Week, slots []TimeOfDay, views []AppointmentView) Grid {
	type placed struct {
		view AppointmentView
		at   placement
	}
	valid := make([]placed, 0, len(views))
	for _, v := range views {
		if p, ok := r.place(v); ok {
			valid = append(valid, placed{view: v, at: p})
		}
	}

	g := Grid{Week: week, Slots: slots, Rows: make([][]Cell, len(slots))}
	for si, slot := range slots {
		row := make([]Cell, len(week))
		for di, date := range week {
			cell := Cell{Date: date, Slot: slot}
			for _, p := range valid {
				if p.at.matches(date, slot) {
					cell.Occupants = append(cell.Occupants, p.view)
				}
			}
			row[di] = cell
		}
		g.Rows[si] = row
	}
	return g
}

// Cell looks up a cell by date and slot.
func (g Grid) Cell(date civil.Date, slot TimeOfDay) (Cell, bool) {
	for si, s := range g.Slots {
		if s != slot {
			continue
		}
		for di, d := range g.Week {
			if d == date {
				return g.Rows[si][di], true
			}
		}
	}
	return Cell{}, false
}
