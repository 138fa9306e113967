package api

import (
	"net/http"
	"strconv"

	"salon-system/appointment"
	"salon-system/schedule"

	"cloud.google.com/go/civil"
)

type calendarDay struct {
	Date  civil.Date `json:"date"`
	Label string     `json:"label"`
	Today bool       `json:"today,omitempty"`
}

type calendarCell struct {
	Date     civil.Date                `json:"date"`
	Occupant *schedule.OccupantSummary `json:"occupant,omitempty"`
}

type calendarRow struct {
	Slot  schedule.TimeOfDay `json:"slot"`
	Cells []calendarCell     `json:"cells"`
}

type calendarResponse struct {
	Locale  string        `json:"locale"`
	Header  string        `json:"header"`
	Compact bool          `json:"compact"`
	Days    []calendarDay `json:"days"`
	Rows    []calendarRow `json:"rows"`
}

// calendar renders the week grid around ?date (default today), moved by
// ?shift weeks. ?lang overrides Accept-Language, which overrides the
// configured locale.
func (a *API) calendar(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	q := r.URL.Query()

	today := a.today()
	ref, err := queryDate(r, "date", today)
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	shift := 0
	if raw := q.Get("shift"); raw != "" {
		if shift, err = strconv.Atoi(raw); err != nil {
			a.Response(w, http.StatusBadRequest, "shift must be an integer")
			return
		}
	}
	compact := false
	if raw := q.Get("compact"); raw != "" {
		if compact, err = strconv.ParseBool(raw); err != nil {
			a.Response(w, http.StatusBadRequest, "compact must be a boolean")
			return
		}
	}

	locale := a.locale
	if lang := r.Header.Get("Accept-Language"); lang != "" {
		locale = lang
	}
	if lang := q.Get("lang"); lang != "" {
		locale = lang
	}
	labels := schedule.LabelsFor(locale)

	week := schedule.WeekOf(ref).Shift(shift)
	appointments, err := a.appointments().ListAppointments(r.Context(), userID, week.Start(), week.End())
	if err != nil {
		a.Error(w, r, err)
		return
	}

	resolver := schedule.NewResolver(
		schedule.WithLogger(a.logger),
		schedule.WithMalformedHook(a.metrics.ObserveMalformed),
	)
	grid := resolver.Grid(week, schedule.Slots(compact), appointment.Views(appointments))

	res := calendarResponse{
		Locale:  labels.Tag.String(),
		Header:  week.Header(labels),
		Compact: compact,
		Days:    make([]calendarDay, len(week)),
		Rows:    make([]calendarRow, len(grid.Rows)),
	}
	for i, d := range week {
		res.Days[i] = calendarDay{Date: d, Label: labels.Days[i], Today: d == today}
	}
	for si, row := range grid.Rows {
		cells := make([]calendarCell, len(row))
		for di, cell := range row {
			cells[di] = calendarCell{Date: cell.Date, Occupant: cell.Summary(compact, labels)}
		}
		res.Rows[si] = calendarRow{Slot: grid.Slots[si], Cells: cells}
	}
	a.Response(w, http.StatusOK, res)
}
