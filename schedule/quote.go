package schedule

// Quote is what the appointment form shows while services are being picked.
type Quote struct {
	EndTime              *TimeOfDay `json:"end_time,omitempty"`
	TotalPrice           Money      `json:"total_price"`
	TotalDurationMinutes int        `json:"total_duration_minutes"`
	CrossesMidnight      bool       `json:"crosses_midnight,omitempty"`
}

// NewQuote aggregates the selection and derives the end time. EndTime stays
// nil when the selection has no known duration; the form must not submit in
// that case.
func NewQuote(start TimeOfDay, ids []string, catalog Catalog) (Quote, error) {
	totals := Aggregate(ids, catalog)
	q := Quote{
		TotalPrice:           totals.Price,
		TotalDurationMinutes: totals.DurationMinutes,
	}
	if totals.DurationMinutes == 0 {
		return q, nil
	}

	end, err := EndTime(start, totals.DurationMinutes)
	if err != nil {
		return Quote{}, err
	}
	q.EndTime = &end
	q.CrossesMidnight = !start.Before(end)
	return q, nil
}
