package appointment

import "salon-system/schedule"

// Summary is the day overview: counts per status and the revenue expected
// from appointments that were not cancelled.
type Summary struct {
	Total           int            `json:"total"`
	Completed       int            `json:"completed"`
	Pending         int            `json:"pending"`
	Cancelled       int            `json:"cancelled"`
	ExpectedRevenue schedule.Money `json:"expected_revenue"`
}

func Summarize(appointments []Appointment) Summary {
	var s Summary
	for _, a := range appointments {
		s.Total++
		switch a.Status {
		case schedule.StatusCompleted:
			s.Completed++
		case schedule.StatusScheduled:
			s.Pending++
		case schedule.StatusCancelled:
			s.Cancelled++
			continue
		}
		if a.Price != nil {
			s.ExpectedRevenue += *a.Price
		}
	}
	return s
}
