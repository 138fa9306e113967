package api

import (
	"net/http"

	"salon-system/appointment"
	"salon-system/sale"

	"cloud.google.com/go/civil"
)

type reportResponse struct {
	From         civil.Date          `json:"from"`
	To           civil.Date          `json:"to"`
	Appointments appointment.Summary `json:"appointments"`
	Sales        sale.Summary        `json:"sales"`
}

// report sums appointments and sales over a date range, the current month by
// default.
func (a *API) report(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	first, last := monthOf(a.today())
	from, err := queryDate(r, "from", first)
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryDate(r, "to", last)
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	appointments, err := a.appointments().ListAppointments(r.Context(), userID, from, to)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	saleAccessor := sale.NewAccessor(a.db)
	sales, err := saleAccessor.ListSales(r.Context(), userID, from, to)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	a.Response(w, http.StatusOK, reportResponse{
		From:         from,
		To:           to,
		Appointments: appointment.Summarize(appointments),
		Sales:        sale.Summarize(sales),
	})
}
