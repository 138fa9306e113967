package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salon-system/sale"

	"cloud.google.com/go/civil"
)

// monthOf returns the first and last day of d's month.
func monthOf(d civil.Date) (civil.Date, civil.Date) {
	first := civil.Date{Year: d.Year, Month: d.Month, Day: 1}
	last := civil.DateOf(time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC))
	return first, last
}

func (a *API) createSale(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload sale.Sale
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Defaults(a.now())
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	saleAccessor := sale.NewAccessor(a.db)
	s, err := saleAccessor.CreateSale(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.metrics.ObserveSale(string(s.PaymentMethod))
	a.logger.InfoContext(r.Context(), "sale recorded",
		"sale_id", s.ID, "date", s.Date.String(), "items", len(s.Items), "total", s.Total.String())
	a.Response(w, http.StatusCreated, s)
}

func (a *API) listSales(w http.ResponseWriter, r *http.Request) {
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

	saleAccessor := sale.NewAccessor(a.db)
	sales, err := saleAccessor.ListSales(r.Context(), userID, from, to)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, sales)
}

func (a *API) getSale(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "sale")
	if !ok {
		return
	}

	saleAccessor := sale.NewAccessor(a.db)
	s, err := saleAccessor.GetSale(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if s == nil {
		a.Response(w, http.StatusNotFound, "sale not found")
		return
	}
	a.Response(w, http.StatusOK, s)
}
