package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"salon-system/appointment"
	"salon-system/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

const (
	defaultUpcomingLimit = 5
	maxUpcomingLimit     = 50
)

func (a *API) appointments() *appointment.Accessor {
	return appointment.NewAccessor(a.db, a.catalogSource())
}

// queryDate reads a YYYY-MM-DD query parameter, falling back to def when it
// is absent.
func queryDate(r *http.Request, key string, def civil.Date) (civil.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

type quoteRequest struct {
	StartTime  schedule.TimeOfDay `json:"start_time"`
	ServiceIDs []uuid.UUID        `json:"service_ids"`
}

func (a *API) quoteAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := a.appointments().Quote(r.Context(), userID, req.StartTime, req.ServiceIDs)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, quote)
}

func (a *API) createAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Status = schedule.StatusScheduled
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	appt, err := a.appointments().CreateAppointment(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.metrics.ObserveCreated(len(appt.ServiceIDs))
	a.logger.InfoContext(r.Context(), "appointment created",
		"appointment_id", appt.ID, "date", appt.Date.String(), "start", appt.StartTime.String(), "end", appt.EndTime.String())
	a.Response(w, http.StatusCreated, appt)
}

func (a *API) listAppointments(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	week := schedule.WeekOf(a.today())
	from, err := queryDate(r, "from", week.Start())
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryDate(r, "to", week.End())
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	appointments, err := a.appointments().ListAppointments(r.Context(), userID, from, to)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, appointments)
}

func (a *API) listUpcoming(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	limit := defaultUpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.Response(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxUpcomingLimit)
	}

	appointments, err := a.appointments().ListUpcoming(r.Context(), userID, a.today(), limit)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, appointments)
}

type daySummaryResponse struct {
	Date civil.Date `json:"date"`
	appointment.Summary
}

func (a *API) daySummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	date, err := queryDate(r, "date", a.today())
	if err != nil {
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	appointments, err := a.appointments().ListAppointments(r.Context(), userID, date, date)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, daySummaryResponse{Date: date, Summary: appointment.Summarize(appointments)})
}

func (a *API) getAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "appointment")
	if !ok {
		return
	}

	appt, err := a.appointments().GetAppointment(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if appt == nil {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	a.Response(w, http.StatusOK, appt)
}

func (a *API) updateAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "appointment")
	if !ok {
		return
	}

	var payload appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	payload.Status = schedule.StatusScheduled
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	appt, err := a.appointments().UpdateAppointment(r.Context(), userID, payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if appt == nil {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	a.Response(w, http.StatusOK, appt)
}

func (a *API) completeAppointment(w http.ResponseWriter, r *http.Request) {
	a.transition(w, r, schedule.StatusCompleted)
}

func (a *API) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	a.transition(w, r, schedule.StatusCancelled)
}

func (a *API) transition(w http.ResponseWriter, r *http.Request, next schedule.Status) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "appointment")
	if !ok {
		return
	}

	appt, err := a.appointments().UpdateStatus(r.Context(), userID, id, next)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if appt == nil {
		a.Response(w, http.StatusNotFound, "appointment not found")
		return
	}
	a.metrics.ObserveTransition(string(next))
	a.Response(w, http.StatusOK, appt)
}

func (a *API) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "appointment")
	if !ok {
		return
	}

	if err := a.appointments().DeleteAppointment(r.Context(), userID, id); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}
