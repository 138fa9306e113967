package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"salon-system/appointment"
	"salon-system/client"
	"salon-system/sale"
)

func (a *API) createClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload client.Client
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	clientAccessor := client.NewAccessor(a.db)
	c, err := clientAccessor.CreateClient(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, c)
}

func (a *API) listClients(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	clientAccessor := client.NewAccessor(a.db)
	clients, err := clientAccessor.ListClients(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, clients)
}

func (a *API) getClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "client")
	if !ok {
		return
	}

	clientAccessor := client.NewAccessor(a.db)
	c, err := clientAccessor.GetClient(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if c == nil {
		a.Response(w, http.StatusNotFound, "client not found")
		return
	}
	a.Response(w, http.StatusOK, c)
}

func (a *API) updateClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "client")
	if !ok {
		return
	}

	var payload client.Client
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	clientAccessor := client.NewAccessor(a.db)
	c, err := clientAccessor.UpdateClient(r.Context(), userID, payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if c == nil {
		a.Response(w, http.StatusNotFound, "client not found")
		return
	}
	a.Response(w, http.StatusOK, c)
}

func (a *API) deleteClient(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "client")
	if !ok {
		return
	}

	clientAccessor := client.NewAccessor(a.db)
	if err := clientAccessor.DeleteClient(r.Context(), userID, id); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}

type clientHistoryResponse struct {
	Client       *client.Client            `json:"client"`
	Appointments []appointment.Appointment `json:"appointments"`
	Sales        []sale.Sale               `json:"sales"`
}

// clientHistory lists a client's appointments and purchases, newest first.
func (a *API) clientHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "client")
	if !ok {
		return
	}

	clientAccessor := client.NewAccessor(a.db)
	c, err := clientAccessor.GetClient(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if c == nil {
		a.Response(w, http.StatusNotFound, "client not found")
		return
	}

	appointments, err := a.appointments().ListByClient(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	saleAccessor := sale.NewAccessor(a.db)
	sales, err := saleAccessor.ListByClient(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}

	a.Response(w, http.StatusOK, clientHistoryResponse{Client: c, Appointments: appointments, Sales: sales})
}
