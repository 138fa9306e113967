package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"salon-system/service"
)

func (a *API) createService(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload service.Service
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	serviceAccessor := service.NewAccessor(a.db)
	svc, err := serviceAccessor.CreateService(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.invalidateCatalog(r)
	a.Response(w, http.StatusCreated, svc)
}

func (a *API) listServices(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	serviceAccessor := service.NewAccessor(a.db)
	services, err := serviceAccessor.ListServices(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, services)
}

func (a *API) getService(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "service")
	if !ok {
		return
	}

	serviceAccessor := service.NewAccessor(a.db)
	svc, err := serviceAccessor.GetService(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if svc == nil {
		a.Response(w, http.StatusNotFound, "service not found")
		return
	}
	a.Response(w, http.StatusOK, svc)
}

func (a *API) updateService(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "service")
	if !ok {
		return
	}

	var payload service.Service
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	serviceAccessor := service.NewAccessor(a.db)
	svc, err := serviceAccessor.UpdateService(r.Context(), userID, payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if svc == nil {
		a.Response(w, http.StatusNotFound, "service not found")
		return
	}
	a.invalidateCatalog(r)
	a.Response(w, http.StatusOK, svc)
}

func (a *API) deleteService(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "service")
	if !ok {
		return
	}

	serviceAccessor := service.NewAccessor(a.db)
	if err := serviceAccessor.DeleteService(r.Context(), userID, id); err != nil {
		a.Error(w, r, err)
		return
	}
	a.invalidateCatalog(r)
	a.Response(w, http.StatusNoContent, nil)
}
