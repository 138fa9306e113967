package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"salon-system/employee"
)

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.Defaults(a.now())
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	employeeAccessor := employee.NewAccessor(a.db)
	e, err := employeeAccessor.CreateEmployee(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, e)
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	employeeAccessor := employee.NewAccessor(a.db)
	employees, err := employeeAccessor.ListEmployees(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, employees)
}

func (a *API) getEmployee(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "employee")
	if !ok {
		return
	}

	employeeAccessor := employee.NewAccessor(a.db)
	e, err := employeeAccessor.GetEmployee(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if e == nil {
		a.Response(w, http.StatusNotFound, "employee not found")
		return
	}
	a.Response(w, http.StatusOK, e)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "employee")
	if !ok {
		return
	}

	var payload employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	payload.Defaults(a.now())
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	employeeAccessor := employee.NewAccessor(a.db)
	e, err := employeeAccessor.UpdateEmployee(r.Context(), userID, payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if e == nil {
		a.Response(w, http.StatusNotFound, "employee not found")
		return
	}
	a.Response(w, http.StatusOK, e)
}

func (a *API) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "employee")
	if !ok {
		return
	}

	employeeAccessor := employee.NewAccessor(a.db)
	if err := employeeAccessor.DeleteEmployee(r.Context(), userID, id); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}
