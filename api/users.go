package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"salon-system/user"
)

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var payload user.User

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	userAccessor := user.NewAccessor(a.db)

	u, err := userAccessor.CreateUser(r.Context(), payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, u)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	userAccessor := user.NewAccessor(a.db)
	u, err := userAccessor.GetUser(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if u == nil {
		a.Response(w, http.StatusNotFound, "user not found")
		return
	}

	a.Response(w, http.StatusOK, u)
}
