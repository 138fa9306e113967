package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"salon-system/product"
)

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	var payload product.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	productAccessor := product.NewAccessor(a.db)
	p, err := productAccessor.CreateProduct(r.Context(), userID, payload, a.now())
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusCreated, p)
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	productAccessor := product.NewAccessor(a.db)
	products, err := productAccessor.ListProducts(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, products)
}

func (a *API) listLowStock(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)

	productAccessor := product.NewAccessor(a.db)
	products, err := productAccessor.ListLowStock(r.Context(), userID)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusOK, products)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "product")
	if !ok {
		return
	}

	productAccessor := product.NewAccessor(a.db)
	p, err := productAccessor.GetProduct(r.Context(), userID, id)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if p == nil {
		a.Response(w, http.StatusNotFound, "product not found")
		return
	}
	a.Response(w, http.StatusOK, p)
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

func (a *API) adjustStock(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "product")
	if !ok {
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productAccessor := product.NewAccessor(a.db)
	p, err := productAccessor.AdjustStock(r.Context(), userID, id, req.Delta)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if p == nil {
		a.Response(w, http.StatusNotFound, "product not found")
		return
	}
	if p.LowStock() {
		a.logger.InfoContext(r.Context(), "product below stock threshold", "product_id", p.ID, "stock", p.StockQuantity)
	}
	a.Response(w, http.StatusOK, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "product")
	if !ok {
		return
	}

	var payload product.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}
	payload.ID = id
	if err := payload.Validate(); err != nil {
		a.Response(w, http.StatusBadRequest, fmt.Errorf("validate: %w", err).Error())
		return
	}

	productAccessor := product.NewAccessor(a.db)
	p, err := productAccessor.UpdateProduct(r.Context(), userID, payload)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	if p == nil {
		a.Response(w, http.StatusNotFound, "product not found")
		return
	}
	a.Response(w, http.StatusOK, p)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, _ := sessionUser(r)
	id, ok := a.pathID(w, r, "product")
	if !ok {
		return
	}

	productAccessor := product.NewAccessor(a.db)
	if err := productAccessor.DeleteProduct(r.Context(), userID, id); err != nil {
		a.Error(w, r, err)
		return
	}
	a.Response(w, http.StatusNoContent, nil)
}
