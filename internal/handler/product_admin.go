package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ProductAdminHandler struct {
	Repo repository.ProductRepository
}

func (h ProductAdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

type productPayload struct {
	Name       string `json:"name"`
	CategoryID *int64 `json:"categoryId"`
	Price      int64  `json:"price"`
	TrackStock *bool  `json:"trackStock"`
	// Stock only applies on create, as the opening balance. Afterwards
	// stock changes exclusively through inventory movements.
	Stock    int `json:"stock"`
	MinStock int `json:"minStock"`
}

func (p productPayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.Price < 0 {
		return "price must not be negative"
	}
	if p.Stock < 0 || p.MinStock < 0 {
		return "stock must not be negative"
	}
	return ""
}

func (h ProductAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	inStockOnly := r.URL.Query().Get("inStock") == "true"
	items, err := h.Repo.List(r.Context(), inStockOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductPayloads(items))
}

func (h ProductAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	track := true
	if req.TrackStock != nil {
		track = *req.TrackStock
	}
	p, err := h.Repo.Save(r.Context(), domain.Product{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      domain.Money{Amount: req.Price},
		TrackStock: track,
		Stock:      req.Stock,
		MinStock:   req.MinStock,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductPayloads([]domain.Product{*p})[0])
}

func (h ProductAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req productPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	track := true
	if req.TrackStock != nil {
		track = *req.TrackStock
	}
	p, err := h.Repo.Save(r.Context(), domain.Product{
		ID:         id,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Price:      domain.Money{Amount: req.Price},
		TrackStock: track,
		MinStock:   req.MinStock,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductPayloads([]domain.Product{*p})[0])
}

func (h ProductAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
