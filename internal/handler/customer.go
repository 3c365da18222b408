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

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customers", h.list)
	r.Post("/customers", h.create)
	r.Put("/customers/{id}", h.update)
	r.Delete("/customers/{id}", h.delete)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	items, err := h.Repo.List(r.Context(), search, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, toCustomerPayload(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

type customerPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	TaxID string `json:"taxId"`
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c, err := h.Repo.Save(r.Context(), domain.Customer{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		TaxID: req.TaxID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCustomerPayload(*c))
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req customerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	c, err := h.Repo.Save(r.Context(), domain.Customer{
		ID:    id,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		TaxID: req.TaxID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toCustomerPayload(*c))
}

func (h CustomerHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toCustomerPayload(c domain.Customer) map[string]any {
	return map[string]any{
		"id":    strconv.FormatInt(c.ID, 10),
		"name":  c.Name,
		"phone": c.Phone,
		"email": c.Email,
		"taxId": c.TaxID,
	}
}
