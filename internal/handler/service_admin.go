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

type ServiceAdminHandler struct {
	Repo repository.ServiceRepository
}

func (h ServiceAdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.list)
	r.Post("/services", h.create)
	r.Put("/services/{id}", h.update)
	r.Delete("/services/{id}", h.delete)
}

type servicePayload struct {
	Name        string `json:"name"`
	CategoryID  *int64 `json:"categoryId"`
	Price       int64  `json:"price"`
	DurationMin int    `json:"durationMin"`
	Active      *bool  `json:"active"`
}

func (p servicePayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

func (h ServiceAdminHandler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.Repo.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toServicePayloads(items))
}

func (h ServiceAdminHandler) create(w http.ResponseWriter, r *http.Request) {
	var req servicePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	s, err := h.Repo.Save(r.Context(), domain.ServiceItem{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Price:       domain.Money{Amount: req.Price},
		DurationMin: req.DurationMin,
		Active:      active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toServicePayloads([]domain.ServiceItem{*s})[0])
}

func (h ServiceAdminHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req servicePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	s, err := h.Repo.Save(r.Context(), domain.ServiceItem{
		ID:          id,
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Price:       domain.Money{Amount: req.Price},
		DurationMin: req.DurationMin,
		Active:      active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "service not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toServicePayloads([]domain.ServiceItem{*s})[0])
}

func (h ServiceAdminHandler) delete(w http.ResponseWriter, r *http.Request) {
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
