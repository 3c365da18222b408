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

type BarberHandler struct {
	Repo repository.BarberRepository
}

func (h BarberHandler) RegisterRoutes(r chi.Router) {
	r.Get("/barbers", h.list)
	r.Post("/barbers", h.create)
	r.Put("/barbers/{id}", h.update)
	r.Delete("/barbers/{id}", h.delete)
}

type barberPayload struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	CommissionPct *int   `json:"commissionPct"`
	Active        *bool  `json:"active"`
}

func (p barberPayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	if p.CommissionPct != nil && (*p.CommissionPct < 0 || *p.CommissionPct > 100) {
		return "commissionPct must be between 0 and 100"
	}
	return ""
}

func (h BarberHandler) list(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := h.Repo.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBarberPayloads(items))
}

func (h BarberHandler) create(w http.ResponseWriter, r *http.Request) {
	var req barberPayload
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
	b, err := h.Repo.Save(r.Context(), domain.Barber{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		CommissionPct: req.CommissionPct,
		Active:        active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBarberPayloads([]domain.Barber{*b})[0])
}

func (h BarberHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req barberPayload
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
	b, err := h.Repo.Save(r.Context(), domain.Barber{
		ID:            id,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		CommissionPct: req.CommissionPct,
		Active:        active,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "barber not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBarberPayloads([]domain.Barber{*b})[0])
}

func (h BarberHandler) delete(w http.ResponseWriter, r *http.Request) {
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
