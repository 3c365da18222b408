package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AppointmentHandler struct {
	Repo repository.AppointmentRepository
}

func (h AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/appointments", h.list)
	r.Post("/appointments", h.create)
	r.Get("/appointments/{id}", h.get)
	r.Put("/appointments/{id}/status", h.updateStatus)
	r.Delete("/appointments/{id}", h.delete)
}

func (h AppointmentHandler) list(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	status := domain.AppointmentStatus(r.URL.Query().Get("status"))
	items, err := h.Repo.List(r.Context(), repository.ListAppointmentsFilter{
		Status: status,
		Date:   date,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toAppointmentPayload(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type appointmentItemPayload struct {
	Kind        string `json:"kind"`
	ReferenceID int64  `json:"referenceId"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Qty         int    `json:"qty"`
}

func (h AppointmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName  string                   `json:"customerName"`
		CustomerPhone string                   `json:"customerPhone"`
		BarberID      *int64                   `json:"barberId"`
		ScheduledAt   string                   `json:"scheduledAt"`
		Note          string                   `json:"note"`
		Items         []appointmentItemPayload `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "customerName is required")
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "scheduledAt must be RFC3339")
		return
	}

	items := make([]domain.AppointmentItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.AppointmentItem{
			Kind:        domain.ItemKind(it.Kind),
			ReferenceID: it.ReferenceID,
			Name:        it.Name,
			Price:       domain.Money{Amount: it.Price},
			Qty:         it.Qty,
		})
	}

	appt, err := h.Repo.Create(r.Context(), repository.CreateAppointmentInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		BarberID:      req.BarberID,
		ScheduledAt:   scheduledAt,
		Note:          req.Note,
		Items:         items,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentPayload(appt))
}

func (h AppointmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	appt, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentPayload(appt))
}

func (h AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status := domain.AppointmentStatus(req.Status)
	switch status {
	case domain.AppointmentPending, domain.AppointmentCompleted, domain.AppointmentCancelled:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := h.Repo.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h AppointmentHandler) delete(w http.ResponseWriter, r *http.Request) {
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

func toAppointmentPayload(a *domain.Appointment) map[string]any {
	items := make([]map[string]any, 0, len(a.Items))
	for _, it := range a.Items {
		items = append(items, map[string]any{
			"kind":        string(it.Kind),
			"referenceId": it.ReferenceID,
			"name":        it.Name,
			"price":       it.Price.Amount,
			"qty":         it.Qty,
		})
	}
	return map[string]any{
		"id":            strconv.FormatInt(a.ID, 10),
		"customerName":  a.CustomerName,
		"customerPhone": a.CustomerPhone,
		"barberId":      a.BarberID,
		"barberName":    a.BarberName,
		"scheduledAt":   a.ScheduledAt.UTC().Format(time.RFC3339),
		"status":        string(a.Status),
		"paymentStatus": string(a.PaymentStatus),
		"note":          a.Note,
		"items":         items,
	}
}
