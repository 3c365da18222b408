package handler

import (
	"net/http"
	"time"

	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	Repo repository.DashboardRepository
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.summary)
}

func (h DashboardHandler) summary(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	day := time.Now()
	if date != nil {
		day = *date
	}

	s, err := h.Repo.Summary(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	top := make([]map[string]any, 0, len(s.TopServices))
	for _, t := range s.TopServices {
		top = append(top, map[string]any{
			"name":  t.Name,
			"count": t.Count,
			"total": t.Total,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":         day.Format("2006-01-02"),
		"revenue":      s.Revenue,
		"invoiceCount": s.InvoiceCount,
		"barberShare":  s.BarberShare,
		"houseShare":   s.HouseShare,
		"appointments": s.Appointments,
		"topServices":  top,
	})
}
