package handler

import (
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AuditHandler struct {
	Repo repository.AuditRepository
}

func (h AuditHandler) RegisterRoutes(r chi.Router) {
	r.Get("/audit", h.list)
}

func (h AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, map[string]any{
			"id":       strconv.FormatInt(e.ID, 10),
			"actor":    e.Actor,
			"action":   e.Action,
			"subject":  e.Subject,
			"detail":   e.Detail,
			"loggedAt": e.LoggedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
