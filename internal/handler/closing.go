package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type ClosingHandler struct {
	Repo repository.ClosingRepository
}

func (h ClosingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/closings", h.list)
	r.Post("/closings", h.create)
}

func (h ClosingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date    string `json:"date"`
		Counted int64  `json:"counted"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Counted < 0 {
		writeError(w, http.StatusBadRequest, "counted must not be negative")
		return
	}
	date := time.Now()
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		date = t
	}

	c, err := h.Repo.Create(r.Context(), repository.CreateClosingInput{
		Date:     date,
		Operator: actorEmail(r),
		Counted:  req.Counted,
		Note:     req.Note,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       strconv.FormatInt(c.ID, 10),
		"date":     c.Date.Format("2006-01-02"),
		"operator": c.Operator,
		"expected": c.Expected.Amount,
		"counted":  c.Counted.Amount,
		"diff":     c.Diff.Amount,
		"note":     c.Note,
	})
}

func (h ClosingHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{
			"id":       strconv.FormatInt(c.ID, 10),
			"date":     c.Date.Format("2006-01-02"),
			"operator": c.Operator,
			"expected": c.Expected.Amount,
			"counted":  c.Counted.Amount,
			"diff":     c.Diff.Amount,
			"note":     c.Note,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
