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

type CategoryHandler struct {
	Repo repository.CategoryRepository
}

func (h CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.list)
	r.Post("/categories", h.create)
	r.Put("/categories/{id}", h.update)
	r.Delete("/categories/{id}", h.delete)
}

func (h CategoryHandler) list(w http.ResponseWriter, r *http.Request) {
	kind := domain.CategoryKind(r.URL.Query().Get("kind"))
	items, err := h.Repo.List(r.Context(), kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, c := range items {
		resp = append(resp, map[string]any{
			"id":   strconv.FormatInt(c.ID, 10),
			"name": c.Name,
			"kind": string(c.Kind),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type categoryPayload struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (p categoryPayload) validate() string {
	if p.Name == "" {
		return "name is required"
	}
	switch domain.CategoryKind(p.Kind) {
	case domain.CategoryService, domain.CategoryProduct:
		return ""
	default:
		return "kind must be service or product"
	}
}

func (h CategoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	c, err := h.Repo.Save(r.Context(), domain.Category{Name: req.Name, Kind: domain.CategoryKind(req.Kind)})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   strconv.FormatInt(c.ID, 10),
		"name": c.Name,
		"kind": string(c.Kind),
	})
}

func (h CategoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	c, err := h.Repo.Save(r.Context(), domain.Category{ID: id, Name: req.Name, Kind: domain.CategoryKind(req.Kind)})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   strconv.FormatInt(c.ID, 10),
		"name": c.Name,
		"kind": string(c.Kind),
	})
}

func (h CategoryHandler) delete(w http.ResponseWriter, r *http.Request) {
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
