package handler

import (
	"net/http"
	"strconv"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler serves the POS sell screen in one round trip: active
// barbers, sellable services and products.
type CatalogHandler struct {
	Barbers  repository.BarberRepository
	Services repository.ServiceRepository
	Products repository.ProductRepository
}

func (h CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/catalog", h.catalog)
}

func (h CatalogHandler) catalog(w http.ResponseWriter, r *http.Request) {
	barbers, err := h.Barbers.List(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	services, err := h.Services.List(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	products, err := h.Products.List(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"barbers":  toBarberPayloads(barbers),
		"services": toServicePayloads(services),
		"products": toProductPayloads(products),
	})
}

func toBarberPayloads(items []domain.Barber) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, b := range items {
		out = append(out, map[string]any{
			"id":            strconv.FormatInt(b.ID, 10),
			"name":          b.Name,
			"phone":         b.Phone,
			"email":         b.Email,
			"commissionPct": b.CommissionPct,
			"active":        b.Active,
		})
	}
	return out
}

func toServicePayloads(items []domain.ServiceItem) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, s := range items {
		out = append(out, map[string]any{
			"id":          strconv.FormatInt(s.ID, 10),
			"name":        s.Name,
			"category":    s.Category,
			"categoryId":  s.CategoryID,
			"price":       s.Price.Amount,
			"durationMin": s.DurationMin,
			"active":      s.Active,
		})
	}
	return out
}

func toProductPayloads(items []domain.Product) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, p := range items {
		out = append(out, map[string]any{
			"id":         strconv.FormatInt(p.ID, 10),
			"name":       p.Name,
			"category":   p.Category,
			"categoryId": p.CategoryID,
			"price":      p.Price.Amount,
			"trackStock": p.TrackStock,
			"stock":      p.Stock,
			"minStock":   p.MinStock,
		})
	}
	return out
}
