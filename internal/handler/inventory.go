package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/repository"
	"barberia-backend/internal/service"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler struct {
	Repo       repository.InventoryRepository
	Audit      repository.AuditRepository
	Reconciler *service.ReconcileService
}

func (h InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory/movements", h.movements)
	r.Post("/inventory/movements", h.post)
	r.Post("/inventory/reconcile", h.reconcile)
}

func (h InventoryHandler) movements(w http.ResponseWriter, r *http.Request) {
	var productID int64
	if raw := r.URL.Query().Get("productId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid productId")
			return
		}
		productID = id
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.Repo.Movements(r.Context(), productID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, m := range items {
		resp = append(resp, map[string]any{
			"id":          strconv.FormatInt(m.ID, 10),
			"productId":   strconv.FormatInt(m.ProductID, 10),
			"productName": m.ProductName,
			"type":        string(m.Type),
			"quantity":    m.Quantity,
			"stockBefore": m.StockBefore,
			"stockAfter":  m.StockAfter,
			"reason":      m.Reason,
			"createdAt":   m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// post records a manual movement: restock (in), shrinkage (out) or a signed
// correction (adjustment). Manual entries are always audit-logged.
func (h InventoryHandler) post(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64  `json:"productId"`
		Type      string `json:"type"`
		Quantity  int    `json:"quantity"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	m, err := h.Repo.PostMovement(r.Context(), repository.PostMovementInput{
		ProductID: req.ProductID,
		Type:      domain.MovementType(req.Type),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			writeError(w, http.StatusConflict, "Stock insuficiente para esa salida")
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor := actorEmail(r)
	detail := fmt.Sprintf("%s %+d (%d -> %d): %s", m.Type, m.Quantity, m.StockBefore, m.StockAfter, m.Reason)
	if err := h.Audit.Log(r.Context(), actor, "stock_movement", m.ProductName, detail); err != nil {
		_ = err
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":          strconv.FormatInt(m.ID, 10),
		"productId":   strconv.FormatInt(m.ProductID, 10),
		"productName": m.ProductName,
		"type":        string(m.Type),
		"quantity":    m.Quantity,
		"stockBefore": m.StockBefore,
		"stockAfter":  m.StockAfter,
		"reason":      m.Reason,
	})
}

// reconcile triggers the drift repair on demand, the same job the nightly
// scheduler runs.
func (h InventoryHandler) reconcile(w http.ResponseWriter, r *http.Request) {
	if err := h.Reconciler.Run(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
