package handler

import (
	"net/http"

	"barberia-backend/internal/printing"
	"github.com/go-chi/chi/v5"
)

// PrinterHandler surfaces the operator-machine print bridge: the status
// indicator in the POS header and the manual drawer button.
type PrinterHandler struct {
	Client *printing.Client
}

func (h PrinterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/printer/status", h.status)
	r.Post("/printer/drawer", h.openDrawer)
}

func (h PrinterHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"online": h.Client.Online(r.Context()),
	})
}

func (h PrinterHandler) openDrawer(w http.ResponseWriter, r *http.Request) {
	if err := h.Client.OpenDrawer(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "No se pudo abrir el cajón: servicio de impresión no disponible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"opened": true})
}
