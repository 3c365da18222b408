package handler

import (
	"encoding/json"
	"net/http"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Repo repository.SettingsRepository
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.get)
	r.Put("/settings", h.update)
}

func (h SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(s))
}

func (h SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessName    string `json:"businessName"`
		BusinessAddress string `json:"businessAddress"`
		BusinessPhone   string `json:"businessPhone"`
		ReceiptFooter   string `json:"receiptFooter"`
		PaperWidth      int    `json:"paperWidth"`
		AutoPrint       bool   `json:"autoPrint"`
		CurrencyCode    string `json:"currencyCode"`
		PrintServiceURL string `json:"printServiceUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.PaperWidth != 0 && (req.PaperWidth < 24 || req.PaperWidth > 64) {
		writeError(w, http.StatusBadRequest, "paperWidth must be between 24 and 64")
		return
	}

	s, err := h.Repo.Save(r.Context(), domain.Settings{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessPhone:   req.BusinessPhone,
		ReceiptFooter:   req.ReceiptFooter,
		PaperWidth:      req.PaperWidth,
		AutoPrint:       req.AutoPrint,
		CurrencyCode:    req.CurrencyCode,
		PrintServiceURL: req.PrintServiceURL,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSettingsPayload(s))
}

func toSettingsPayload(s *domain.Settings) map[string]any {
	return map[string]any{
		"businessName":    s.BusinessName,
		"businessAddress": s.BusinessAddress,
		"businessPhone":   s.BusinessPhone,
		"receiptFooter":   s.ReceiptFooter,
		"paperWidth":      s.PaperWidth,
		"autoPrint":       s.AutoPrint,
		"currencyCode":    s.CurrencyCode,
		"printServiceUrl": s.PrintServiceURL,
	}
}
