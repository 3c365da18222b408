package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"barberia-backend/internal/checkout"
	"barberia-backend/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	Service *checkout.Service
}

func (h CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout/quote", h.quote)
	r.Post("/checkout/charge", h.charge)
}

type chargeLine struct {
	Kind        string `json:"kind"`
	ReferenceID int64  `json:"referenceId"`
	Name        string `json:"name"`
	UnitPrice   int64  `json:"unitPrice"`
	Qty         int    `json:"qty"`
}

type chargePayload struct {
	IdempotencyKey string       `json:"idempotencyKey"`
	BarberID       int64        `json:"barberId"`
	DocumentType   string       `json:"documentType"`
	PaymentMethod  string       `json:"paymentMethod"`
	CustomerName   string       `json:"customerName"`
	CustomerTaxID  string       `json:"customerTaxId"`
	AmountReceived int64        `json:"amountReceived"`
	AppointmentID  *int64       `json:"appointmentId"`
	Items          []chargeLine `json:"items"`
}

func toChargeLines(items []chargeLine) []checkout.ChargeLine {
	lines := make([]checkout.ChargeLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, checkout.ChargeLine{
			Kind:        domain.ItemKind(it.Kind),
			ReferenceID: it.ReferenceID,
			Name:        it.Name,
			UnitPrice:   it.UnitPrice,
			Qty:         it.Qty,
		})
	}
	return lines
}

// quote recomputes the running total and commission split server-side; the
// POS screen calls it whenever the cart or the selected barber changes.
func (h CheckoutHandler) quote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BarberID int64        `json:"barberId"`
		Items    []chargeLine `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	total, split, err := h.Service.Quote(r.Context(), req.BarberID, toChargeLines(req.Items))
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"field": vErr.Field, "message": vErr.Message})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total": total,
		"commission": map[string]any{
			"percentage":  split.Percentage,
			"barberShare": split.BarberShare.Amount,
			"houseShare":  split.HouseShare.Amount,
		},
	})
}

func (h CheckoutHandler) charge(w http.ResponseWriter, r *http.Request) {
	var req chargePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := h.Service.Charge(r.Context(), checkout.ChargeInput{
		IdempotencyKey: req.IdempotencyKey,
		BarberID:       req.BarberID,
		DocumentType:   domain.DocumentType(req.DocumentType),
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		CustomerName:   req.CustomerName,
		CustomerTaxID:  req.CustomerTaxID,
		AmountReceived: req.AmountReceived,
		AppointmentID:  req.AppointmentID,
		Lines:          toChargeLines(req.Items),
	})
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"field": vErr.Field, "message": vErr.Message})
			return
		}
		if errors.Is(err, checkout.ErrDuplicateCharge) {
			writeError(w, http.StatusConflict, "Este cobro ya fue registrado")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoice": toInvoicePayload(res.Invoice),
		"receipt": map[string]any{
			"invoiceNumber": res.Receipt.InvoiceNumber,
			"text":          res.Receipt.Text,
			"width":         res.Receipt.Width,
		},
		"delivery": res.Delivery,
		"warnings": res.Warnings,
	})
}
