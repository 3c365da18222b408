package handler

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/printing"
	"barberia-backend/internal/receipt"
	"barberia-backend/internal/repository"
	"barberia-backend/internal/server/authctx"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type InvoiceHandler struct {
	Repo     repository.InvoiceRepository
	Barbers  repository.BarberRepository
	Stock    repository.InventoryRepository
	Audit    repository.AuditRepository
	Renderer *receipt.Renderer
	Delivery *printing.Chain
}

func (h InvoiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/invoices", h.list)
	r.Get("/invoices/export", h.export)
	r.Get("/invoices/{id}", h.get)
	r.Post("/invoices/{id}/reprint", h.reprint)
}

// RegisterAdminRoutes holds the mutations only an admin may perform.
func (h InvoiceHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/invoices/{id}/void", h.void)
	r.Post("/invoices/{id}/correct", h.correctBarber)
}

func (h InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}
	from, to := dateRange(startDate, endDate)

	invoices, err := h.Repo.List(r.Context(), repository.ListInvoicesFilter{From: from, To: to})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(invoices))
	for i := range invoices {
		resp = append(resp, toInvoicePayload(&invoices[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h InvoiceHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	inv, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toInvoicePayload(inv))
}

// reprint re-renders the stored snapshot and pushes it through the delivery
// chain again. Voided invoices reprint too, for dispute handling.
func (h InvoiceHandler) reprint(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	inv, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc := h.Renderer.Render(inv)
	res := h.Delivery.Deliver(r.Context(), doc)
	writeJSON(w, http.StatusOK, map[string]any{
		"receipt": map[string]any{
			"invoiceNumber": doc.InvoiceNumber,
			"text":          doc.Text,
			"width":         doc.Width,
		},
		"delivery": res,
	})
}

func (h InvoiceHandler) void(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	actor := actorEmail(r)
	inv, err := h.Repo.Void(r.Context(), id, req.Reason, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found or already voided")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Voiding a sale puts its products back on the shelf. Each restock is
	// best-effort: a failure leaves the void in place and shows up as drift
	// for the nightly reconciliation.
	for _, it := range inv.Items {
		if it.Kind != domain.ItemProduct || it.ReferenceID == nil {
			continue
		}
		_, err := h.Stock.PostMovement(r.Context(), repository.PostMovementInput{
			ProductID: *it.ReferenceID,
			Type:      domain.MovementIn,
			Quantity:  it.Qty,
			Reason:    "Anulación " + inv.Number,
		})
		if err != nil {
			_ = h.Audit.Log(r.Context(), actor, "invoice_void_restock_failed", inv.Number, fmt.Sprintf("%s x%d: %v", it.Name, it.Qty, err))
		}
	}

	if err := h.Audit.Log(r.Context(), actor, "invoice_void", inv.Number, req.Reason); err != nil {
		// audit is best-effort; the void itself stands
		_ = err
	}
	writeJSON(w, http.StatusOK, toInvoicePayload(inv))
}

// correctBarber reassigns a misattributed sale and recomputes the stored
// split at the invoice's recorded percentage.
func (h InvoiceHandler) correctBarber(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		BarberID int64 `json:"barberId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	barber, err := h.Barbers.Get(r.Context(), req.BarberID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Barbero no encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	current, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	barberShare := current.Total.Amount * int64(current.CommissionPct) / 100
	houseShare := current.Total.Amount - barberShare
	inv, err := h.Repo.CorrectBarber(r.Context(), id, barber.ID, barber.Name, barberShare, houseShare)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	actor := actorEmail(r)
	detail := fmt.Sprintf("%s -> %s", current.BarberName, barber.Name)
	if err := h.Audit.Log(r.Context(), actor, "invoice_correct_barber", inv.Number, detail); err != nil {
		_ = err
	}
	writeJSON(w, http.StatusOK, toInvoicePayload(inv))
}

func (h InvoiceHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}
	from, to := dateRange(startDate, endDate)

	invoices, err := h.Repo.List(r.Context(), repository.ListInvoicesFilter{From: from, To: to, Limit: 5000})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportInvoicesCSV(invoices)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoices_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportInvoicesXLSX(invoices)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoices_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportInvoicesCSV(items []domain.Invoice) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"number", "date", "type", "customer", "barber", "payment_method", "total", "barber_share", "house_share", "voided"})
	for _, inv := range items {
		_ = w.Write([]string{
			inv.Number,
			inv.CreatedAt.Format("2006-01-02 15:04"),
			string(inv.DocumentType),
			inv.CustomerName,
			inv.BarberName,
			string(inv.PaymentMethod),
			strconv.FormatInt(inv.Total.Amount, 10),
			strconv.FormatInt(inv.BarberShare.Amount, 10),
			strconv.FormatInt(inv.HouseShare.Amount, 10),
			strconv.FormatBool(inv.Voided),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportInvoicesXLSX(items []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Number", "Date", "Type", "Customer", "Barber", "Payment", "Total", "Barber Share", "House Share", "Voided"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, inv := range items {
		row := r + 2
		values := []any{
			inv.Number,
			inv.CreatedAt.Format("2006-01-02 15:04"),
			string(inv.DocumentType),
			inv.CustomerName,
			inv.BarberName,
			string(inv.PaymentMethod),
			inv.Total.Amount,
			inv.BarberShare.Amount,
			inv.HouseShare.Amount,
			inv.Voided,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	_ = f.SetColWidth(sheet, "C", "C", 10)
	_ = f.SetColWidth(sheet, "D", "E", 22)
	_ = f.SetColWidth(sheet, "F", "F", 12)
	_ = f.SetColWidth(sheet, "G", "I", 14)
	_ = f.SetColWidth(sheet, "J", "J", 10)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "J1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toInvoicePayload(inv *domain.Invoice) map[string]any {
	items := make([]map[string]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, map[string]any{
			"kind":        string(it.Kind),
			"referenceId": it.ReferenceID,
			"name":        it.Name,
			"unitPrice":   it.UnitPrice.Amount,
			"qty":         it.Qty,
			"subtotal":    it.Subtotal.Amount,
		})
	}
	payload := map[string]any{
		"id":            strconv.FormatInt(inv.ID, 10),
		"number":        inv.Number,
		"documentType":  string(inv.DocumentType),
		"customerName":  inv.CustomerName,
		"customerTaxId": inv.CustomerTaxID,
		"barberId":      inv.BarberID,
		"barberName":    inv.BarberName,
		"paymentMethod": string(inv.PaymentMethod),
		"subtotal":      inv.Subtotal.Amount,
		"total":         inv.Total.Amount,
		"received":      inv.Received.Amount,
		"change":        inv.Change.Amount,
		"commission": map[string]any{
			"percentage":  inv.CommissionPct,
			"barberShare": inv.BarberShare.Amount,
			"houseShare":  inv.HouseShare.Amount,
		},
		"appointmentId": inv.AppointmentID,
		"voided":        inv.Voided,
		"items":         items,
		"createdAt":     inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.Voided {
		payload["voidReason"] = inv.VoidReason
		payload["voidedBy"] = inv.VoidedBy
		if inv.VoidedAt != nil {
			payload["voidedAt"] = inv.VoidedAt.UTC().Format(time.RFC3339)
		}
	}
	return payload
}

func actorEmail(r *http.Request) string {
	if u := authctx.FromContext(r.Context()); u != nil {
		return u.Email
	}
	return "system"
}
