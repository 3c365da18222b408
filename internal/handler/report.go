package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"barberia-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

// ReportHandler serves the commission settlement view: per-barber totals
// over a period, with CSV/XLSX export for payroll.
type ReportHandler struct {
	Repo repository.InvoiceRepository
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/commissions", h.commissions)
	r.Get("/reports/commissions/export", h.export)
}

func (h ReportHandler) loadRows(r *http.Request) ([]repository.CommissionRow, *time.Time, *time.Time, error) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid startDate")
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid endDate")
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, nil, nil, fmt.Errorf("startDate must be before endDate")
	}
	from, to := dateRange(startDate, endDate)
	rows, err := h.Repo.CommissionTotals(r.Context(), from, to)
	if err != nil {
		return nil, nil, nil, err
	}
	return rows, startDate, endDate, nil
}

func (h ReportHandler) commissions(w http.ResponseWriter, r *http.Request) {
	rows, _, _, err := h.loadRows(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(rows))
	for _, c := range rows {
		resp = append(resp, map[string]any{
			"barberId":    strconv.FormatInt(c.BarberID, 10),
			"barberName":  c.BarberName,
			"invoices":    c.Invoices,
			"total":       c.Total,
			"barberShare": c.BarberShare,
			"houseShare":  c.HouseShare,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	rows, startDate, endDate, err := h.loadRows(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := exportCommissionsCSV(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"commissions_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportCommissionsXLSX(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"commissions_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportCommissionsCSV(rows []repository.CommissionRow) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"barber", "invoices", "total", "barber_share", "house_share"})
	for _, c := range rows {
		_ = w.Write([]string{
			c.BarberName,
			strconv.Itoa(c.Invoices),
			strconv.FormatInt(c.Total, 10),
			strconv.FormatInt(c.BarberShare, 10),
			strconv.FormatInt(c.HouseShare, 10),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportCommissionsXLSX(rows []repository.CommissionRow) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Commissions"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Barber", "Invoices", "Total", "Barber Share", "House Share"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, c := range rows {
		row := r + 2
		values := []any{c.BarberName, c.Invoices, c.Total, c.BarberShare, c.HouseShare}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "E", 14)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "E1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
