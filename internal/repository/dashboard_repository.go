package repository

import (
	"context"
	"time"

	"barberia-backend/internal/db"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	Revenue      int64
	InvoiceCount int
	BarberShare  int64
	HouseShare   int64
	TopServices  []TopService
	Appointments int
}

type TopService struct {
	Name  string
	Count int
	Total int64
}

// Summary aggregates today's activity for the back-office landing view.
func (r DashboardRepository) Summary(ctx context.Context, day time.Time) (*DashboardSummary, error) {
	dayStart := day.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total),0), COUNT(*), COALESCE(SUM(barber_share),0), COALESCE(SUM(house_share),0)
		FROM invoices
		WHERE voided=FALSE AND created_at >= $1 AND created_at < $2
	`, dayStart, dayEnd).Scan(&s.Revenue, &s.InvoiceCount, &s.BarberShare, &s.HouseShare)
	if err != nil {
		return nil, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE deleted_at IS NULL AND scheduled_at >= $1 AND scheduled_at < $2
	`, dayStart, dayEnd).Scan(&s.Appointments)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT ii.name, SUM(ii.qty), SUM(ii.unit_price * ii.qty)
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE i.voided=FALSE AND ii.kind='service'
		  AND i.created_at >= $1 AND i.created_at < $2
		GROUP BY ii.name
		ORDER BY SUM(ii.qty) DESC
		LIMIT 5
	`, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t TopService
		if err := rows.Scan(&t.Name, &t.Count, &t.Total); err != nil {
			return nil, err
		}
		s.TopServices = append(s.TopServices, t)
	}
	return &s, rows.Err()
}
