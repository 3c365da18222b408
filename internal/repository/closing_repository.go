package repository

import (
	"context"
	"time"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
)

type ClosingRepository struct {
	DB *db.Postgres
}

type CreateClosingInput struct {
	Date     time.Time
	Operator string
	Counted  int64
	Note     string
}

// Create records a cash closing: the expected figure is the day's invoiced
// total (voided invoices excluded) computed server-side.
func (r ClosingRepository) Create(ctx context.Context, in CreateClosingInput) (*domain.CashClosing, error) {
	dayStart := in.Date.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	var expected int64
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM invoices
		WHERE voided=FALSE AND created_at >= $1 AND created_at < $2
	`, dayStart, dayEnd).Scan(&expected)
	if err != nil {
		return nil, err
	}

	c := domain.CashClosing{
		Date:     dayStart,
		Operator: in.Operator,
		Expected: domain.Money{Amount: expected},
		Counted:  domain.Money{Amount: in.Counted},
		Diff:     domain.Money{Amount: in.Counted - expected},
		Note:     in.Note,
	}
	err = r.DB.Pool.QueryRow(ctx, `
		INSERT INTO cash_closings (closing_date, operator, expected, counted, diff, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, created_at
	`, c.Date, c.Operator, c.Expected.Amount, c.Counted.Amount, c.Diff.Amount, c.Note).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r ClosingRepository) List(ctx context.Context, limit int) ([]domain.CashClosing, error) {
	if limit <= 0 {
		limit = 90
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, closing_date, operator, expected, counted, diff, note, created_at
		FROM cash_closings
		ORDER BY closing_date DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CashClosing
	for rows.Next() {
		var c domain.CashClosing
		if err := rows.Scan(&c.ID, &c.Date, &c.Operator, &c.Expected.Amount, &c.Counted.Amount, &c.Diff.Amount, &c.Note, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
