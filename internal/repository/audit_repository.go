package repository

import (
	"context"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
)

// AuditRepository records back-office mutations: invoice voids, barber
// corrections, manual stock adjustments.
type AuditRepository struct {
	DB *db.Postgres
}

func (r AuditRepository) Log(ctx context.Context, actor, action, subject, detail string) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO audit_log (actor, action, subject, detail, logged_at)
		VALUES ($1,$2,$3,$4, now())
	`, actor, action, subject, detail)
	return err
}

func (r AuditRepository) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, actor, action, subject, detail, logged_at
		FROM audit_log
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.Subject, &e.Detail, &e.LoggedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
