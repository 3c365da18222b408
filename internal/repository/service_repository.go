package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ServiceRepository struct {
	DB *db.Postgres
}

func (r ServiceRepository) List(ctx context.Context, activeOnly bool) ([]domain.ServiceItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT s.id, s.name, COALESCE(c.name, ''), s.category_id, s.price, s.duration_min, s.active, s.created_at, s.updated_at
		FROM services s
		LEFT JOIN categories c ON c.id = s.category_id
		WHERE s.deleted_at IS NULL AND ($1 = FALSE OR s.active = TRUE)
		ORDER BY s.name ASC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ServiceItem
	for rows.Next() {
		var s domain.ServiceItem
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CategoryID, &s.Price.Amount, &s.DurationMin, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r ServiceRepository) Get(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT s.id, s.name, COALESCE(c.name, ''), s.category_id, s.price, s.duration_min, s.active, s.created_at, s.updated_at
		FROM services s
		LEFT JOIN categories c ON c.id = s.category_id
		WHERE s.id=$1 AND s.deleted_at IS NULL
	`, id)
	var s domain.ServiceItem
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CategoryID, &s.Price.Amount, &s.DurationMin, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r ServiceRepository) Save(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error) {
	if s.ID == 0 {
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO services (name, category_id, price, duration_min, active, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, created_at, updated_at
		`, s.Name, s.CategoryID, s.Price.Amount, s.DurationMin, s.Active).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE services
		SET name=$1, category_id=$2, price=$3, duration_min=$4, active=$5, updated_at=now(), deleted_at=NULL
		WHERE id=$6
		RETURNING created_at, updated_at
	`, s.Name, s.CategoryID, s.Price.Amount, s.DurationMin, s.Active, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r ServiceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE services SET deleted_at = now() WHERE id=$1`, id)
	return err
}
