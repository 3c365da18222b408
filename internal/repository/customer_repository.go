package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB *db.Postgres
}

func (r CustomerRepository) List(ctx context.Context, search string, limit int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, tax_id, created_at, updated_at
		FROM customers
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%')
		ORDER BY name ASC
		LIMIT $2
	`, search, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CustomerRepository) Save(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if c.ID == 0 {
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO customers (name, phone, email, tax_id, created_at, updated_at)
			VALUES ($1,$2,$3,$4, now(), now())
			RETURNING id, created_at, updated_at
		`, c.Name, c.Phone, c.Email, c.TaxID).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE customers SET name=$1, phone=$2, email=$3, tax_id=$4, updated_at=now(), deleted_at=NULL
		WHERE id=$5
		RETURNING created_at, updated_at
	`, c.Name, c.Phone, c.Email, c.TaxID, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE customers SET deleted_at = now() WHERE id=$1`, id)
	return err
}
