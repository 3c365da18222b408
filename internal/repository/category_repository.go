package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CategoryRepository struct {
	DB *db.Postgres
}

func (r CategoryRepository) List(ctx context.Context, kind domain.CategoryKind) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, kind, created_at, updated_at
		FROM categories
		WHERE deleted_at IS NULL AND ($1 = '' OR kind = $1)
		ORDER BY name ASC
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Category
	for rows.Next() {
		var c domain.Category
		var k string
		if err := rows.Scan(&c.ID, &c.Name, &k, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Kind = domain.CategoryKind(k)
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r CategoryRepository) Save(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if c.ID == 0 {
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO categories (name, kind, created_at, updated_at)
			VALUES ($1,$2, now(), now())
			RETURNING id, created_at, updated_at
		`, c.Name, c.Kind).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE categories SET name=$1, kind=$2, updated_at=now(), deleted_at=NULL
		WHERE id=$3
		RETURNING created_at, updated_at
	`, c.Name, c.Kind, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r CategoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE categories SET deleted_at = now() WHERE id=$1`, id)
	return err
}
