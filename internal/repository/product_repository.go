package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	DB *db.Postgres
}

func (r ProductRepository) List(ctx context.Context, inStockOnly bool) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT p.id, p.name, COALESCE(c.name, ''), p.category_id, p.price, p.track_stock, p.stock, p.min_stock, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.deleted_at IS NULL AND ($1 = FALSE OR p.track_stock = FALSE OR p.stock > 0)
		ORDER BY p.name ASC
	`, inStockOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.CategoryID, &p.Price.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT p.id, p.name, COALESCE(c.name, ''), p.category_id, p.price, p.track_stock, p.stock, p.min_stock, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id=$1 AND p.deleted_at IS NULL
	`, id)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.CategoryID, &p.Price.Amount, &p.TrackStock, &p.Stock, &p.MinStock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Save creates or updates catalog fields. Stock is only set on create (the
// opening balance, logged as an inbound movement so the movement log stays
// authoritative); afterwards it changes exclusively through inventory
// movements.
func (r ProductRepository) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == 0 {
		tx, err := r.DB.Pool.Begin(ctx)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback(ctx)

		err = tx.QueryRow(ctx, `
			INSERT INTO products (name, category_id, price, track_stock, stock, min_stock, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6, now(), now())
			RETURNING id, created_at, updated_at
		`, p.Name, p.CategoryID, p.Price.Amount, p.TrackStock, p.Stock, p.MinStock).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if p.TrackStock && p.Stock > 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO inventory_movements (product_id, type, quantity, stock_before, stock_after, reason, created_at)
				VALUES ($1, $2, $3, 0, $3, $4, now())
			`, p.ID, domain.MovementIn, p.Stock, "Saldo inicial"); err != nil {
				return nil, err
			}
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &p, nil
	}
	err := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET name=$1, category_id=$2, price=$3, track_stock=$4, min_stock=$5, updated_at=now(), deleted_at=NULL
		WHERE id=$6
		RETURNING stock, created_at, updated_at
	`, p.Name, p.CategoryID, p.Price.Amount, p.TrackStock, p.MinStock, p.ID).Scan(&p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r ProductRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE products SET deleted_at = now() WHERE id=$1`, id)
	return err
}
