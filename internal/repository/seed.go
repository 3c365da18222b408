package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SeedDefaults gives a fresh install something to sell. Every insert is
// idempotent, so running it on each boot is safe.
func (r CategoryRepository) SeedDefaults(ctx context.Context) error {
	defaults := []domain.Category{
		{Name: "Cortes", Kind: domain.CategoryService},
		{Name: "Barba", Kind: domain.CategoryService},
		{Name: "Productos", Kind: domain.CategoryProduct},
	}
	for _, c := range defaults {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO categories (name, kind, created_at, updated_at)
			VALUES ($1, $2, now(), now())
			ON CONFLICT (name) DO NOTHING
		`, c.Name, c.Kind)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r ServiceRepository) SeedDefaults(ctx context.Context) error {
	defaults := []domain.ServiceItem{
		{Name: "Corte clásico", Price: domain.Money{Amount: 1500}, DurationMin: 30, Active: true},
		{Name: "Corte + barba", Price: domain.Money{Amount: 2200}, DurationMin: 45, Active: true},
		{Name: "Arreglo de barba", Price: domain.Money{Amount: 1000}, DurationMin: 20, Active: true},
		{Name: "Rapado", Price: domain.Money{Amount: 900}, DurationMin: 15, Active: true},
	}
	for _, s := range defaults {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO services (name, price, duration_min, active, created_at, updated_at)
			VALUES ($1,$2,$3,$4, now(), now())
			ON CONFLICT (name) DO NOTHING
		`, s.Name, s.Price.Amount, s.DurationMin, s.Active)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r ProductRepository) SeedDefaults(ctx context.Context) error {
	defaults := []domain.Product{
		{Name: "Pomada", Price: domain.Money{Amount: 1200}, TrackStock: true, Stock: 10, MinStock: 2},
		{Name: "Aceite para barba", Price: domain.Money{Amount: 950}, TrackStock: true, Stock: 8, MinStock: 2},
		{Name: "Champú", Price: domain.Money{Amount: 700}, TrackStock: true, Stock: 15, MinStock: 3},
	}
	for _, p := range defaults {
		var id int64
		err := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO products (name, price, track_stock, stock, min_stock, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			ON CONFLICT (name) DO NOTHING
			RETURNING id
		`, p.Name, p.Price.Amount, p.TrackStock, p.Stock, p.MinStock).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return err
		}
		// Opening balance goes into the movement log so reconciliation
		// treats the seeded stock as accounted for.
		if p.Stock > 0 {
			if _, err := r.DB.Pool.Exec(ctx, `
				INSERT INTO inventory_movements (product_id, type, quantity, stock_before, stock_after, reason, created_at)
				VALUES ($1, $2, $3, 0, $3, $4, now())
			`, id, domain.MovementIn, p.Stock, "Saldo inicial"); err != nil {
				return err
			}
		}
	}
	return nil
}
