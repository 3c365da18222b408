package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientStock rejects an outflow larger than the current stock.
// The authoritative check lives here, at movement-post time, so two
// concurrent checkouts cannot both sell the last unit.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryRepository struct {
	DB *db.Postgres
}

type PostMovementInput struct {
	ProductID int64
	Type      domain.MovementType
	// Quantity is a positive magnitude for in/out and a signed delta for
	// adjustments.
	Quantity int
	Reason   string
}

// PostMovement appends one movement and updates the cached product stock in
// the same transaction, keeping cache and log consistent at every write.
func (r InventoryRepository) PostMovement(ctx context.Context, in PostMovementInput) (*domain.InventoryMovement, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	m, err := postMovementTx(ctx, tx, in)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func postMovementTx(ctx context.Context, tx pgx.Tx, in PostMovementInput) (*domain.InventoryMovement, error) {
	row := tx.QueryRow(ctx, `
		SELECT name, stock
		FROM products
		WHERE id=$1 AND deleted_at IS NULL
		FOR UPDATE
	`, in.ProductID)
	var name string
	var before int
	if err := row.Scan(&name, &before); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var delta int
	switch in.Type {
	case domain.MovementIn:
		if in.Quantity < 0 {
			in.Quantity = -in.Quantity
		}
		delta = in.Quantity
	case domain.MovementOut:
		if in.Quantity < 0 {
			in.Quantity = -in.Quantity
		}
		if before < in.Quantity {
			return nil, ErrInsufficientStock
		}
		delta = -in.Quantity
	case domain.MovementAdjustment:
		delta = in.Quantity
		if before+delta < 0 {
			delta = -before
		}
	default:
		return nil, errors.New("invalid movement type")
	}
	after := before + delta

	if _, err := tx.Exec(ctx, `
		UPDATE products SET stock=$1, updated_at=now() WHERE id=$2
	`, after, in.ProductID); err != nil {
		return nil, err
	}

	m := domain.InventoryMovement{
		ProductID:   in.ProductID,
		ProductName: name,
		Type:        in.Type,
		Quantity:    delta,
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO inventory_movements (product_id, type, quantity, stock_before, stock_after, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, created_at
	`, in.ProductID, in.Type, delta, before, after, in.Reason).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r InventoryRepository) Movements(ctx context.Context, productID int64, limit int) ([]domain.InventoryMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT m.id, m.product_id, p.name, m.type, m.quantity, m.stock_before, m.stock_after, m.reason, m.created_at
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id
		WHERE ($1 = 0 OR m.product_id = $1)
		ORDER BY m.id DESC
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryMovement
	for rows.Next() {
		var m domain.InventoryMovement
		var typ string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &typ, &m.Quantity, &m.StockBefore, &m.StockAfter, &m.Reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Type = domain.MovementType(typ)
		items = append(items, m)
	}
	return items, rows.Err()
}

// Drift is a product whose cached stock disagrees with its movement log.
type Drift struct {
	ProductID   int64
	ProductName string
	Cached      int
	FromLog     int
}

// FindDrift compares each tracked product's cached stock against the signed
// sum of its movements. Used by the nightly reconciliation job.
func (r InventoryRepository) FindDrift(ctx context.Context) ([]Drift, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT p.id, p.name, p.stock, COALESCE(SUM(m.quantity), 0)
		FROM products p
		LEFT JOIN inventory_movements m ON m.product_id = p.id
		WHERE p.deleted_at IS NULL AND p.track_stock = TRUE
		GROUP BY p.id, p.name, p.stock
		HAVING p.stock <> COALESCE(SUM(m.quantity), 0)
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Drift
	for rows.Next() {
		var d Drift
		if err := rows.Scan(&d.ProductID, &d.ProductName, &d.Cached, &d.FromLog); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RepairStock rewrites the cached stock to the movement-log value.
func (r InventoryRepository) RepairStock(ctx context.Context, productID int64, stock int) error {
	_, err := r.DB.Pool.Exec(ctx, `
		UPDATE products SET stock=$1, updated_at=now() WHERE id=$2
	`, stock, productID)
	return err
}
