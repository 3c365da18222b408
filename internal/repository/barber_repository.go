package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BarberRepository struct {
	DB *db.Postgres
}

func (r BarberRepository) List(ctx context.Context, activeOnly bool) ([]domain.Barber, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, phone, email, commission_pct, active, created_at, updated_at
		FROM barbers
		WHERE deleted_at IS NULL AND ($1 = FALSE OR active = TRUE)
		ORDER BY name ASC
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Barber
	for rows.Next() {
		b, err := scanBarber(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

func (r BarberRepository) Get(ctx context.Context, id int64) (*domain.Barber, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, name, phone, email, commission_pct, active, created_at, updated_at
		FROM barbers
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	b, err := scanBarber(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r BarberRepository) Save(ctx context.Context, b domain.Barber) (*domain.Barber, error) {
	if b.ID == 0 {
		row := r.DB.Pool.QueryRow(ctx, `
			INSERT INTO barbers (name, phone, email, commission_pct, active, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5, now(), now())
			RETURNING id, name, phone, email, commission_pct, active, created_at, updated_at
		`, b.Name, b.Phone, b.Email, b.CommissionPct, b.Active)
		return scanBarber(row)
	}
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE barbers
		SET name=$1, phone=$2, email=$3, commission_pct=$4, active=$5, updated_at=now(), deleted_at=NULL
		WHERE id=$6
		RETURNING id, name, phone, email, commission_pct, active, created_at, updated_at
	`, b.Name, b.Phone, b.Email, b.CommissionPct, b.Active, b.ID)
	out, err := scanBarber(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r BarberRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE barbers SET deleted_at = now() WHERE id=$1`, id)
	return err
}

func scanBarber(row interface{ Scan(dest ...any) error }) (*domain.Barber, error) {
	var b domain.Barber
	var pct pgtype.Int4
	if err := row.Scan(&b.ID, &b.Name, &b.Phone, &b.Email, &pct, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if pct.Valid {
		v := int(pct.Int32)
		b.CommissionPct = &v
	}
	return &b, nil
}
