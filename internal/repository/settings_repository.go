package repository

import (
	"context"
	"errors"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	DB *db.Postgres
}

// Get returns the single settings row, or sensible defaults when the shop
// has not configured anything yet.
func (r SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT business_name, business_address, business_phone, receipt_footer,
		       paper_width, auto_print, currency_code, print_service_url, updated_at
		FROM settings
		WHERE id=1
	`)
	var s domain.Settings
	err := row.Scan(
		&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.ReceiptFooter,
		&s.PaperWidth, &s.AutoPrint, &s.CurrencyCode, &s.PrintServiceURL, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Settings{PaperWidth: 42, AutoPrint: true, CurrencyCode: "EUR"}, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r SettingsRepository) Save(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO settings (id, business_name, business_address, business_phone, receipt_footer,
		                      paper_width, auto_print, currency_code, print_service_url, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8, now())
		ON CONFLICT (id) DO UPDATE SET
			business_name=EXCLUDED.business_name,
			business_address=EXCLUDED.business_address,
			business_phone=EXCLUDED.business_phone,
			receipt_footer=EXCLUDED.receipt_footer,
			paper_width=EXCLUDED.paper_width,
			auto_print=EXCLUDED.auto_print,
			currency_code=EXCLUDED.currency_code,
			print_service_url=EXCLUDED.print_service_url,
			updated_at=now()
		RETURNING business_name, business_address, business_phone, receipt_footer,
		          paper_width, auto_print, currency_code, print_service_url, updated_at
	`, s.BusinessName, s.BusinessAddress, s.BusinessPhone, s.ReceiptFooter,
		s.PaperWidth, s.AutoPrint, s.CurrencyCode, s.PrintServiceURL).Scan(
		&s.BusinessName, &s.BusinessAddress, &s.BusinessPhone, &s.ReceiptFooter,
		&s.PaperWidth, &s.AutoPrint, &s.CurrencyCode, &s.PrintServiceURL, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
