package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type InvoiceRepository struct {
	DB *db.Postgres
}

type CreateInvoiceInput struct {
	IdempotencyKey string
	DocumentType   domain.DocumentType
	CustomerName   string
	CustomerTaxID  string
	BarberID       int64
	BarberName     string
	PaymentMethod  domain.PaymentMethod
	Subtotal       int64
	Total          int64
	Received       int64
	Change         int64
	CommissionPct  int
	BarberShare    int64
	HouseShare     int64
	AppointmentID  *int64
	Currency       string
	Items          []domain.LineItem
}

// Create writes the invoice and its item snapshot in one transaction. The
// invoice number comes from a database sequence, so it stays unique under
// concurrent checkouts.
func (r InvoiceRepository) Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("assign invoice number: %w", err)
	}
	number := fmt.Sprintf("F-%06d", seq)

	var id int64
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices
		(number, document_type, customer_name, customer_tax_id, barber_id, barber_name,
		 payment_method, subtotal, total, received, change, commission_pct, barber_share, house_share,
		 appointment_id, idempotency_key, voided, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15, NULLIF($16,'')::uuid, FALSE, now(), now())
		RETURNING id, created_at
	`, number, in.DocumentType, in.CustomerName, in.CustomerTaxID, in.BarberID, in.BarberName,
		in.PaymentMethod, in.Subtotal, in.Total, in.Received, in.Change, in.CommissionPct, in.BarberShare, in.HouseShare,
		in.AppointmentID, in.IdempotencyKey).Scan(&id, &createdAt)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InvoiceItem, 0, len(in.Items))
	for _, li := range in.Items {
		refID := li.ReferenceID
		var itemID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_items (invoice_id, kind, reference_id, name, unit_price, qty, created_at)
			VALUES ($1,$2,$3,$4,$5,$6, now())
			RETURNING id
		`, id, li.Kind, refID, li.Name, li.UnitPrice.Amount, li.Qty).Scan(&itemID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.InvoiceItem{
			ID:          itemID,
			InvoiceID:   id,
			Kind:        li.Kind,
			ReferenceID: &refID,
			Name:        li.Name,
			UnitPrice:   domain.Money{Amount: li.UnitPrice.Amount, Currency: in.Currency},
			Qty:         li.Qty,
			Subtotal:    domain.Money{Amount: li.Subtotal().Amount, Currency: in.Currency},
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	barberID := in.BarberID
	return &domain.Invoice{
		ID:            id,
		Number:        number,
		DocumentType:  in.DocumentType,
		CustomerName:  in.CustomerName,
		CustomerTaxID: in.CustomerTaxID,
		BarberID:      &barberID,
		BarberName:    in.BarberName,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      domain.Money{Amount: in.Subtotal, Currency: in.Currency},
		Total:         domain.Money{Amount: in.Total, Currency: in.Currency},
		Received:      domain.Money{Amount: in.Received, Currency: in.Currency},
		Change:        domain.Money{Amount: in.Change, Currency: in.Currency},
		CommissionPct: in.CommissionPct,
		BarberShare:   domain.Money{Amount: in.BarberShare, Currency: in.Currency},
		HouseShare:    domain.Money{Amount: in.HouseShare, Currency: in.Currency},
		AppointmentID: in.AppointmentID,
		Items:         items,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

func (r InvoiceRepository) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, number, document_type, customer_name, customer_tax_id, barber_id, barber_name,
		       payment_method, subtotal, total, received, change, commission_pct, barber_share, house_share,
		       appointment_id, voided, void_reason, voided_by, voided_at, created_at, updated_at
		FROM invoices
		WHERE id=$1
	`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	items, err := r.itemsFor(ctx, []int64{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

type ListInvoicesFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

func (r InvoiceRepository) List(ctx context.Context, f ListInvoicesFilter) ([]domain.Invoice, error) {
	if f.Limit <= 0 {
		f.Limit = 200
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, number, document_type, customer_name, customer_tax_id, barber_id, barber_name,
		       payment_method, subtotal, total, received, change, commission_pct, barber_share, house_share,
		       appointment_id, voided, void_reason, voided_by, voided_at, created_at, updated_at
		FROM invoices
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY id DESC
		LIMIT $3
	`, f.From, f.To, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	var ids []int64
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, inv.ID)
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return invoices, nil
	}

	itemsByInvoice, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Items = itemsByInvoice[invoices[i].ID]
	}
	return invoices, nil
}

// Void marks an invoice invalid. Voided invoices are never deleted.
func (r InvoiceRepository) Void(ctx context.Context, id int64, reason, actor string) (*domain.Invoice, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE invoices
		SET voided=TRUE, void_reason=$1, voided_by=$2, voided_at=now(), updated_at=now()
		WHERE id=$3 AND voided=FALSE
	`, reason, actor, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// CorrectBarber is the explicit admin correction path for a misattributed
// sale: it reassigns the barber and recomputes the stored split at the
// invoice's recorded percentage. Not a general update.
func (r InvoiceRepository) CorrectBarber(ctx context.Context, id int64, barberID int64, barberName string, barberShare, houseShare int64) (*domain.Invoice, error) {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE invoices
		SET barber_id=$1, barber_name=$2, barber_share=$3, house_share=$4, updated_at=now()
		WHERE id=$5
	`, barberID, barberName, barberShare, houseShare, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

// CommissionTotals aggregates shares per barber over a period.
type CommissionRow struct {
	BarberID    int64
	BarberName  string
	Invoices    int
	Total       int64
	BarberShare int64
	HouseShare  int64
}

func (r InvoiceRepository) CommissionTotals(ctx context.Context, from, to *time.Time) ([]CommissionRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT COALESCE(barber_id, 0), barber_name, COUNT(*), COALESCE(SUM(total),0),
		       COALESCE(SUM(barber_share),0), COALESCE(SUM(house_share),0)
		FROM invoices
		WHERE voided=FALSE
		  AND ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		GROUP BY COALESCE(barber_id, 0), barber_name
		ORDER BY SUM(total) DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommissionRow
	for rows.Next() {
		var c CommissionRow
		if err := rows.Scan(&c.BarberID, &c.BarberName, &c.Invoices, &c.Total, &c.BarberShare, &c.HouseShare); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r InvoiceRepository) itemsFor(ctx context.Context, ids []int64) (map[int64][]domain.InvoiceItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT invoice_id, id, kind, reference_id, name, unit_price, qty
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.InvoiceItem)
	for rows.Next() {
		var it domain.InvoiceItem
		var invoiceID int64
		var kind string
		var refID pgtype.Int8
		if err := rows.Scan(&invoiceID, &it.ID, &kind, &refID, &it.Name, &it.UnitPrice.Amount, &it.Qty); err != nil {
			return nil, err
		}
		it.InvoiceID = invoiceID
		it.Kind = domain.ItemKind(kind)
		if refID.Valid {
			it.ReferenceID = &refID.Int64
		}
		it.Subtotal = domain.Money{Amount: it.UnitPrice.Amount * int64(it.Qty), Currency: it.UnitPrice.Currency}
		out[invoiceID] = append(out[invoiceID], it)
	}
	return out, rows.Err()
}

func scanInvoice(row interface{ Scan(dest ...any) error }) (*domain.Invoice, error) {
	var inv domain.Invoice
	var docType, method string
	var barberID, appointmentID pgtype.Int8
	var voidReason, voidedBy pgtype.Text
	var voidedAt pgtype.Timestamptz
	if err := row.Scan(
		&inv.ID, &inv.Number, &docType, &inv.CustomerName, &inv.CustomerTaxID, &barberID, &inv.BarberName,
		&method, &inv.Subtotal.Amount, &inv.Total.Amount, &inv.Received.Amount, &inv.Change.Amount,
		&inv.CommissionPct, &inv.BarberShare.Amount, &inv.HouseShare.Amount,
		&appointmentID, &inv.Voided, &voidReason, &voidedBy, &voidedAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.DocumentType = domain.DocumentType(docType)
	inv.PaymentMethod = domain.PaymentMethod(method)
	if barberID.Valid {
		inv.BarberID = &barberID.Int64
	}
	if appointmentID.Valid {
		inv.AppointmentID = &appointmentID.Int64
	}
	inv.VoidReason = voidReason.String
	inv.VoidedBy = voidedBy.String
	if voidedAt.Valid {
		t := voidedAt.Time
		inv.VoidedAt = &t
	}
	return &inv, nil
}
