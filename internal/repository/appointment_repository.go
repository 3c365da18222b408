package repository

import (
	"context"
	"errors"
	"time"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type AppointmentRepository struct {
	DB *db.Postgres
}

type CreateAppointmentInput struct {
	CustomerName  string
	CustomerPhone string
	BarberID      *int64
	ScheduledAt   time.Time
	Note          string
	Items         []domain.AppointmentItem
}

func (r AppointmentRepository) Create(ctx context.Context, in CreateAppointmentInput) (*domain.Appointment, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (customer_name, customer_phone, barber_id, scheduled_at, status, payment_status, note, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING id
	`, in.CustomerName, in.CustomerPhone, in.BarberID, in.ScheduledAt,
		domain.AppointmentPending, domain.PaymentUnpaid, in.Note).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, it := range in.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointment_items (appointment_id, kind, reference_id, name, price, qty)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, id, it.Kind, it.ReferenceID, it.Name, it.Price.Amount, it.Qty)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r AppointmentRepository) Get(ctx context.Context, id int64) (*domain.Appointment, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT a.id, a.customer_name, a.customer_phone, a.barber_id, COALESCE(b.name, ''),
		       a.scheduled_at, a.status, a.payment_status, a.note, a.created_at, a.updated_at
		FROM appointments a
		LEFT JOIN barbers b ON b.id = a.barber_id
		WHERE a.id=$1 AND a.deleted_at IS NULL
	`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsFor(ctx, []int64{appt.ID})
	if err != nil {
		return nil, err
	}
	appt.Items = items[appt.ID]
	return appt, nil
}

type ListAppointmentsFilter struct {
	Status domain.AppointmentStatus
	Date   *time.Time
	Limit  int
}

func (r AppointmentRepository) List(ctx context.Context, f ListAppointmentsFilter) ([]domain.Appointment, error) {
	if f.Limit <= 0 {
		f.Limit = 200
	}
	var dayStart, dayEnd *time.Time
	if f.Date != nil {
		s := f.Date.Truncate(24 * time.Hour)
		e := s.Add(24 * time.Hour)
		dayStart, dayEnd = &s, &e
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT a.id, a.customer_name, a.customer_phone, a.barber_id, COALESCE(b.name, ''),
		       a.scheduled_at, a.status, a.payment_status, a.note, a.created_at, a.updated_at
		FROM appointments a
		LEFT JOIN barbers b ON b.id = a.barber_id
		WHERE a.deleted_at IS NULL
		  AND ($1 = '' OR a.status = $1)
		  AND ($2::timestamptz IS NULL OR a.scheduled_at >= $2)
		  AND ($3::timestamptz IS NULL OR a.scheduled_at < $3)
		ORDER BY a.scheduled_at ASC
		LIMIT $4
	`, string(f.Status), dayStart, dayEnd, f.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []domain.Appointment
	var ids []int64
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		ids = append(ids, appt.ID)
		appts = append(appts, *appt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return appts, nil
	}

	itemsByAppt, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range appts {
		appts[i].Items = itemsByAppt[appts[i].ID]
	}
	return appts, nil
}

// MarkPaid sets exactly the two fields checkout owns on an appointment:
// payment status and completion.
func (r AppointmentRepository) MarkPaid(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE appointments
		SET payment_status=$1, status=$2, updated_at=now()
		WHERE id=$3 AND deleted_at IS NULL
	`, domain.PaymentPaid, domain.AppointmentCompleted, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r AppointmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE appointments SET status=$1, updated_at=now() WHERE id=$2 AND deleted_at IS NULL
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r AppointmentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE appointments SET deleted_at = now() WHERE id=$1`, id)
	return err
}

func (r AppointmentRepository) itemsFor(ctx context.Context, ids []int64) (map[int64][]domain.AppointmentItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT appointment_id, id, kind, reference_id, name, price, qty
		FROM appointment_items
		WHERE appointment_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.AppointmentItem)
	for rows.Next() {
		var it domain.AppointmentItem
		var kind string
		if err := rows.Scan(&it.AppointmentID, &it.ID, &kind, &it.ReferenceID, &it.Name, &it.Price.Amount, &it.Qty); err != nil {
			return nil, err
		}
		it.Kind = domain.ItemKind(kind)
		out[it.AppointmentID] = append(out[it.AppointmentID], it)
	}
	return out, rows.Err()
}

func scanAppointment(row interface{ Scan(dest ...any) error }) (*domain.Appointment, error) {
	var a domain.Appointment
	var status, payStatus string
	var barberID pgtype.Int8
	if err := row.Scan(
		&a.ID, &a.CustomerName, &a.CustomerPhone, &barberID, &a.BarberName,
		&a.ScheduledAt, &status, &payStatus, &a.Note, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentStatus(status)
	a.PaymentStatus = domain.PaymentStatus(payStatus)
	if barberID.Valid {
		a.BarberID = &barberID.Int64
	}
	return &a, nil
}
