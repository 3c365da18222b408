package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"barberia-backend/internal/domain"
	"barberia-backend/internal/printing"
	"barberia-backend/internal/receipt"
	"barberia-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoices struct {
	created []repository.CreateInvoiceInput
	err     error
}

func (f *fakeInvoices) Create(ctx context.Context, in repository.CreateInvoiceInput) (*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	items := make([]domain.InvoiceItem, 0, len(in.Items))
	for _, li := range in.Items {
		ref := li.ReferenceID
		items = append(items, domain.InvoiceItem{
			Kind:        li.Kind,
			ReferenceID: &ref,
			Name:        li.Name,
			UnitPrice:   li.UnitPrice,
			Qty:         li.Qty,
			Subtotal:    li.Subtotal(),
		})
	}
	barberID := in.BarberID
	return &domain.Invoice{
		ID:            int64(len(f.created)),
		Number:        "F-000001",
		DocumentType:  in.DocumentType,
		CustomerName:  in.CustomerName,
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
		CreatedAt:     time.Now(),
	}, nil
}

type fakeAppointments struct {
	marked []int64
	err    error
}

func (f *fakeAppointments) MarkPaid(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeStock struct {
	posts []repository.PostMovementInput
	err   error
}

func (f *fakeStock) PostMovement(ctx context.Context, in repository.PostMovementInput) (*domain.InventoryMovement, error) {
	f.posts = append(f.posts, in)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.InventoryMovement{ProductID: in.ProductID, Type: in.Type, Quantity: -in.Quantity}, nil
}

type fakeBarbers struct {
	barbers map[int64]*domain.Barber
}

func (f *fakeBarbers) Get(ctx context.Context, id int64) (*domain.Barber, error) {
	b, ok := f.barbers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

type fakeDelivery struct {
	result printing.Result
	docs   []receipt.Document
}

func (f *fakeDelivery) Deliver(ctx context.Context, doc receipt.Document) printing.Result {
	f.docs = append(f.docs, doc)
	return f.result
}

func pctPtr(v int) *int { return &v }

func newTestService() (*Service, *fakeInvoices, *fakeAppointments, *fakeStock, *fakeDelivery) {
	invoices := &fakeInvoices{}
	appointments := &fakeAppointments{}
	stock := &fakeStock{}
	delivery := &fakeDelivery{result: printing.Result{Outcome: printing.OutcomePrinted, Via: "print-service", DrawerHandled: true}}
	svc := &Service{
		Invoices:     invoices,
		Appointments: appointments,
		Stock:        stock,
		Barbers: &fakeBarbers{barbers: map[int64]*domain.Barber{
			1: {ID: 1, Name: "Luis", CommissionPct: pctPtr(50), Active: true},
			2: {ID: 2, Name: "Marco", CommissionPct: pctPtr(33), Active: true},
			3: {ID: 3, Name: "Nuevo", Active: true},
		}},
		Commission: Calculator{Currency: "EUR"},
		Renderer:   &receipt.Renderer{Business: domain.Settings{BusinessName: "Barbería Test", PaperWidth: 42}},
		Delivery:   delivery,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Currency:   "EUR",
	}
	return svc, invoices, appointments, stock, delivery
}

func validInput() ChargeInput {
	return ChargeInput{
		IdempotencyKey: uuid.NewString(),
		BarberID:       1,
		PaymentMethod:  domain.PaymentCash,
		AmountReceived: 2000,
		Lines: []ChargeLine{
			{Kind: domain.ItemService, ReferenceID: 10, Name: "Corte", UnitPrice: 1500, Qty: 1},
		},
	}
}

func TestChargeEmptyCartRejected(t *testing.T) {
	svc, invoices, _, stock, _ := newTestService()
	in := validInput()
	in.Lines = nil

	_, err := svc.Charge(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "items", vErr.Field)
	assert.Empty(t, invoices.created)
	assert.Empty(t, stock.posts)
}

func TestChargeUnknownBarberRejected(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	in := validInput()
	in.BarberID = 99

	_, err := svc.Charge(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "barberId", vErr.Field)
	assert.Empty(t, invoices.created)
}

func TestChargeCashUnderpaymentRejected(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	in := validInput()
	in.AmountReceived = 1000

	_, err := svc.Charge(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "amountReceived", vErr.Field)
	assert.Empty(t, invoices.created)
}

func TestChargeFacturaRequiresTaxID(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput()
	in.DocumentType = domain.DocFactura
	in.CustomerTaxID = ""

	_, err := svc.Charge(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "customerTaxId", vErr.Field)
}

func TestChargeInvalidIdempotencyKeyRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput()
	in.IdempotencyKey = "not-a-uuid"

	_, err := svc.Charge(context.Background(), in)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "idempotencyKey", vErr.Field)
}

func TestChargeCashChange(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput()
	in.AmountReceived = 2000

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Invoice.Total.Amount)
	assert.Equal(t, int64(2000), res.Invoice.Received.Amount)
	assert.Equal(t, int64(500), res.Invoice.Change.Amount)
}

func TestChargeCardReceivedEqualsTotal(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput()
	in.PaymentMethod = domain.PaymentCard
	in.AmountReceived = 0

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Invoice.Received.Amount)
	assert.Equal(t, int64(0), res.Invoice.Change.Amount)
}

func TestChargeCommissionSplitRecorded(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	in := validInput()
	in.BarberID = 2 // 33%

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 33, res.Invoice.CommissionPct)
	assert.Equal(t, int64(495), res.Invoice.BarberShare.Amount)
	assert.Equal(t, int64(1005), res.Invoice.HouseShare.Amount)
	require.Len(t, invoices.created, 1)
	assert.Equal(t, res.Invoice.BarberShare.Amount+res.Invoice.HouseShare.Amount, res.Invoice.Total.Amount)
}

func TestChargeDefaultCommissionWithoutRate(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput()
	in.BarberID = 3 // no configured rate

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCommissionPct, res.Invoice.CommissionPct)
}

func TestChargeDuplicateIdempotencyKey(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	invoices.err = &pgconn.PgError{Code: "23505", ConstraintName: "invoices_idempotency_key_key"}

	_, err := svc.Charge(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrDuplicateCharge)
}

func TestChargeForeignKeyErrorHumanized(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	invoices.err = &pgconn.PgError{Code: "23503"}

	_, err := svc.Charge(context.Background(), validInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Datos relacionados no encontrados")
}

func TestChargeAppointmentFailureIsWarningOnly(t *testing.T) {
	svc, invoices, appointments, _, _ := newTestService()
	appointments.err = errors.New("boom")
	apptID := int64(7)
	in := validInput()
	in.AppointmentID = &apptID

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, invoices.created, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "cita")
}

func TestChargeMarksLinkedAppointment(t *testing.T) {
	svc, _, appointments, _, _ := newTestService()
	apptID := int64(7)
	in := validInput()
	in.AppointmentID = &apptID

	_, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, appointments.marked)
}

func TestChargeDecrementsOnlyProducts(t *testing.T) {
	svc, _, _, stock, _ := newTestService()
	in := validInput()
	in.Lines = []ChargeLine{
		{Kind: domain.ItemService, ReferenceID: 10, Name: "Corte", UnitPrice: 1500, Qty: 1},
		{Kind: domain.ItemProduct, ReferenceID: 20, Name: "Cera", UnitPrice: 800, Qty: 2},
	}
	in.AmountReceived = 5000

	_, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, stock.posts, 1)
	assert.Equal(t, int64(20), stock.posts[0].ProductID)
	assert.Equal(t, domain.MovementOut, stock.posts[0].Type)
	assert.Equal(t, 2, stock.posts[0].Quantity)
}

func TestChargeStockFailureIsWarningOnly(t *testing.T) {
	svc, invoices, _, stock, _ := newTestService()
	stock.err = repository.ErrInsufficientStock
	in := validInput()
	in.Lines = []ChargeLine{
		{Kind: domain.ItemProduct, ReferenceID: 20, Name: "Cera", UnitPrice: 800, Qty: 2},
	}
	in.AmountReceived = 1600

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, invoices.created, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Cera")
}

func TestChargeDeliveryResultAndWarning(t *testing.T) {
	svc, _, _, _, delivery := newTestService()
	delivery.result = printing.Result{
		Outcome: printing.OutcomeDownloaded,
		Via:     "os-dialog",
		Warning: "Impresión directa no disponible: usa el diálogo de impresión del sistema",
	}

	res, err := svc.Charge(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, printing.OutcomeDownloaded, res.Delivery.Outcome)
	assert.False(t, res.Delivery.DrawerHandled)
	require.Len(t, res.Warnings, 1)
	require.Len(t, delivery.docs, 1)
	assert.Equal(t, "F-000001", delivery.docs[0].InvoiceNumber)
}

func TestChargeMergesDuplicateLines(t *testing.T) {
	svc, invoices, _, _, _ := newTestService()
	in := validInput()
	in.Lines = []ChargeLine{
		{Kind: domain.ItemService, ReferenceID: 10, Name: "Corte", UnitPrice: 1500, Qty: 1},
		{Kind: domain.ItemService, ReferenceID: 10, Name: "Corte", UnitPrice: 1500, Qty: 2},
	}
	in.AmountReceived = 5000

	res, err := svc.Charge(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, invoices.created, 1)
	require.Len(t, res.Invoice.Items, 1)
	assert.Equal(t, 3, res.Invoice.Items[0].Qty)
	assert.Equal(t, int64(4500), res.Invoice.Total.Amount)
}

func TestQuoteComputesSplitWithoutWrites(t *testing.T) {
	svc, invoices, _, stock, _ := newTestService()

	total, split, err := svc.Quote(context.Background(), 1, []ChargeLine{
		{Kind: domain.ItemService, ReferenceID: 10, Name: "Corte", UnitPrice: 1000, Qty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
	assert.Equal(t, int64(500), split.BarberShare.Amount)
	assert.Empty(t, invoices.created)
	assert.Empty(t, stock.posts)
}
