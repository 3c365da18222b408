package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"barberia-backend/internal/cart"
	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
	"barberia-backend/internal/printing"
	"barberia-backend/internal/receipt"
	"barberia-backend/internal/repository"
	"github.com/google/uuid"
)

// ValidationError rejects a charge before any write happens. The handler
// maps it to a 400 so the operator can correct the form and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrDuplicateCharge means the idempotency key was already used; the
// original invoice stands and no second one was written.
var ErrDuplicateCharge = errors.New("duplicate charge")

// Store interfaces let tests drive the pipeline with fakes; the pgx
// repositories are the production implementations.
type InvoiceWriter interface {
	Create(ctx context.Context, in repository.CreateInvoiceInput) (*domain.Invoice, error)
}

type AppointmentMarker interface {
	MarkPaid(ctx context.Context, id int64) error
}

type StockPoster interface {
	PostMovement(ctx context.Context, in repository.PostMovementInput) (*domain.InventoryMovement, error)
}

type BarberReader interface {
	Get(ctx context.Context, id int64) (*domain.Barber, error)
}

type Splitter interface {
	Split(ctx context.Context, barber *domain.Barber, total int64) domain.CommissionSplit
}

type Deliverer interface {
	Deliver(ctx context.Context, doc receipt.Document) printing.Result
}

// Service runs the charge pipeline: validate, split, write the invoice,
// then the best-effort tail (appointment, stock, receipt) in fixed order.
type Service struct {
	Invoices     InvoiceWriter
	Appointments AppointmentMarker
	Stock        StockPoster
	Barbers      BarberReader
	Commission   Splitter
	Renderer     *receipt.Renderer
	Delivery     Deliverer
	Logger       *slog.Logger
	Currency     string
}

type ChargeLine struct {
	Kind        domain.ItemKind
	ReferenceID int64
	Name        string
	UnitPrice   int64
	Qty         int
}

type ChargeInput struct {
	IdempotencyKey string
	BarberID       int64
	DocumentType   domain.DocumentType
	PaymentMethod  domain.PaymentMethod
	CustomerName   string
	CustomerTaxID  string
	AmountReceived int64
	AppointmentID  *int64
	Lines          []ChargeLine
}

type ChargeResult struct {
	Invoice  *domain.Invoice
	Receipt  receipt.Document
	Delivery printing.Result
	// Warnings carry secondary-effect failures (appointment update, stock
	// posts, delivery) that never block the committed sale.
	Warnings []string
}

// Quote recomputes totals and the commission split for the current cart and
// barber. The UI calls it on every cart or barber change.
func (s *Service) Quote(ctx context.Context, barberID int64, lines []ChargeLine) (int64, domain.CommissionSplit, error) {
	c, err := buildCart(lines, s.Currency)
	if err != nil {
		return 0, domain.CommissionSplit{}, err
	}
	total := c.Total()

	var barber *domain.Barber
	if barberID != 0 {
		if b, err := s.Barbers.Get(ctx, barberID); err == nil {
			barber = b
		}
	}
	return total, s.Commission.Split(ctx, barber, total), nil
}

// Charge finalizes a cart into a persisted invoice. The invoice write is
// the single blocking step; everything after it is best-effort and reported
// through Warnings.
func (s *Service) Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error) {
	if in.DocumentType == "" {
		in.DocumentType = domain.DocTicket
	}

	c, err := s.validate(in)
	if err != nil {
		chargeFailures.WithLabelValues("validation").Inc()
		return nil, err
	}
	total := c.Total()

	barber, err := s.Barbers.Get(ctx, in.BarberID)
	if err != nil {
		chargeFailures.WithLabelValues("validation").Inc()
		return nil, &ValidationError{Field: "barberId", Message: "Barbero no encontrado"}
	}

	split := s.Commission.Split(ctx, barber, total)

	var change int64
	received := total
	if in.PaymentMethod == domain.PaymentCash {
		received = in.AmountReceived
		change = received - total
	}

	inv, err := s.Invoices.Create(ctx, repository.CreateInvoiceInput{
		IdempotencyKey: in.IdempotencyKey,
		DocumentType:   in.DocumentType,
		CustomerName:   in.CustomerName,
		CustomerTaxID:  in.CustomerTaxID,
		BarberID:       barber.ID,
		BarberName:     barber.Name,
		PaymentMethod:  in.PaymentMethod,
		Subtotal:       total,
		Total:          total,
		Received:       received,
		Change:         change,
		CommissionPct:  split.Percentage,
		BarberShare:    split.BarberShare.Amount,
		HouseShare:     split.HouseShare.Amount,
		AppointmentID:  in.AppointmentID,
		Currency:       s.Currency,
		Items:          c.Items(),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			chargeFailures.WithLabelValues("duplicate").Inc()
			return nil, ErrDuplicateCharge
		}
		chargeFailures.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("%s: %w", db.Humanize(err), err)
	}

	result := &ChargeResult{Invoice: inv}
	chargesTotal.WithLabelValues(string(in.PaymentMethod)).Inc()

	// The invoice is the source of truth for "was it paid": a failed
	// appointment update never rolls it back.
	if in.AppointmentID != nil {
		if err := s.Appointments.MarkPaid(ctx, *in.AppointmentID); err != nil {
			s.Logger.Warn("appointment update failed after charge", "invoice", inv.Number, "appointmentId", *in.AppointmentID, "err", err)
			result.Warnings = append(result.Warnings, "La cita vinculada no pudo actualizarse, márcala como pagada manualmente")
		}
	}

	s.decrementStock(ctx, inv, result)

	doc := s.Renderer.Render(inv)
	result.Receipt = doc
	if s.Delivery != nil {
		result.Delivery = s.Delivery.Deliver(ctx, doc)
		deliveriesTotal.WithLabelValues(string(result.Delivery.Outcome)).Inc()
		if result.Delivery.Warning != "" {
			result.Warnings = append(result.Warnings, result.Delivery.Warning)
		}
	}

	return result, nil
}

// decrementStock posts one outflow movement per product line. Each post is
// independent: a failure warns and the rest still run.
func (s *Service) decrementStock(ctx context.Context, inv *domain.Invoice, result *ChargeResult) {
	for _, item := range inv.Items {
		if item.Kind != domain.ItemProduct || item.ReferenceID == nil {
			continue
		}
		_, err := s.Stock.PostMovement(ctx, repository.PostMovementInput{
			ProductID: *item.ReferenceID,
			Type:      domain.MovementOut,
			Quantity:  item.Qty,
			Reason:    "Venta " + inv.Number,
		})
		if err != nil {
			s.Logger.Warn("stock movement failed after charge", "invoice", inv.Number, "productId", *item.ReferenceID, "err", err)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Inventario de %q no descontado, corrígelo manualmente", item.Name))
		}
	}
}

func (s *Service) validate(in ChargeInput) (*cart.Cart, error) {
	if in.BarberID == 0 {
		return nil, &ValidationError{Field: "barberId", Message: "Selecciona un barbero"}
	}
	if len(in.Lines) == 0 {
		return nil, &ValidationError{Field: "items", Message: "El carrito está vacío"}
	}
	if in.IdempotencyKey != "" {
		if _, err := uuid.Parse(in.IdempotencyKey); err != nil {
			return nil, &ValidationError{Field: "idempotencyKey", Message: "Clave de idempotencia inválida"}
		}
	}
	switch in.PaymentMethod {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentTransfer:
	default:
		return nil, &ValidationError{Field: "paymentMethod", Message: "Método de pago inválido"}
	}
	if in.DocumentType == domain.DocFactura && in.CustomerTaxID == "" {
		return nil, &ValidationError{Field: "customerTaxId", Message: "La factura requiere NIF/CIF del cliente"}
	}

	c, err := buildCart(in.Lines, s.Currency)
	if err != nil {
		return nil, err
	}
	total := c.Total()
	if total <= 0 {
		return nil, &ValidationError{Field: "total", Message: "El importe debe ser mayor que cero"}
	}
	if in.PaymentMethod == domain.PaymentCash && in.AmountReceived < total {
		return nil, &ValidationError{Field: "amountReceived", Message: "El importe recibido es menor que el total"}
	}
	return c, nil
}

// buildCart rebuilds a server-side cart from submitted lines so the merge
// policy and subtotal invariants hold regardless of what the client sent.
// Duplicate (kind, referenceId) lines collapse into one entry with summed
// quantity.
func buildCart(lines []ChargeLine, currency string) (*cart.Cart, error) {
	type key struct {
		kind domain.ItemKind
		ref  int64
	}
	c := cart.New()
	index := make(map[key]int)
	for _, ln := range lines {
		if ln.Qty < 1 {
			return nil, &ValidationError{Field: "items", Message: fmt.Sprintf("Cantidad inválida para %q", ln.Name)}
		}
		if ln.UnitPrice < 0 {
			return nil, &ValidationError{Field: "items", Message: fmt.Sprintf("Precio inválido para %q", ln.Name)}
		}
		k := key{kind: ln.Kind, ref: ln.ReferenceID}
		if i, ok := index[k]; ok {
			if err := c.SetQuantity(i, c.Items()[i].Qty+ln.Qty); err != nil {
				return nil, err
			}
			continue
		}
		err := c.Add(cart.Entry{
			Item: domain.LineItem{
				Kind:        ln.Kind,
				ReferenceID: ln.ReferenceID,
				Name:        ln.Name,
				UnitPrice:   domain.Money{Amount: ln.UnitPrice, Currency: currency},
			},
			StockCap: cart.NoStockCap,
		})
		if err != nil {
			return nil, err
		}
		i := c.Len() - 1
		index[k] = i
		if err := c.SetQuantity(i, ln.Qty); err != nil {
			return nil, err
		}
	}
	return c, nil
}
