package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"

	ItemService ItemKind = "service"
	ItemProduct ItemKind = "product"

	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"

	DocTicket  DocumentType = "ticket"
	DocFactura DocumentType = "factura"

	AppointmentPending   AppointmentStatus = "pending"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"

	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"

	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"

	CategoryService CategoryKind = "service"
	CategoryProduct CategoryKind = "product"
)

type UserRole string
type ItemKind string
type PaymentMethod string
type DocumentType string
type AppointmentStatus string
type PaymentStatus string
type MovementType string
type CategoryKind string

// DefaultCommissionPct applies when a barber has no configured rate.
const DefaultCommissionPct = 50

type Money struct {
	Amount   int64
	Currency string
}

type User struct {
	ID           int64
	Name         string
	Email        string
	Role         UserRole
	IsGoogle     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

type Barber struct {
	ID            int64
	Name          string
	Phone         string
	Email         string
	CommissionPct *int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Commission returns the barber's configured rate or the default split.
func (b Barber) Commission() int {
	if b.CommissionPct == nil {
		return DefaultCommissionPct
	}
	return *b.CommissionPct
}

type Category struct {
	ID        int64
	Name      string
	Kind      CategoryKind
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type ServiceItem struct {
	ID          int64
	Name        string
	Category    string
	CategoryID  *int64
	Price       Money
	DurationMin int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Product struct {
	ID         int64
	Name       string
	Category   string
	CategoryID *int64
	Price      Money
	TrackStock bool
	Stock      int
	MinStock   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Appointment struct {
	ID            int64
	CustomerName  string
	CustomerPhone string
	BarberID      *int64
	BarberName    string
	ScheduledAt   time.Time
	Status        AppointmentStatus
	PaymentStatus PaymentStatus
	Note          string
	Items         []AppointmentItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// AppointmentItem is a booked service/product the checkout copies forward.
type AppointmentItem struct {
	ID            int64
	AppointmentID int64
	Kind          ItemKind
	ReferenceID   int64
	Name          string
	Price         Money
	Qty           int
}

// LineItem is one cart or invoice entry. Name and price are denormalized
// copies taken at add time, never live references into the catalog.
type LineItem struct {
	Kind        ItemKind
	ReferenceID int64
	Name        string
	UnitPrice   Money
	Qty         int
}

// Subtotal is always derived from its inputs, never stored independently.
func (li LineItem) Subtotal() Money {
	return Money{Amount: li.UnitPrice.Amount * int64(li.Qty), Currency: li.UnitPrice.Currency}
}

// CommissionSplit divides a sale between the performing barber and the house.
// BarberShare + HouseShare always equals the total it was computed from.
type CommissionSplit struct {
	Percentage  int
	BarberShare Money
	HouseShare  Money
}

type Invoice struct {
	ID            int64
	Number        string
	DocumentType  DocumentType
	CustomerName  string
	CustomerTaxID string
	BarberID      *int64
	BarberName    string
	PaymentMethod PaymentMethod
	Subtotal      Money
	Total         Money
	Received      Money
	Change        Money
	CommissionPct int
	BarberShare   Money
	HouseShare    Money
	AppointmentID *int64
	Voided        bool
	VoidReason    string
	VoidedBy      string
	VoidedAt      *time.Time
	Items         []InvoiceItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	Kind        ItemKind
	ReferenceID *int64
	Name        string
	UnitPrice   Money
	Qty         int
	Subtotal    Money
}

// InventoryMovement is one entry of the append-only stock audit trail.
// The cached product stock must match StockAfter of its latest movement.
type InventoryMovement struct {
	ID          int64
	ProductID   int64
	ProductName string
	Type        MovementType
	Quantity    int
	StockBefore int
	StockAfter  int
	Reason      string
	CreatedAt   time.Time
}

type Settings struct {
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	ReceiptFooter   string
	PaperWidth      int
	AutoPrint       bool
	CurrencyCode    string
	PrintServiceURL string
	UpdatedAt       time.Time
}

// AuditEntry records back-office mutations: voids, corrections, manual
// stock adjustments.
type AuditEntry struct {
	ID       int64
	Actor    string
	Action   string
	Subject  string
	Detail   string
	LoggedAt time.Time
}

type CashClosing struct {
	ID        int64
	Date      time.Time
	Operator  string
	Expected  Money
	Counted   Money
	Diff      Money
	Note      string
	CreatedAt time.Time
}
