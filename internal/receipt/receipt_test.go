package receipt

import (
	"strings"
	"testing"
	"time"

	"barberia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *domain.Invoice {
	return &domain.Invoice{
		Number:        "F-000042",
		DocumentType:  domain.DocTicket,
		BarberName:    "Luis",
		PaymentMethod: domain.PaymentCash,
		Total:         domain.Money{Amount: 2300, Currency: "EUR"},
		Received:      domain.Money{Amount: 2500, Currency: "EUR"},
		Change:        domain.Money{Amount: 200, Currency: "EUR"},
		Items: []domain.InvoiceItem{
			{Kind: domain.ItemService, Name: "Corte", UnitPrice: domain.Money{Amount: 1500, Currency: "EUR"}, Qty: 1, Subtotal: domain.Money{Amount: 1500, Currency: "EUR"}},
			{Kind: domain.ItemProduct, Name: "Cera", UnitPrice: domain.Money{Amount: 400, Currency: "EUR"}, Qty: 2, Subtotal: domain.Money{Amount: 800, Currency: "EUR"}},
		},
		CreatedAt: time.Date(2025, 3, 14, 17, 30, 0, 0, time.UTC),
	}
}

func TestRenderLinesFitPaperWidth(t *testing.T) {
	r := &Renderer{Business: domain.Settings{BusinessName: "Barbería El Clásico", PaperWidth: 42}}
	doc := r.Render(testInvoice())

	assert.Equal(t, 42, doc.Width)
	for _, line := range strings.Split(doc.Text, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 42, "line too wide: %q", line)
	}
}

func TestRenderTicketContents(t *testing.T) {
	r := &Renderer{Business: domain.Settings{BusinessName: "Barbería El Clásico", ReceiptFooter: "¡Gracias por su visita!"}}
	doc := r.Render(testInvoice())

	assert.Equal(t, "F-000042", doc.InvoiceNumber)
	assert.Contains(t, doc.Text, "TICKET  F-000042")
	assert.Contains(t, doc.Text, "Barbero: Luis")
	assert.Contains(t, doc.Text, "1x Corte")
	assert.Contains(t, doc.Text, "2x Cera")
	assert.Contains(t, doc.Text, "23.00 EUR")
	assert.Contains(t, doc.Text, "EFECTIVO")
	assert.Contains(t, doc.Text, "Recibido")
	assert.Contains(t, doc.Text, "Cambio")
	assert.Contains(t, doc.Text, "¡Gracias por su visita!")
}

func TestRenderCardOmitsChange(t *testing.T) {
	inv := testInvoice()
	inv.PaymentMethod = domain.PaymentCard
	inv.Received = inv.Total
	inv.Change = domain.Money{Currency: "EUR"}

	r := &Renderer{}
	doc := r.Render(inv)
	assert.Contains(t, doc.Text, "TARJETA")
	assert.NotContains(t, doc.Text, "Recibido")
	assert.NotContains(t, doc.Text, "Cambio")
}

func TestRenderFacturaShowsTaxID(t *testing.T) {
	inv := testInvoice()
	inv.DocumentType = domain.DocFactura
	inv.CustomerName = "Empresa SL"
	inv.CustomerTaxID = "B12345678"

	r := &Renderer{}
	doc := r.Render(inv)
	assert.Contains(t, doc.Text, "FACTURA  F-000042")
	assert.Contains(t, doc.Text, "Cliente: Empresa SL")
	assert.Contains(t, doc.Text, "NIF/CIF: B12345678")
}

func TestRenderNarrowWidthFallsBackToDefault(t *testing.T) {
	r := &Renderer{Business: domain.Settings{PaperWidth: 10}}
	doc := r.Render(testInvoice())
	assert.Equal(t, DefaultWidth, doc.Width)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "15.50 EUR", FormatMoney(domain.Money{Amount: 1550, Currency: "EUR"}))
	assert.Equal(t, "0.05 EUR", FormatMoney(domain.Money{Amount: 5, Currency: "EUR"}))
	assert.Equal(t, "-2.00 EUR", FormatMoney(domain.Money{Amount: -200, Currency: "EUR"}))
	assert.Equal(t, "3.00", FormatMoney(domain.Money{Amount: 300}))
}

func TestSpreadPinsTotalsToMargins(t *testing.T) {
	line := spread("TOTAL", "23.00 EUR", 30)
	require.Equal(t, 30, len(line))
	assert.True(t, strings.HasPrefix(line, "TOTAL"))
	assert.True(t, strings.HasSuffix(line, "23.00 EUR"))
}
