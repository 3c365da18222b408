package receipt

import (
	"fmt"
	"strings"

	"barberia-backend/internal/domain"
)

// DefaultWidth fits 80mm thermal paper.
const DefaultWidth = 42

// Document is a rendered receipt ready for the print bridge or the
// browser print dialog. Layout is a UX concern, not a wire contract.
type Document struct {
	InvoiceNumber string
	Text          string
	Width         int
}

// Renderer builds fixed-width receipt documents from invoice snapshots.
type Renderer struct {
	Business domain.Settings
}

func (r *Renderer) width() int {
	if r.Business.PaperWidth >= 24 {
		return r.Business.PaperWidth
	}
	return DefaultWidth
}

// Render formats the invoice: centered header, boxed document line, dashed
// separators, item lines, boxed total and the payment footer.
func (r *Renderer) Render(inv *domain.Invoice) Document {
	w := r.width()
	var b strings.Builder

	writeCentered(&b, w, r.Business.BusinessName)
	writeCentered(&b, w, r.Business.BusinessAddress)
	writeCentered(&b, w, r.Business.BusinessPhone)
	b.WriteString(dashes(w) + "\n")

	label := "TICKET"
	if inv.DocumentType == domain.DocFactura {
		label = "FACTURA"
	}
	writeBoxed(&b, w, fmt.Sprintf("%s  %s", label, inv.Number))
	b.WriteString(fmt.Sprintf("Fecha: %s\n", inv.CreatedAt.Format("02/01/2006 15:04")))
	if inv.BarberName != "" {
		b.WriteString(clip(fmt.Sprintf("Barbero: %s", inv.BarberName), w) + "\n")
	}
	if inv.CustomerName != "" {
		b.WriteString(clip(fmt.Sprintf("Cliente: %s", inv.CustomerName), w) + "\n")
	}
	if inv.DocumentType == domain.DocFactura && inv.CustomerTaxID != "" {
		b.WriteString(clip(fmt.Sprintf("NIF/CIF: %s", inv.CustomerTaxID), w) + "\n")
	}
	b.WriteString(dashes(w) + "\n")

	for _, it := range inv.Items {
		b.WriteString(clip(fmt.Sprintf("%dx %s", it.Qty, it.Name), w) + "\n")
		left := fmt.Sprintf("   %s c/u", FormatMoney(it.UnitPrice))
		right := FormatMoney(it.Subtotal)
		b.WriteString(spread(left, right, w) + "\n")
	}
	b.WriteString(dashes(w) + "\n")

	writeBoxed(&b, w, spread("TOTAL", FormatMoney(inv.Total), w-4))

	b.WriteString(spread("Pago", paymentLabel(inv.PaymentMethod), w) + "\n")
	if inv.PaymentMethod == domain.PaymentCash {
		b.WriteString(spread("Recibido", FormatMoney(inv.Received), w) + "\n")
		b.WriteString(spread("Cambio", FormatMoney(inv.Change), w) + "\n")
	}

	if r.Business.ReceiptFooter != "" {
		b.WriteString(dashes(w) + "\n")
		writeCentered(&b, w, r.Business.ReceiptFooter)
	}

	return Document{InvoiceNumber: inv.Number, Text: b.String(), Width: w}
}

// FormatMoney renders integer minor units as a decimal amount.
func FormatMoney(m domain.Money) string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	s := fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
	if m.Currency != "" {
		return s + " " + m.Currency
	}
	return s
}

func paymentLabel(m domain.PaymentMethod) string {
	switch m {
	case domain.PaymentCash:
		return "EFECTIVO"
	case domain.PaymentCard:
		return "TARJETA"
	case domain.PaymentTransfer:
		return "TRANSFERENCIA"
	default:
		return strings.ToUpper(string(m))
	}
}

func writeCentered(b *strings.Builder, w int, s string) {
	if s == "" {
		return
	}
	s = clip(s, w)
	pad := (w - len(s)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s + "\n")
}

func writeBoxed(b *strings.Builder, w int, s string) {
	inner := w - 4
	s = clip(s, inner)
	b.WriteString("+" + strings.Repeat("-", w-2) + "+\n")
	b.WriteString("| " + s + strings.Repeat(" ", inner-len(s)) + " |\n")
	b.WriteString("+" + strings.Repeat("-", w-2) + "+\n")
}

// spread places left and right text at opposite margins of one line.
func spread(left, right string, w int) string {
	gap := w - len(left) - len(right)
	if gap < 1 {
		left = clip(left, w-len(right)-1)
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func dashes(w int) string {
	return strings.Repeat("-", w)
}

func clip(s string, w int) string {
	if len(s) <= w {
		return s
	}
	runes := []rune(s)
	for len(string(runes)) > w {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
