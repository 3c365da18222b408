package cart

import (
	"errors"

	"barberia-backend/internal/domain"
)

// ErrInsufficientStock is returned when a product line would exceed the
// stock known at add time. The client-side stock figure is advisory; the
// authoritative check happens when the movement is posted.
var ErrInsufficientStock = errors.New("insufficient stock")

// Entry is one cart line plus the stock cap that applies to it.
// StockCap is ignored for services and for products without stock tracking
// (use NoStockCap).
type Entry struct {
	Item     domain.LineItem
	StockCap int
}

const NoStockCap = -1

// Cart holds the line items of one checkout session. It is owned by a
// single session and is not safe for concurrent use.
type Cart struct {
	entries []Entry
}

func New() *Cart {
	return &Cart{}
}

// Add merges by (kind, referenceId): an existing entry gets its quantity
// incremented by one, otherwise a new line with quantity 1 is appended.
// Incrementing a capped product past its stock is rejected.
func (c *Cart) Add(e Entry) error {
	for i := range c.entries {
		cur := &c.entries[i]
		if cur.Item.Kind == e.Item.Kind && cur.Item.ReferenceID == e.Item.ReferenceID {
			if cur.StockCap != NoStockCap && cur.Item.Qty+1 > cur.StockCap {
				return ErrInsufficientStock
			}
			cur.Item.Qty++
			return nil
		}
	}
	if e.StockCap != NoStockCap && e.StockCap < 1 {
		return ErrInsufficientStock
	}
	e.Item.Qty = 1
	c.entries = append(c.entries, e)
	return nil
}

// SetQuantity sets an absolute quantity, clamped to a minimum of 1.
// A request beyond a product's stock cap is rejected and leaves the
// line unchanged.
func (c *Cart) SetQuantity(index, qty int) error {
	if index < 0 || index >= len(c.entries) {
		return errors.New("cart index out of range")
	}
	if qty < 1 {
		qty = 1
	}
	e := &c.entries[index]
	if e.StockCap != NoStockCap && qty > e.StockCap {
		return ErrInsufficientStock
	}
	e.Item.Qty = qty
	return nil
}

// Remove deletes exactly one entry, preserving the order of the rest.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.entries) {
		return errors.New("cart index out of range")
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
	return nil
}

// Items returns a snapshot copy of the current lines.
func (c *Cart) Items() []domain.LineItem {
	out := make([]domain.LineItem, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Item)
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.entries)
}

// Total sums the line subtotals. Safe to call at any frequency.
func (c *Cart) Total() int64 {
	var sum int64
	for _, e := range c.entries {
		sum += e.Item.Subtotal().Amount
	}
	return sum
}

// Clear empties the cart, e.g. after a successful charge.
func (c *Cart) Clear() {
	c.entries = nil
}
