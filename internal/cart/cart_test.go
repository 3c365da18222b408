package cart

import (
	"testing"

	"barberia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceEntry(id int64, name string, price int64) Entry {
	return Entry{
		Item: domain.LineItem{
			Kind:        domain.ItemService,
			ReferenceID: id,
			Name:        name,
			UnitPrice:   domain.Money{Amount: price, Currency: "EUR"},
		},
		StockCap: NoStockCap,
	}
}

func productEntry(id int64, name string, price int64, stock int) Entry {
	return Entry{
		Item: domain.LineItem{
			Kind:        domain.ItemProduct,
			ReferenceID: id,
			Name:        name,
			UnitPrice:   domain.Money{Amount: price, Currency: "EUR"},
		},
		StockCap: stock,
	}
}

func TestAddMergesSameReference(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, int64(2000), c.Total())
}

func TestAddKeepsDistinctReferencesApart(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	require.NoError(t, c.Add(productEntry(1, "Cera", 500, 3)))

	// Same reference id but different kind must not merge.
	require.Equal(t, 2, c.Len())
}

func TestAddRejectsIncrementBeyondStock(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(productEntry(7, "Cera", 500, 1)))
	err := c.Add(productEntry(7, "Cera", 500, 1))
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The cart is untouched by the rejected add.
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
}

func TestAddRejectsOutOfStockProduct(t *testing.T) {
	c := New()
	err := c.Add(productEntry(7, "Cera", 500, 0))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, c.Len())
}

func TestSetQuantityClampsToOne(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	require.NoError(t, c.SetQuantity(0, -5))
	assert.Equal(t, 1, c.Items()[0].Qty)
}

func TestSetQuantityRespectsStockCap(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(productEntry(7, "Cera", 500, 2)))
	assert.ErrorIs(t, c.SetQuantity(0, 3), ErrInsufficientStock)
	assert.Equal(t, 1, c.Items()[0].Qty)

	require.NoError(t, c.SetQuantity(0, 2))
	assert.Equal(t, 2, c.Items()[0].Qty)
}

func TestRemovePreservesOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	require.NoError(t, c.Add(serviceEntry(2, "Barba", 700)))
	require.NoError(t, c.Add(serviceEntry(3, "Tinte", 2500)))

	require.NoError(t, c.Remove(1))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Corte", items[0].Name)
	assert.Equal(t, "Tinte", items[1].Name)
}

func TestTotalMatchesSubtotals(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	require.NoError(t, c.Add(serviceEntry(2, "Barba", 700)))
	require.NoError(t, c.Add(serviceEntry(2, "Barba", 700)))

	var sum int64
	for _, it := range c.Items() {
		assert.Equal(t, it.UnitPrice.Amount*int64(it.Qty), it.Subtotal().Amount)
		sum += it.Subtotal().Amount
	}
	assert.Equal(t, sum, c.Total())
	assert.Equal(t, int64(2400), c.Total())
}

func TestClearEmptiesCart(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(serviceEntry(1, "Corte", 1000)))
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Total())
}
