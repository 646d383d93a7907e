package cart

import (
	"testing"

	"shop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id uint, inventory int, newPrice int64) model.Product {
	return model.Product{ID: id, Inventory: inventory, NewPrice: newPrice, IsSalable: true}
}

func TestAddSnapshotsDiscountedPrice(t *testing.T) {
	c := New()
	c.Add(product(1, 5, 900))

	e, ok := c.Entries[1]
	require.True(t, ok)
	assert.Equal(t, 1, e.Quantity)
	assert.Equal(t, int64(900), e.UnitPrice)
}

func TestAddSaturatesAtInventory(t *testing.T) {
	p := product(1, 3, 100)
	c := New()
	for i := 0; i < 4; i++ {
		c.Add(p)
	}

	// Inventory 3, added 4 times: quantity stops at 3, no error.
	assert.Equal(t, 3, c.Entries[1].Quantity)
}

func TestAddKeepsOriginalSnapshotOnIncrement(t *testing.T) {
	p := product(1, 5, 100)
	c := New()
	c.Add(p)

	p.NewPrice = 250
	c.Add(p)

	assert.Equal(t, 2, c.Entries[1].Quantity)
	assert.Equal(t, int64(100), c.Entries[1].UnitPrice)
}

func TestDecreaseToZeroThenEvict(t *testing.T) {
	c := New()
	c.Add(product(1, 5, 100))

	// quantity 1 -> 0: the line survives at zero.
	require.NoError(t, c.Decrease(1))
	assert.Equal(t, 0, c.Entries[1].Quantity)

	// second decrease on the zero line evicts it.
	require.NoError(t, c.Decrease(1))
	_, ok := c.Entries[1]
	assert.False(t, ok)
}

func TestDecreaseMissingProduct(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Decrease(42), ErrNotInCart)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(product(1, 5, 100))
	c.Add(product(1, 5, 100))

	require.NoError(t, c.Remove(1))
	assert.Empty(t, c.Entries)

	assert.ErrorIs(t, c.Remove(1), ErrNotInCart)
}

func TestTotalUsesSnapshotNotLivePrice(t *testing.T) {
	p := product(1, 10, 500)
	c := New()
	c.Add(p)
	c.Add(p)
	c.Add(product(2, 10, 300))

	// Live price changes after adding must not affect the total.
	assert.Equal(t, int64(2*500+300), c.Total())
}

func TestCountSumsQuantities(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Count())

	c.Add(product(1, 5, 100))
	c.Add(product(1, 5, 100))
	c.Add(product(2, 5, 100))
	assert.Equal(t, 3, c.Count())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product(1, 5, 100))
	c.Clear()

	assert.Empty(t, c.Entries)
	assert.Equal(t, int64(0), c.Total())
}

func TestJoinSkipsVanishedProducts(t *testing.T) {
	c := New()
	c.Add(product(1, 5, 100))
	c.Add(product(2, 5, 200))

	// Product 2 is gone from the catalog; only product 1 shows up.
	lines := c.Join([]model.Product{product(1, 5, 100)})
	require.Len(t, lines, 1)
	assert.Equal(t, uint(1), lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(100), lines[0].UnitPrice)
}
