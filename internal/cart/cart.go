// Package cart implements the session-scoped shopping cart: a mapping of
// product id to quantity plus a price snapshot taken when the product was
// first added.
package cart

import (
	"errors"

	"shop/internal/model"
)

// ErrNotInCart is returned by mutations that require the product to
// already be in the cart.
var ErrNotInCart = errors.New("no such product in the shopping cart")

// Entry is one cart line. UnitPrice is the product's discounted price at
// add time; live price changes do not affect lines already in the cart.
type Entry struct {
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"new_price"`
}

// Cart is a plain value object. It is loaded from the session store at the
// start of an operation and written back explicitly afterwards.
type Cart struct {
	Entries map[uint]Entry `json:"entries"`
}

func New() *Cart {
	return &Cart{Entries: make(map[uint]Entry)}
}

// Add inserts the product at quantity 1, or increments an existing line.
// The increment saturates at the product's inventory: past the cap it is
// silently ignored, not an error.
func (c *Cart) Add(p model.Product) {
	e, ok := c.Entries[p.ID]
	if !ok {
		c.Entries[p.ID] = Entry{Quantity: 1, UnitPrice: p.NewPrice}
		return
	}
	if e.Quantity < p.Inventory {
		e.Quantity++
		c.Entries[p.ID] = e
	}
}

// Decrease lowers the line's quantity by one. A line observed at quantity
// zero is evicted instead. Absent products are an error.
func (c *Cart) Decrease(productID uint) error {
	e, ok := c.Entries[productID]
	if !ok {
		return ErrNotInCart
	}
	if e.Quantity > 0 {
		e.Quantity--
		c.Entries[productID] = e
		return nil
	}
	delete(c.Entries, productID)
	return nil
}

// Remove deletes the line unconditionally. Absent products are an error.
func (c *Cart) Remove(productID uint) error {
	if _, ok := c.Entries[productID]; !ok {
		return ErrNotInCart
	}
	delete(c.Entries, productID)
	return nil
}

// Clear discards every line.
func (c *Cart) Clear() {
	c.Entries = make(map[uint]Entry)
}

// Total is the sum of quantity times the snapshotted unit price.
func (c *Cart) Total() int64 {
	var total int64
	for _, e := range c.Entries {
		total += e.UnitPrice * int64(e.Quantity)
	}
	return total
}

// Count is the sum of all quantities; checkout requires it to be > 0.
func (c *Cart) Count() int {
	var n int
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

// ProductIDs lists the ids currently in the cart, for loading live rows.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Entries))
	for id := range c.Entries {
		ids = append(ids, id)
	}
	return ids
}

// Line joins a cart entry with its live product record.
type Line struct {
	Product   model.Product `json:"product"`
	Quantity  int           `json:"quantity"`
	UnitPrice int64         `json:"new_price"`
}

// Join matches entries against live product rows. Entries whose product
// has disappeared from the catalog are skipped silently.
func (c *Cart) Join(products []model.Product) []Line {
	lines := make([]Line, 0, len(products))
	for _, p := range products {
		e, ok := c.Entries[p.ID]
		if !ok {
			continue
		}
		lines = append(lines, Line{Product: p, Quantity: e.Quantity, UnitPrice: e.UnitPrice})
	}
	return lines
}
