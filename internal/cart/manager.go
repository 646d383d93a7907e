package cart

import (
	"context"

	"shop/internal/session"
	rediskey "shop/pkg/redis"
)

// Manager reads and writes carts and the current-order pointer through the
// session store.
type Manager struct {
	store session.Store
}

func NewManager(store session.Store) *Manager {
	return &Manager{store: store}
}

// Load returns the session's cart, or a fresh empty cart when the session
// has none yet.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Cart, error) {
	c := New()
	found, err := m.store.Get(ctx, rediskey.CartKey(sessionID), c)
	if err != nil {
		return nil, err
	}
	if !found || c.Entries == nil {
		return New(), nil
	}
	return c, nil
}

// Save writes the cart back to the session store.
func (m *Manager) Save(ctx context.Context, sessionID string, c *Cart) error {
	return m.store.Put(ctx, rediskey.CartKey(sessionID), c)
}

// Drop removes the cart value entirely; the next Load reinitializes an
// empty cart.
func (m *Manager) Drop(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, rediskey.CartKey(sessionID))
}

// CurrentOrderID returns the session's current-order pointer set at
// checkout. found=false means no order has been placed in this session.
func (m *Manager) CurrentOrderID(ctx context.Context, sessionID string) (uint, bool, error) {
	var id uint
	found, err := m.store.Get(ctx, rediskey.CurrentOrderKey(sessionID), &id)
	if err != nil {
		return 0, false, err
	}
	return id, found, nil
}

// SetCurrentOrderID records the order the discount mutations operate on.
func (m *Manager) SetCurrentOrderID(ctx context.Context, sessionID string, orderID uint) error {
	return m.store.Put(ctx, rediskey.CurrentOrderKey(sessionID), orderID)
}
