package cart

import (
	"context"
	"testing"

	"shop/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewManager(session.NewMemoryStore())

	c, err := m.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, c.Entries)

	c.Add(product(1, 5, 900))
	c.Add(product(1, 5, 900))
	require.NoError(t, m.Save(ctx, "sid-1", c))

	// Quantities and price snapshots survive the JSON round trip.
	loaded, err := m.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Entries[1].Quantity)
	assert.Equal(t, int64(900), loaded.Entries[1].UnitPrice)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(session.NewMemoryStore())

	c, _ := m.Load(ctx, "sid-a")
	c.Add(product(1, 5, 100))
	require.NoError(t, m.Save(ctx, "sid-a", c))

	other, err := m.Load(ctx, "sid-b")
	require.NoError(t, err)
	assert.Empty(t, other.Entries)
}

func TestManagerDropReinitializesEmpty(t *testing.T) {
	ctx := context.Background()
	m := NewManager(session.NewMemoryStore())

	c, _ := m.Load(ctx, "sid-1")
	c.Add(product(1, 5, 100))
	require.NoError(t, m.Save(ctx, "sid-1", c))

	require.NoError(t, m.Drop(ctx, "sid-1"))

	loaded, err := m.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestManagerCurrentOrderPointer(t *testing.T) {
	ctx := context.Background()
	m := NewManager(session.NewMemoryStore())

	_, found, err := m.CurrentOrderID(ctx, "sid-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.SetCurrentOrderID(ctx, "sid-1", 7))

	id, found, err := m.CurrentOrderID(ctx, "sid-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint(7), id)
}
