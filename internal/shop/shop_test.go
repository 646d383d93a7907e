package shop

import (
	"context"
	"path/filepath"
	"testing"

	"shop/internal/cart"
	"shop/internal/model"
	"shop/internal/queue"
	"shop/internal/session"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// eventRecorder captures published order events for assertions.
type eventRecorder struct {
	events []queue.OrderEvent
}

func (r *eventRecorder) Publish(ctx context.Context, ev queue.OrderEvent) error {
	r.events = append(r.events, ev)
	return nil
}

type testEnv struct {
	db     *gorm.DB
	carts  *cart.Manager
	svc    *Service
	events *eventRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "shop_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.DiscountCode{},
	))

	carts := cart.NewManager(session.NewMemoryStore())
	events := &eventRecorder{}
	return &testEnv{
		db:     db,
		carts:  carts,
		svc:    NewService(db, carts, events),
		events: events,
	}
}

func (e *testEnv) createUser(t *testing.T, u model.User) *model.User {
	t.Helper()
	if u.PhoneNumber == "" {
		u.PhoneNumber = "989120000000"
	}
	if u.Username == "" {
		u.Username = "tester"
	}
	u.PasswordHash = "x"
	require.NoError(t, e.db.Create(&u).Error)
	return &u
}

func (e *testEnv) createProduct(t *testing.T, p model.Product) model.Product {
	t.Helper()
	require.NoError(t, e.db.Create(&p).Error)
	return p
}

// fillCart adds the product n times through the session store, the same
// path the HTTP handlers use.
func (e *testEnv) fillCart(t *testing.T, sessionID string, p model.Product, n int) {
	t.Helper()
	ctx := context.Background()
	c, err := e.carts.Load(ctx, sessionID)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		c.Add(p)
	}
	require.NoError(t, e.carts.Save(ctx, sessionID, c))
}
