package shop

import (
	"context"

	"shop/internal/cart"
	"shop/internal/queue"

	"gorm.io/gorm"
)

// OrderEventPublisher is where checkout drops its post-commit event.
// queue.Outbox implements it; tests pass a recorder or nil.
type OrderEventPublisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// Service runs the order-side mutations. Each call executes inside one
// request and wraps its writes in a single gorm transaction.
type Service struct {
	db     *gorm.DB
	carts  *cart.Manager
	events OrderEventPublisher
}

// NewService wires the service. events may be nil when no pipeline is
// configured; checkout then skips event emission.
func NewService(db *gorm.DB, carts *cart.Manager, events OrderEventPublisher) *Service {
	return &Service{db: db, carts: carts, events: events}
}
