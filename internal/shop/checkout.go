package shop

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"shop/internal/model"
	"shop/internal/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutInput carries optional address overrides. Empty fields fall back
// to the user's stored profile.
type CheckoutInput struct {
	Address    string
	City       string
	Province   string
	PostalCode string
}

// Checkout converts the session cart into a persisted order plus items.
//
// Address resolution: explicit argument wins over the stored profile
// value; a field absent in both fails validation. Supplied values are
// written back onto empty profile fields so the next checkout can omit
// them.
//
// Order and item creation run in one transaction: a non-salable product
// rolls back everything, leaving no order row and an untouched cart. The
// cart is dropped only after the transaction commits.
func (s *Service) Checkout(ctx context.Context, sessionID string, user *model.User, in CheckoutInput) (*model.Order, error) {
	address, err := resolveField(in.Address, user.Address, "address")
	if err != nil {
		return nil, err
	}
	city, err := resolveField(in.City, user.City, "city")
	if err != nil {
		return nil, err
	}
	province, err := resolveField(in.Province, user.Province, "province")
	if err != nil {
		return nil, err
	}
	postalCode, err := resolveField(in.PostalCode, user.PostalCode, "postal code")
	if err != nil {
		return nil, err
	}

	if backfillProfile(user, in) {
		if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
			return nil, err
		}
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Count() == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		OrderNo:    NewOrderNo(),
		UserID:     user.ID,
		Address:    address,
		City:       city,
		Province:   province,
		PostalCode: postalCode,
		Price:      c.Total(),
	}

	var itemCount int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		var products []model.Product
		if err := tx.Where("id IN ?", c.ProductIDs()).Find(&products).Error; err != nil {
			return err
		}

		// Cart entries whose product left the catalog are skipped, same as
		// cart iteration.
		for _, line := range c.Join(products) {
			if line.Quantity <= 0 {
				continue
			}
			if !line.Product.IsSalable {
				return ErrNotSalable
			}
			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.Product.ID,
				Price:     line.UnitPrice,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			itemCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Committed: discard the cart and point the session at the new order.
	if err := s.carts.Drop(ctx, sessionID); err != nil {
		return nil, err
	}
	if err := s.carts.SetCurrentOrderID(ctx, sessionID, order.ID); err != nil {
		return nil, err
	}

	if s.events != nil {
		ev := queue.OrderEvent{
			EventID:   uuid.New().String(),
			OrderNo:   order.OrderNo,
			UserID:    order.UserID,
			Total:     order.Price,
			ItemCount: itemCount,
			CreatedAt: time.Now(),
		}
		// Best effort: the order exists either way.
		if err := s.events.Publish(ctx, ev); err != nil {
			log.Printf("checkout publish event order=%s: %v", order.OrderNo, err)
		}
	}

	return order, nil
}

// resolveField picks the effective checkout value: argument, then profile.
func resolveField(arg, profile, name string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if profile != "" {
		return profile, nil
	}
	return "", FieldRequired(name)
}

// backfillProfile copies supplied fields onto empty profile fields and
// reports whether anything changed.
func backfillProfile(user *model.User, in CheckoutInput) bool {
	changed := false
	if in.Address != "" && user.Address == "" {
		user.Address = in.Address
		changed = true
	}
	if in.City != "" && user.City == "" {
		user.City = in.City
		changed = true
	}
	if in.Province != "" && user.Province == "" {
		user.Province = in.Province
		changed = true
	}
	if in.PostalCode != "" && user.PostalCode == "" {
		user.PostalCode = in.PostalCode
		changed = true
	}
	return changed
}

// NewOrderNo builds a public order number from a fresh uuid.
func NewOrderNo() string {
	return "SP" + strings.ToUpper(uuid.New().String()[:12])
}

// OrdersForUser lists the caller's orders, newest first.
func (s *Service) OrdersForUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// OrderByID loads one order with its items.
func (s *Service) OrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
