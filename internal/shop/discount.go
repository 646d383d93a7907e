package shop

import (
	"context"
	"errors"
	"time"

	"shop/internal/model"

	"gorm.io/gorm"
)

// ApplyCode attaches a discount code to the session's current order.
//
// The is_used flip is a guarded UPDATE (compare-and-swap on is_used =
// false), so two concurrent applies of the same code cannot both succeed:
// the loser sees zero affected rows and fails as already used. Code and
// order writes share one transaction.
func (s *Service) ApplyCode(ctx context.Context, sessionID, code string) (*model.Order, error) {
	orderID, found, err := s.carts.CurrentOrderID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}

	var order model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		// One code per order. Overwriting would strand the first code as
		// used with no order left referencing it.
		if order.DiscountCode != "" {
			return ErrCodeApplied
		}

		var dc model.DiscountCode
		if err := tx.Where("code = ?", code).First(&dc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		// Expiry first: an expired code reports expired no matter its
		// is_used state.
		if dc.Expired(time.Now()) {
			return ErrCodeExpired
		}

		res := tx.Model(&model.DiscountCode{}).
			Where("id = ? AND is_used = ?", dc.ID, false).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCodeUsed
		}

		// Integer percent arithmetic; the division truncates.
		newPrice := order.Price - (dc.Percent*order.Price)/100

		order.DiscountCode = dc.Code
		order.Price = newPrice
		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"discount_code": order.DiscountCode,
				"price":         order.Price,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveCode detaches the order's discount code and restores the price via
// the observed inverse: price*100/(100-percent), integer division. This is
// not an exact inverse of the apply formula for every price/percent pair;
// that rounding behavior is preserved deliberately.
func (s *Service) RemoveCode(ctx context.Context, sessionID string) (*model.Order, error) {
	orderID, found, err := s.carts.CurrentOrderID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}

	var order model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.DiscountCode == "" {
			return ErrNoCodeApplied
		}

		var dc model.DiscountCode
		if err := tx.Where("code = ?", order.DiscountCode).First(&dc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		if dc.Percent >= 100 {
			return ErrDivideByZero
		}
		restored := (order.Price * 100) / (100 - dc.Percent)

		if err := tx.Model(&model.DiscountCode{}).
			Where("id = ?", dc.ID).
			Update("is_used", false).Error; err != nil {
			return err
		}

		order.DiscountCode = ""
		order.Price = restored
		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"discount_code": "",
				"price":         restored,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
