package router

import (
	"net/http"
	"strconv"

	"shop/internal/middleware"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
)

// checkout converts the session cart into an order. Address fields are
// optional when the user's profile already has them.
func checkout(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Address    string `json:"address"`
			City       string `json:"city"`
			Province   string `json:"province"`
			PostalCode string `json:"postal_code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		order, err := d.Shop.Checkout(c.Request.Context(), middleware.SessionID(c), user, shop.CheckoutInput{
			Address:    req.Address,
			City:       req.City,
			Province:   req.Province,
			PostalCode: req.PostalCode,
		})
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, order)
	}
}

func listOrders(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		orders, err := d.Shop.OrdersForUser(c.Request.Context(), user.ID)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, orders)
	}
}

func getOrder(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid order id"})
			return
		}

		order, err := d.Shop.OrderByID(c.Request.Context(), uint(id))
		if err != nil {
			fail(c, err)
			return
		}

		// Customers only see their own orders; staff see everything.
		user := middleware.CurrentUser(c)
		if order.UserID != user.ID && !user.IsStaff {
			fail(c, shop.ErrOrderNotFound)
			return
		}
		ok(c, order)
	}
}

// applyDiscount attaches a code to the session's current order.
func applyDiscount(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		order, err := d.Shop.ApplyCode(c.Request.Context(), middleware.SessionID(c), req.Code)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, order)
	}
}

// removeDiscount detaches the current order's code and restores the price.
func removeDiscount(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := d.Shop.RemoveCode(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, order)
	}
}
